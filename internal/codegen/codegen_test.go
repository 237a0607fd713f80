package codegen

import (
	"strings"
	"testing"

	"github.com/kobakobashu/c-compiler/internal/lexer"
	"github.com/kobakobashu/c-compiler/internal/parser"
)

// compile runs the full tokenize -> parse -> generate pipeline and returns
// the emitted assembly text, mirroring the teacher's integration-test style
// of piping source through each stage and inspecting the structural output.
func compile(t *testing.T, src string) string {
	t.Helper()
	return compileWith(t, src, false)
}

func compileWith(t *testing.T, src string, debugLoc bool) string {
	t.Helper()
	head := lexer.Tokenize("test.c", src)
	result := parser.Parse(head)
	prog := &Program{Globals: result.Globals}

	var sb strings.Builder
	if err := Generate(prog, &sb, debugLoc); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return sb.String()
}

func TestGenerateEmitsIntelSyntaxDirective(t *testing.T) {
	asm := compile(t, "int main(void) { return 0; }\n")
	if !strings.HasPrefix(strings.TrimLeft(asm, " "), ".intel_syntax noprefix") {
		t.Errorf("expected .intel_syntax noprefix as the first emitted line, got:\n%s", asm)
	}
}

func TestGenerateEmitsLocDirectiveUnconditionally(t *testing.T) {
	asm := compile(t, "int main(void) { return 0; }\n")
	if !strings.Contains(asm, ".loc 1 1") {
		t.Errorf("expected an unconditional .loc directive for the return statement, got:\n%s", asm)
	}
	if strings.Contains(asm, "# line") {
		t.Errorf("expected no --debug-loc comment without the flag, got:\n%s", asm)
	}
}

func TestGenerateEmitsFunctionLabel(t *testing.T) {
	asm := compile(t, "int main(void) { return 0; }\n")
	if !strings.Contains(asm, "main:") {
		t.Errorf("expected a main: label, got:\n%s", asm)
	}
	if !strings.Contains(asm, ".globl main") {
		t.Errorf("expected main to be globally visible, got:\n%s", asm)
	}
}

func TestGenerateStaticFunctionIsLocal(t *testing.T) {
	asm := compile(t, "static int helper(void) { return 1; }\n")
	if !strings.Contains(asm, ".local helper") {
		t.Errorf("expected helper to be local, got:\n%s", asm)
	}
}

func TestGenerateZeroInitGlobalUsesBss(t *testing.T) {
	asm := compile(t, "int counter;\n")
	if !strings.Contains(asm, ".bss") {
		t.Errorf("expected a zero-initialized global to land in .bss, got:\n%s", asm)
	}
	if !strings.Contains(asm, ".zero 4") {
		t.Errorf("expected a 4-byte .zero reservation for counter, got:\n%s", asm)
	}
}

func TestGenerateInitializedGlobalUsesData(t *testing.T) {
	asm := compile(t, "int counter = 7;\n")
	if !strings.Contains(asm, ".data") {
		t.Errorf("expected an initialized global to land in .data, got:\n%s", asm)
	}
}

func TestGenerateBinaryArithmetic(t *testing.T) {
	asm := compile(t, "int add(int a, int b) { return a + b; }\n")
	if !strings.Contains(asm, "add eax, edi") {
		t.Errorf("expected a 32-bit add for two int operands, got:\n%s", asm)
	}
}

func TestGenerateWideningCastResignExtends(t *testing.T) {
	asm := compile(t, "long widen(int x) { return (long)x; }\n")
	if !strings.Contains(asm, "movsxd rax, eax") {
		t.Errorf("expected an explicit movsxd re-sign-extension on widening cast to long, got:\n%s", asm)
	}
}

func TestGenerateFunctionCallZeroesRax(t *testing.T) {
	asm := compile(t, "int f(void); int g(void) { return f(); }\n")
	if !strings.Contains(asm, "mov rax, 0") || !strings.Contains(asm, "call f") {
		t.Errorf("expected rax to be zeroed before every call, got:\n%s", asm)
	}
}

func TestGenerateFloatGlobalIsStorageOnly(t *testing.T) {
	asm := compile(t, "double pi = 3.5;\n")
	if !strings.Contains(asm, ".data") {
		t.Errorf("expected a float global initializer to fold into .data, got:\n%s", asm)
	}
}

func TestGenerateSwitchFallsThroughToBreakLabel(t *testing.T) {
	asm := compile(t, "int f(int x) { switch (x) { case 1: return 1; } return 0; }\n")
	if !strings.Contains(asm, "je") {
		t.Errorf("expected a compare/je cascade for switch cases, got:\n%s", asm)
	}
	if !strings.Contains(asm, "jmp .L.switch.0.break") {
		t.Errorf("expected an unmatched switch with no default to jump to its break label, got:\n%s", asm)
	}
}

func TestGenerateDebugLocEmitsLineComments(t *testing.T) {
	asm := compileWith(t, "int main(void) { return 0; }\n", true)
	if !strings.Contains(asm, "# line") {
		t.Errorf("expected --debug-loc to emit a source-line comment, got:\n%s", asm)
	}
	if !strings.Contains(asm, ".loc 1 1") {
		t.Errorf("expected --debug-loc to still carry the unconditional .loc directive, got:\n%s", asm)
	}
}
