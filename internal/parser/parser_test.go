package parser

import (
	"testing"

	"github.com/kobakobashu/c-compiler/internal/lexer"
	"github.com/kobakobashu/c-compiler/internal/object"
	"github.com/kobakobashu/c-compiler/internal/types"
)

func parse(t *testing.T, src string) *Result {
	t.Helper()
	head := lexer.Tokenize("test.c", src)
	return Parse(head)
}

func TestParseFunctionDefinition(t *testing.T) {
	r := parse(t, "int add(int a, int b) { return a + b; }\n")
	if len(r.Globals) != 1 {
		t.Fatalf("got %d globals, want 1", len(r.Globals))
	}
	fn := r.Globals[0]
	if !fn.IsFunction || !fn.IsDefinition {
		t.Fatalf("add: got IsFunction=%v IsDefinition=%v, want true/true", fn.IsFunction, fn.IsDefinition)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("add: got %d params, want 2", len(fn.Params))
	}
}

func TestParseGlobalVariable(t *testing.T) {
	r := parse(t, "int counter;\n")
	if len(r.Globals) != 1 {
		t.Fatalf("got %d globals, want 1", len(r.Globals))
	}
	g := r.Globals[0]
	if g.IsFunction {
		t.Fatalf("counter: expected a data global, got a function")
	}
	if g.Ty.Kind != types.INT {
		t.Errorf("counter: got type kind %v, want INT", g.Ty.Kind)
	}
}

func TestParseStaticLinkage(t *testing.T) {
	r := parse(t, "static int hidden;\nint visible;\n")
	var hidden, visible *object.Obj
	for _, g := range r.Globals {
		switch g.Name {
		case "hidden":
			hidden = g
		case "visible":
			visible = g
		}
	}
	if hidden == nil || visible == nil {
		t.Fatalf("expected both globals to parse, got %v", r.Globals)
	}
	if !hidden.IsStatic {
		t.Error("hidden: expected IsStatic")
	}
	if visible.IsStatic {
		t.Error("visible: expected non-static")
	}
}

func TestParseStringLiteralBecomesAnonGlobal(t *testing.T) {
	r := parse(t, `char *msg(void) { return "hello"; }`+"\n")
	found := false
	for _, g := range r.Globals {
		if !g.IsFunction && len(g.InitData) == 6 {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an anonymous 6-byte string global among %v", r.Globals)
	}
}

func TestParseStructMemberLayout(t *testing.T) {
	r := parse(t, "struct Point { int x; int y; };\nint f(void) { struct Point p; return p.x; }\n")
	if len(r.Globals) != 1 {
		t.Fatalf("got %d globals, want 1 (struct declarations alone declare no object)", len(r.Globals))
	}
	locals := r.Globals[0].Locals
	if len(locals) != 1 || len(locals[0].Ty.Members) != 2 {
		t.Fatalf("f: expected one local of a two-member struct type, got %v", locals)
	}
	if y := locals[0].Ty.Members[1]; y.Offset != 4 {
		t.Errorf("Point.y: offset %d, want 4", y.Offset)
	}
}
