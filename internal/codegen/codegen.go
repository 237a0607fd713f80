// Package codegen lowers a parsed translation unit to x86-64 assembly text
// in GNU assembler Intel syntax, targeting the System V AMD64 calling
// convention (spec.md §4.5).
//
// Grounded on the teacher's lang/ygen/emit.go Emitter (a *bufio.Writer
// wrapper with a monotonic label counter and Instr0/1/2/3 helpers),
// generalized from WUT-4's three-operand RISC instruction shapes to x86-64's
// two-operand CISC forms, and on lang/yasm/output.go's data-section
// emission, generalized from WUT-4's .words/.bytes directives to GNU as's
// .quad/.byte/.zero.
package codegen

import (
	"bufio"
	"fmt"
	"io"

	"github.com/kobakobashu/c-compiler/internal/clog"
	"github.com/kobakobashu/c-compiler/internal/object"
)

// countingWriter tallies bytes written through it, so Generate can report
// the total assembly size without the Emitter itself needing to care
// (spec.md §2.2 "codegen: ... total assembly bytes written").
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// argRegs64/argRegs32/argRegs16/argRegs8 are the System V AMD64 integer
// argument-passing registers, narrowed to the width a parameter's type
// needs (spec.md §4.5 "Argument passing").
var (
	argRegs64 = []string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}
	argRegs32 = []string{"edi", "esi", "edx", "ecx", "r8d", "r9d"}
	argRegs16 = []string{"di", "si", "dx", "cx", "r8w", "r9w"}
	argRegs8  = []string{"dil", "sil", "dl", "cl", "r8b", "r9b"}
)

// Emitter wraps a *bufio.Writer with the assembly-text helpers codegen's
// gen* methods call, plus the monotonic label counter spec.md §5 requires
// ("label counters are monotone across the entire output").
type Emitter struct {
	out        *bufio.Writer
	labelCount int

	// depth tracks the emitted push/pop balance within the function
	// currently being generated, so every code path can assert it returns
	// to the depth it started at (spec.md P4, "stack depth is balanced at
	// every statement boundary").
	depth int

	// DebugLoc, when set, makes genStmt emit a source-line comment ahead of
	// every statement (the driver's --debug-loc flag).
	DebugLoc bool
}

// NewEmitter wraps w for assembly emission.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{out: bufio.NewWriter(w)}
}

// NewLabel returns a fresh, process-wide unique label of the given stem.
func (e *Emitter) NewLabel(stem string) string {
	label := fmt.Sprintf(".L.%s.%d", stem, e.labelCount)
	e.labelCount++
	return label
}

// Comment emits a GNU-as line comment.
func (e *Emitter) Comment(format string, args ...interface{}) {
	fmt.Fprintf(e.out, "  # %s\n", fmt.Sprintf(format, args...))
}

// Directive emits an assembler directive, e.g. ".globl main".
func (e *Emitter) Directive(format string, args ...interface{}) {
	fmt.Fprintf(e.out, "  %s\n", fmt.Sprintf(format, args...))
}

// Label emits a label definition.
func (e *Emitter) Label(name string) {
	fmt.Fprintf(e.out, "%s:\n", name)
}

// Instr0 emits a zero-operand instruction.
func (e *Emitter) Instr0(op string) {
	fmt.Fprintf(e.out, "  %s\n", op)
}

// Instr1 emits a one-operand instruction.
func (e *Emitter) Instr1(op string, arg interface{}) {
	fmt.Fprintf(e.out, "  %s %v\n", op, arg)
}

// Instr2 emits a two-operand instruction in Intel order (dst, src).
func (e *Emitter) Instr2(op string, dst, src interface{}) {
	fmt.Fprintf(e.out, "  %s %v, %v\n", op, dst, src)
}

// Push emits `push rax` and tracks depth.
func (e *Emitter) Push() {
	e.Instr1("push", "rax")
	e.depth++
}

// Pop emits `pop %reg`, restoring a value pushed by Push.
func (e *Emitter) Pop(reg string) {
	e.Instr1("pop", reg)
	e.depth--
}

// Flush flushes the underlying writer.
func (e *Emitter) Flush() error {
	return e.out.Flush()
}

// argReg returns the width-appropriate name of the i'th integer argument
// register (spec.md §4.5).
func argReg(i, size int) string {
	switch size {
	case 1:
		return argRegs8[i]
	case 2:
		return argRegs16[i]
	case 4:
		return argRegs32[i]
	default:
		return argRegs64[i]
	}
}

// Program is everything a full compilation unit's codegen needs: the
// parsed global object list (spec.md §4.5 entry point).
type Program struct {
	Globals []*object.Obj
}

// Generate lowers prog to assembly text written to w: it assigns stack
// offsets to every function's locals (spec.md §4.5 "stack layout pass"),
// then emits the .data/.bss section for every global with storage followed
// by the .text section for every function definition.
func Generate(prog *Program, w io.Writer, debugLoc bool) error {
	clog.Debug("codegen: starting")
	cw := &countingWriter{w: w}
	e := NewEmitter(cw)
	e.DebugLoc = debugLoc
	e.Directive(".intel_syntax noprefix")

	funcCount := 0
	for _, obj := range prog.Globals {
		if obj.IsFunction {
			assignLocalOffsets(obj)
			if obj.IsDefinition {
				funcCount++
			}
		}
	}

	emitData(e, prog.Globals)
	emitText(e, prog.Globals)

	if err := e.Flush(); err != nil {
		return err
	}
	clog.Debug("codegen: emitted %d functions, %d bytes written", funcCount, cw.n)
	return nil
}
