package codegen

import (
	"github.com/kobakobashu/c-compiler/internal/ast"
	"github.com/kobakobashu/c-compiler/internal/collections"
	"github.com/kobakobashu/c-compiler/internal/object"
)

// emitText writes the .text section: every function definition's
// prologue, body, and epilogue (spec.md §4.5).
func emitText(e *Emitter, globals []*object.Obj) {
	fns := collections.Filter(globals, func(obj *object.Obj, _ int) bool {
		return obj.IsFunction && obj.IsDefinition
	})
	for _, fn := range fns {
		emitFunction(e, fn)
	}
}

// emitFunction lowers one function definition: a standard rbp-based
// prologue reserving fn.StackSize bytes, the spilling of its incoming
// register arguments into their stack slots, the statement-list body, and
// a shared epilogue every `return` jumps to (spec.md §4.5, grounded on the
// teacher's Emitter-driven function assembly in lang/ygen).
func emitFunction(e *Emitter, fn *object.Obj) {
	e.Directive(".text")
	if !fn.IsStatic {
		e.Directive(".globl %s", fn.Name)
	} else {
		e.Directive(".local %s", fn.Name)
	}
	e.Label(fn.Name)

	e.Instr1("push", "rbp")
	e.Instr2("mov", "rbp", "rsp")
	e.Instr2("sub", "rsp", fn.StackSize)

	spillParams(e, fn)

	body, _ := fn.Body.(*ast.Node)
	if body != nil {
		for _, stmt := range body.Body {
			genStmt(e, fn, stmt)
			assertDepth(e, 0)
		}
	}

	e.Label(".L.return." + fn.Name)
	e.Instr2("mov", "rsp", "rbp")
	e.Instr1("pop", "rbp")
	e.Instr0("ret")
}

// spillParams copies each incoming argument register into its parameter
// object's stack slot; a variadic function additionally spills the integer
// argument registers not taken by named parameters into consecutive 8-byte
// slots starting at the bottom of its register save area (spec.md §4.5
// supplement).
func spillParams(e *Emitter, fn *object.Obj) {
	regs := collections.Map(fn.Params, func(param *object.Obj, i int) string {
		return argReg(i, param.Ty.Size)
	})
	for i, param := range fn.Params {
		e.Instr2("mov", memOperand(param.Offset, param.Ty.Size), regs[i])
	}

	if fn.HasVariadicSaveArea {
		for i := len(fn.Params); i < 6; i++ {
			off := fn.VaAreaOffset + (i-len(fn.Params))*8
			e.Instr2("mov", memOperand(off, 8), argReg(i, 8))
		}
	}
}

// assertDepth verifies the emitter's push/pop balance is back to want at a
// statement boundary (spec.md P4); a mismatch is a codegen bug, not a
// user-facing error, so it panics rather than going through internal/diag.
func assertDepth(e *Emitter, want int) {
	if e.depth != want {
		panic("internal: unbalanced push/pop in codegen")
	}
}
