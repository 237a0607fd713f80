package codegen

import (
	"github.com/kobakobashu/c-compiler/internal/ast"
	"github.com/kobakobashu/c-compiler/internal/object"
)

// genStmt emits one statement (spec.md §4.5). Every case restores the
// emitter's push/pop depth to what it found, so emitFunction's per-statement
// assertDepth check holds.
func genStmt(e *Emitter, fn *object.Obj, n *ast.Node) {
	if n.Tok != nil {
		e.Directive(".loc 1 %d", n.Tok.Line)
	}
	if e.DebugLoc && n.Tok != nil {
		e.Comment("line %d", n.Tok.Line)
	}

	switch n.Kind {
	case ast.EXPRSTMT:
		genExpr(e, fn, n.Lhs)

	case ast.RETURNSTMT:
		if n.Lhs != nil {
			genExpr(e, fn, n.Lhs)
		}
		e.Instr1("jmp", ".L.return."+fn.Name)

	case ast.BLOCK:
		for _, stmt := range n.Body {
			genStmt(e, fn, stmt)
		}

	case ast.IFSTMT:
		genIf(e, fn, n)

	case ast.FORSTMT:
		genFor(e, fn, n)

	case ast.DOSTMT:
		genDo(e, fn, n)

	case ast.SWITCHSTMT:
		genSwitch(e, fn, n)

	case ast.CASESTMT:
		e.Label(n.UniqueTag)
		genStmt(e, fn, n.Then)

	case ast.GOTOSTMT:
		e.Instr1("jmp", n.UniqueTag)

	case ast.LABELSTMT:
		e.Label(n.UniqueTag)
		genStmt(e, fn, n.Then)

	case ast.MEMZERO:
		genMemzero(e, fn, n)

	case ast.NULLSTMT:
		// nothing to emit

	default:
		panic("internal: codegen encountered an unhandled statement kind")
	}
}

func genIf(e *Emitter, fn *object.Obj, n *ast.Node) {
	lelse := e.NewLabel("if.else")
	lend := e.NewLabel("if.end")

	genExpr(e, fn, n.Cond)
	e.Instr2("cmp", "rax", 0)
	if n.Els != nil {
		e.Instr1("je", lelse)
		genStmt(e, fn, n.Then)
		e.Instr1("jmp", lend)
		e.Label(lelse)
		genStmt(e, fn, n.Els)
		e.Label(lend)
	} else {
		e.Instr1("je", lend)
		genStmt(e, fn, n.Then)
		e.Label(lend)
	}
}

// genFor covers both `for` and the `while` desugaring (no Init/Inc), via the
// BreakLabel/ContinueLabel the parser already attached (spec.md §4.5).
func genFor(e *Emitter, fn *object.Obj, n *ast.Node) {
	lbegin := e.NewLabel("for.begin")

	if n.Init != nil {
		genStmt(e, fn, n.Init)
	}
	e.Label(lbegin)
	if n.Cond != nil {
		genExpr(e, fn, n.Cond)
		e.Instr2("cmp", "rax", 0)
		e.Instr1("je", n.BreakLabel)
	}
	genStmt(e, fn, n.Then)
	e.Label(n.ContinueLabel)
	if n.Inc != nil {
		genExpr(e, fn, n.Inc)
	}
	e.Instr1("jmp", lbegin)
	e.Label(n.BreakLabel)
}

func genDo(e *Emitter, fn *object.Obj, n *ast.Node) {
	lbegin := e.NewLabel("do.begin")
	e.Label(lbegin)
	genStmt(e, fn, n.Then)
	e.Label(n.ContinueLabel)
	genExpr(e, fn, n.Cond)
	e.Instr2("cmp", "rax", 0)
	e.Instr1("jne", lbegin)
	e.Label(n.BreakLabel)
}

// genSwitch dispatches with a chain of compares (chibicc's approach: no
// jump table), testing each case's range and falling through to default or
// past the body when nothing matches (spec.md §4.5, §3 CASESTMT.CaseBegin/
// CaseEnd - a range only for GNU case-range extensions, equal for a plain
// `case N:`).
func genSwitch(e *Emitter, fn *object.Obj, n *ast.Node) {
	genExpr(e, fn, n.Cond)
	for _, c := range n.Cases {
		lbl := e.NewLabel("switch.case")
		c.UniqueTag = lbl
		if c.CaseBegin == c.CaseEnd {
			e.Instr2("cmp", "rax", c.CaseBegin)
			e.Instr1("je", lbl)
		} else {
			e.Instr2("cmp", "rax", c.CaseBegin)
			ljump := e.NewLabel("switch.range")
			e.Instr1("jl", ljump)
			e.Instr2("cmp", "rax", c.CaseEnd)
			e.Instr1("jle", lbl)
			e.Label(ljump)
		}
	}
	if n.DefaultCase != nil {
		lbl := e.NewLabel("switch.default")
		n.DefaultCase.UniqueTag = lbl
		e.Instr1("jmp", lbl)
	} else {
		e.Instr1("jmp", n.BreakLabel)
	}

	genStmt(e, fn, n.Then)
	e.Label(n.BreakLabel)
}

// genMemzero clears a stack object's storage byte-by-byte via rep stosb
// ahead of a local initializer's assignment sequence (spec.md §4.5
// supplement, grounded on the struct-copy rep movsb idiom already used by
// store() for aggregate assignment).
func genMemzero(e *Emitter, fn *object.Obj, n *ast.Node) {
	genAddr(e, fn, n.Lhs)
	e.Instr2("mov", "rdi", "rax")
	e.Instr2("mov", "rcx", n.Lhs.Ty.Size)
	e.Instr2("mov", "al", 0)
	e.Instr0("rep stosb")
}
