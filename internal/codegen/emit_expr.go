package codegen

import (
	"fmt"
	"math"

	"github.com/kobakobashu/c-compiler/internal/ast"
	"github.com/kobakobashu/c-compiler/internal/object"
	"github.com/kobakobashu/c-compiler/internal/types"
)

// memOperand formats an rbp-relative stack slot with an explicit size
// directive, matching the style real gcc -S Intel-syntax output uses for
// register/memory moves (spec.md §4.5).
func memOperand(offset, size int) string {
	return fmt.Sprintf("%s [rbp%+d]", ptrSize(size), offset)
}

// rbpOperand formats an rbp-relative address with no size directive, for
// use as a lea destination where the operand's width is implicit.
func rbpOperand(offset int) string {
	return fmt.Sprintf("[rbp%+d]", offset)
}

func ptrSize(size int) string {
	switch size {
	case 1:
		return "BYTE PTR"
	case 2:
		return "WORD PTR"
	case 4:
		return "DWORD PTR"
	default:
		return "QWORD PTR"
	}
}

// regA returns the accumulator sub-register matching size, mirroring the
// teacher's RegName(width)-keyed instruction helpers.
func regA(size int) string {
	switch size {
	case 1:
		return "al"
	case 2:
		return "ax"
	case 4:
		return "eax"
	default:
		return "rax"
	}
}

func regD(size int) string {
	switch size {
	case 1:
		return "dil"
	case 2:
		return "di"
	case 4:
		return "edi"
	default:
		return "rdi"
	}
}

func isAggregate(ty *types.Type) bool {
	return ty.Kind == types.STRUCT || ty.Kind == types.UNION
}

// genAddr emits the address of lvalue node n into rax (spec.md §4.5).
func genAddr(e *Emitter, fn *object.Obj, n *ast.Node) {
	switch n.Kind {
	case ast.VAR:
		if n.Var.IsLocal {
			e.Instr2("lea", "rax", rbpOperand(n.Var.Offset))
		} else {
			e.Instr2("lea", "rax", fmt.Sprintf("[rip+%s]", n.Var.Name))
		}
	case ast.DEREF:
		genExpr(e, fn, n.Lhs)
	case ast.MEMBER:
		genAddr(e, fn, n.Lhs)
		if n.Mem.Offset != 0 {
			e.Instr2("add", "rax", n.Mem.Offset)
		}
	case ast.COMMA:
		genExpr(e, fn, n.Lhs)
		genAddr(e, fn, n.Rhs)
	default:
		panic("internal: codegen given a non-lvalue node for address-of")
	}
}

// load emits a sign/zero-extending read through the address currently in
// rax, replacing rax with the loaded value (spec.md §4.5). Aggregate types
// are left as a bare address - codegen represents a struct/union value by
// its address throughout.
func load(e *Emitter, ty *types.Type) {
	switch ty.Kind {
	case types.ARRAY, types.STRUCT, types.UNION, types.FUNC:
		return
	case types.BOOL:
		e.Instr2("movzx", "rax", "BYTE PTR [rax]")
	case types.CHAR:
		e.Instr2("movsx", "rax", "BYTE PTR [rax]")
	case types.SHORT:
		e.Instr2("movsx", "rax", "WORD PTR [rax]")
	case types.INT, types.ENUM:
		e.Instr2("movsxd", "rax", "DWORD PTR [rax]")
	case types.FLOAT:
		e.Instr2("mov", "eax", "DWORD PTR [rax]")
	default: // LONG, PTR, DOUBLE (raw 8-byte bit pattern)
		e.Instr2("mov", "rax", "QWORD PTR [rax]")
	}
}

// store writes rax through the address in rdi, leaving rax holding the
// stored value (or, for aggregates, the destination address) so a chained
// assignment `a = b = c` keeps working (spec.md §4.5).
func store(e *Emitter, ty *types.Type) {
	if isAggregate(ty) {
		e.Instr2("mov", "rsi", "rax")
		e.Instr2("mov", "r11", "rdi")
		e.Instr2("mov", "rcx", ty.Size)
		e.Instr0("rep movsb")
		e.Instr2("mov", "rax", "r11")
		return
	}
	e.Instr2("mov", "[rdi]", regA(ty.Size))
}

// genExpr emits n's value into rax, or - for a struct/union-typed
// expression - its address (spec.md §4.5's "aggregates are represented by
// address throughout codegen").
func genExpr(e *Emitter, fn *object.Obj, n *ast.Node) {
	switch n.Kind {
	case ast.NUM:
		e.Instr2("mov", "rax", n.Val)
	case ast.FNUM:
		// Storage-only float/double: move the IEEE-754 bit pattern as a
		// plain integer (spec.md §5 supplement - no FP arithmetic support).
		e.Instr2("mov", "rax", int64(math.Float64bits(n.FloatVal)))
	case ast.VAR, ast.MEMBER:
		genAddr(e, fn, n)
		load(e, n.Ty)
	case ast.DEREF:
		genExpr(e, fn, n.Lhs)
		load(e, n.Ty)
	case ast.ADDR:
		genAddr(e, fn, n.Lhs)
	case ast.ASSIGN:
		genAddr(e, fn, n.Lhs)
		e.Push()
		genExpr(e, fn, n.Rhs)
		e.Pop("rdi")
		store(e, n.Ty)
	case ast.NEG:
		genExpr(e, fn, n.Lhs)
		e.Instr1("neg", "rax")
	case ast.NOT:
		genExpr(e, fn, n.Lhs)
		e.Instr2("cmp", regA(sizeOf(n.Lhs.Ty)), 0)
		e.Instr1("sete", "al")
		e.Instr2("movzx", "rax", "al")
	case ast.BITNOT:
		genExpr(e, fn, n.Lhs)
		e.Instr1("not", "rax")
	case ast.LOGAND:
		genLogAnd(e, fn, n)
	case ast.LOGOR:
		genLogOr(e, fn, n)
	case ast.COND:
		genCond(e, fn, n)
	case ast.COMMA:
		genExpr(e, fn, n.Lhs)
		genExpr(e, fn, n.Rhs)
	case ast.CAST:
		genExpr(e, fn, n.Lhs)
		castExpr(e, n.Lhs.Ty, n.Ty)
	case ast.STMTEXPR:
		genStmtExpr(e, fn, n)
	case ast.FUNCALL:
		genFuncall(e, fn, n)
	case ast.ADD, ast.SUB, ast.MUL, ast.DIV, ast.MOD,
		ast.BITAND, ast.BITOR, ast.BITXOR, ast.SHL, ast.SHR,
		ast.EQ, ast.NE, ast.LT, ast.LE:
		genBinary(e, fn, n)
	default:
		panic("internal: codegen encountered an unhandled expression kind")
	}
}

// sizeOf treats anything narrower than int as promoted to int width, to
// match integer-promotion already baked into the node's static type.
func sizeOf(ty *types.Type) int {
	if ty.Size < 4 {
		return 4
	}
	return ty.Size
}

// castTo normalizes rax to ty's width with no assumption about what was
// there before - used only for a function call's return value, whose
// upper bits the ABI does not guarantee for a narrow return type (spec.md
// §4.5 "Function call").
func castTo(e *Emitter, to *types.Type) {
	switch to.Kind {
	case types.VOID:
		return
	case types.BOOL:
		e.Instr2("cmp", "rax", 0)
		e.Instr1("setne", "al")
		e.Instr2("movzx", "rax", "al")
		return
	}
	switch to.Size {
	case 1:
		e.Instr2("movsx", "rax", "al")
	case 2:
		e.Instr2("movsx", "rax", "ax")
	case 4:
		e.Instr2("movsxd", "rax", "eax")
	}
}

// typeID buckets a type into the four integer widths the cast table is
// indexed by (spec.md §4.5 "4x4 table indexed by (from,to) in {i8,i16,i32,
// i64}"); anything wider than int (long, pointer) lands in the i64 bucket.
func typeID(ty *types.Type) int {
	switch ty.Kind {
	case types.CHAR:
		return 0
	case types.SHORT:
		return 1
	case types.INT, types.ENUM:
		return 2
	default:
		return 3
	}
}

type castStep struct{ op, dst, src string }

// castInstrs is the cast table itself: entry (from,to) is nil when no
// instruction is needed - truncation to a narrower width is free (the
// caller just reads the appropriately-sized sub-register from then on),
// and same-width casts are no-ops. Grounded on original_source/9cc's
// cast_table (codegen.c) and its i32i8/i32i16/i32i64 instruction forms.
var castInstrs = map[[2]int]castStep{
	{1, 0}: {"movsx", "eax", "al"},
	{2, 0}: {"movsx", "eax", "al"},
	{3, 0}: {"movsx", "eax", "al"},
	{2, 1}: {"movsx", "eax", "ax"},
	{3, 1}: {"movsx", "eax", "ax"},
	{0, 3}: {"movsxd", "rax", "eax"},
	{1, 3}: {"movsxd", "rax", "eax"},
	{2, 3}: {"movsxd", "rax", "eax"},
}

// castExpr lowers an explicit or implicit CAST node between two known
// integer types (spec.md §4.5). Casting to/from void, and casting to
// bool, bypass the width table entirely.
func castExpr(e *Emitter, from, to *types.Type) {
	if to.Kind == types.VOID {
		return
	}
	if to.Kind == types.BOOL {
		e.Instr2("cmp", "rax", 0)
		e.Instr1("setne", "al")
		e.Instr2("movzx", "rax", "al")
		return
	}
	if step, ok := castInstrs[[2]int{typeID(from), typeID(to)}]; ok {
		e.Instr2(step.op, step.dst, step.src)
	}
}

// genBinOperands evaluates rhs then lhs, leaving lhs in rax and rhs in rdi
// - the operand order every arithmetic/relational case below depends on
// (spec.md §4.5, grounded on the teacher's left-operand-in-accumulator
// convention).
func genBinOperands(e *Emitter, fn *object.Obj, n *ast.Node) {
	genExpr(e, fn, n.Rhs)
	e.Push()
	genExpr(e, fn, n.Lhs)
	e.Pop("rdi")
}

func genBinary(e *Emitter, fn *object.Obj, n *ast.Node) {
	genBinOperands(e, fn, n)
	// Matches original_source/9cc/codegen.c's gen_expr: register width is
	// decided once from the lhs operand's type (long or pointer -> 64-bit,
	// else 32-bit) and reused for every case below, comparisons included.
	size := sizeOf(n.Lhs.Ty)
	a, d := regA(size), regD(size)

	switch n.Kind {
	case ast.ADD:
		e.Instr2("add", a, d)
	case ast.SUB:
		e.Instr2("sub", a, d)
	case ast.MUL:
		e.Instr2("imul", a, d)
	case ast.DIV, ast.MOD:
		if size == 8 {
			e.Instr0("cqo")
		} else {
			e.Instr0("cdq")
		}
		e.Instr1("idiv", d)
		if n.Kind == ast.MOD {
			e.Instr2("mov", "rax", "rdx")
		}
	case ast.BITAND:
		e.Instr2("and", a, d)
	case ast.BITOR:
		e.Instr2("or", a, d)
	case ast.BITXOR:
		e.Instr2("xor", a, d)
	case ast.SHL:
		e.Instr2("mov", "rcx", "rdi")
		e.Instr2("sal", a, "cl")
	case ast.SHR:
		e.Instr2("mov", "rcx", "rdi")
		e.Instr2("sar", a, "cl")
	case ast.EQ, ast.NE, ast.LT, ast.LE:
		e.Instr2("cmp", a, d)
		setcc := map[ast.Kind]string{ast.EQ: "sete", ast.NE: "setne", ast.LT: "setl", ast.LE: "setle"}[n.Kind]
		e.Instr1(setcc, "al")
		e.Instr2("movzx", "rax", "al")
	}
}

func genLogAnd(e *Emitter, fn *object.Obj, n *ast.Node) {
	lfalse := e.NewLabel("and.false")
	lend := e.NewLabel("and.end")
	genExpr(e, fn, n.Lhs)
	e.Instr2("cmp", "rax", 0)
	e.Instr1("je", lfalse)
	genExpr(e, fn, n.Rhs)
	e.Instr2("cmp", "rax", 0)
	e.Instr1("je", lfalse)
	e.Instr2("mov", "rax", 1)
	e.Instr1("jmp", lend)
	e.Label(lfalse)
	e.Instr2("mov", "rax", 0)
	e.Label(lend)
}

func genLogOr(e *Emitter, fn *object.Obj, n *ast.Node) {
	ltrue := e.NewLabel("or.true")
	lend := e.NewLabel("or.end")
	genExpr(e, fn, n.Lhs)
	e.Instr2("cmp", "rax", 0)
	e.Instr1("jne", ltrue)
	genExpr(e, fn, n.Rhs)
	e.Instr2("cmp", "rax", 0)
	e.Instr1("jne", ltrue)
	e.Instr2("mov", "rax", 0)
	e.Instr1("jmp", lend)
	e.Label(ltrue)
	e.Instr2("mov", "rax", 1)
	e.Label(lend)
}

func genCond(e *Emitter, fn *object.Obj, n *ast.Node) {
	lelse := e.NewLabel("cond.else")
	lend := e.NewLabel("cond.end")
	genExpr(e, fn, n.Cond)
	e.Instr2("cmp", "rax", 0)
	e.Instr1("je", lelse)
	genExpr(e, fn, n.Then)
	e.Instr1("jmp", lend)
	e.Label(lelse)
	genExpr(e, fn, n.Els)
	e.Label(lend)
}

func genStmtExpr(e *Emitter, fn *object.Obj, n *ast.Node) {
	for i, stmt := range n.Body {
		if i == len(n.Body)-1 && stmt.Kind == ast.EXPRSTMT {
			genExpr(e, fn, stmt.Lhs)
			return
		}
		genStmt(e, fn, stmt)
	}
}

// genFuncall evaluates every argument onto the operand stack (so nested
// calls can't clobber an already-computed argument's register), then pops
// them off into the System V 64-bit integer argument registers in order
// and issues the call, 16-byte-aligning rsp first (spec.md §4.5, grounded
// on original_source/9cc/codegen.c's ND_FUNCALL - every argument travels in
// its full 64-bit register regardless of declared width, since genExpr
// already left it correctly sign/zero-extended).
func genFuncall(e *Emitter, fn *object.Obj, n *ast.Node) {
	for _, arg := range n.Args {
		genExpr(e, fn, arg)
		e.Push()
	}

	for i := len(n.Args) - 1; i >= 0; i-- {
		e.Pop(argReg(i, 8))
	}

	needsAlign := e.depth%2 != 0
	if needsAlign {
		e.Instr2("sub", "rsp", 8)
	}
	e.Instr2("mov", "rax", 0)
	e.Instr1("call", n.FuncName)
	if needsAlign {
		e.Instr2("add", "rsp", 8)
	}

	if n.Ty != nil {
		castTo(e, n.Ty)
	}
}
