package ast

import (
	"github.com/kobakobashu/c-compiler/internal/diag"
	"github.com/kobakobashu/c-compiler/internal/types"
)

// AddType performs the post-order type walk spec.md §4.2 describes,
// assigning a type to every node reachable from n. It is idempotent: a
// node that already carries a non-nil Ty is left untouched, so re-running
// it over an already-typed tree is a no-op (spec.md §8 property P1).
func AddType(n *Node) {
	if n == nil || n.Ty != nil {
		return
	}

	AddType(n.Lhs)
	AddType(n.Rhs)
	AddType(n.Cond)
	AddType(n.Then)
	AddType(n.Els)
	AddType(n.Init)
	AddType(n.Inc)
	for _, s := range n.Body {
		AddType(s)
	}
	for _, a := range n.Args {
		AddType(a)
	}

	switch n.Kind {
	case NUM:
		n.Ty = types.Long
	case FNUM:
		n.Ty = types.Double
	case VAR:
		n.Ty = n.Var.Ty
	case ADD, SUB, MUL, DIV, MOD, BITAND, BITOR, BITXOR:
		n.Ty = usualArithmeticConversion(n, n.Lhs.Ty, n.Rhs.Ty)
	case NEG:
		n.Ty = promote(n, n.Lhs.Ty)
	case BITNOT:
		n.Ty = promote(n, n.Lhs.Ty)
	case SHL, SHR:
		n.Ty = promote(n, n.Lhs.Ty)
	case NOT, LOGAND, LOGOR, EQ, NE, LT, LE:
		n.Ty = types.Int
	case ASSIGN:
		if n.Lhs.Ty.Kind == types.ARRAY {
			panic("internal: array lvalue cannot be assigned (caller must diagnose before reaching AddType)")
		}
		if n.Lhs.Ty.Kind != types.STRUCT && n.Lhs.Ty.Kind != types.UNION {
			// Implicit conversion to the destination type, so e.g. a _Bool
			// lvalue always receives 0 or 1.
			n.Rhs = &Node{Kind: CAST, Tok: n.Tok, Lhs: n.Rhs, Ty: n.Lhs.Ty}
		}
		n.Ty = n.Lhs.Ty
	case COMMA, COMMALIST:
		n.Ty = n.Rhs.Ty
	case COND:
		if n.Then.Ty.Kind == types.VOID || n.Els.Ty.Kind == types.VOID {
			n.Ty = types.Void
		} else {
			n.Ty = usualArithmeticConversion(n, n.Then.Ty, n.Els.Ty)
		}
	case ADDR:
		if n.Lhs.Ty.Kind == types.ARRAY {
			n.Ty = types.PointerTo(n.Lhs.Ty.Base)
		} else {
			n.Ty = types.PointerTo(n.Lhs.Ty)
		}
	case DEREF:
		if n.Lhs.Ty.Base == nil {
			panic("internal: dereference of non-pointer type (caller must diagnose before reaching AddType)")
		}
		n.Ty = n.Lhs.Ty.Base
	case MEMBER:
		n.Ty = n.Mem.Ty
	case FUNCALL:
		if n.FuncType != nil {
			n.Ty = n.FuncType.Return
		} else {
			n.Ty = types.Int
		}
	case STMTEXPR:
		if len(n.Body) > 0 {
			last := n.Body[len(n.Body)-1]
			if last.Kind == EXPRSTMT {
				n.Ty = last.Lhs.Ty
				break
			}
		}
		n.Ty = types.Void
	case PREINC, PREDEC, POSTINC, POSTDEC:
		n.Ty = n.Lhs.Ty
	case CAST:
		// Ty is set explicitly by the caller before AddType runs on a cast
		// node; nothing to infer.
	default:
		n.Ty = types.Void
	}
}

// promote applies integer promotion: anything narrower than int becomes
// int (spec.md §4.2). float/double are storage-only (spec.md §13 lists
// floating-point arithmetic as a non-goal) and never reach a codegen
// arithmetic path, so they're rejected here rather than silently promoted.
func promote(n *Node, t *types.Type) *types.Type {
	if t.IsFlonum() {
		diag.ErrorAt(n.Tok.Pos, "floating-point arithmetic is not supported")
	}
	if t.Size < types.Int.Size {
		return types.Int
	}
	return t
}

// usualArithmeticConversion implements spec.md §4.2's simplified rules:
// pointer ± int keeps the pointer type; otherwise the result is the wider
// of the two operand types, with int as the floor. float/double operands
// are rejected outright - they're storage-only (spec.md §13 non-goal), and
// letting them through here would hand codegen raw IEEE-754 bit patterns to
// run integer arithmetic on.
func usualArithmeticConversion(n *Node, a, b *types.Type) *types.Type {
	if a.IsPointer() {
		return a.PointerToOrSelf()
	}
	if b.IsPointer() {
		return b.PointerToOrSelf()
	}
	if a.IsFlonum() || b.IsFlonum() {
		diag.ErrorAt(n.Tok.Pos, "floating-point arithmetic is not supported")
	}
	a, b = promote(n, a), promote(n, b)
	if a.Size >= b.Size {
		return a
	}
	return b
}
