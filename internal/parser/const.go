package parser

import (
	"github.com/kobakobashu/c-compiler/internal/ast"
	"github.com/kobakobashu/c-compiler/internal/diag"
	"github.com/kobakobashu/c-compiler/internal/types"
)

// constExprValue parses a conditional-expression and folds it to a plain
// compile-time integer, for contexts that never admit a relocation (array
// lengths, enum values, case labels) - spec.md §4.4.
func (p *parser) constExprValue() int64 {
	n := p.conditional()
	ast.AddType(n)
	val, label := evalConstExpr(n)
	if label != "" {
		diag.ErrorAt(n.Tok.Pos, "expression is not an integer constant")
	}
	return val
}

// evalConstExpr folds a constant expression to a (value, label) pair: label
// is empty for a pure integer, or the name of the global the value is
// relative to (spec.md §3/§4.5 "global initializers fold to raw bytes plus
// relocations"). At most one operand of any fold may carry a label - this
// subset has no use for label-minus-label or label-times-int.
func evalConstExpr(n *ast.Node) (val int64, label string) {
	switch n.Kind {
	case ast.NUM:
		return n.Val, ""
	case ast.FNUM:
		return int64(n.FloatVal), ""
	case ast.ADD:
		lv, ll := evalConstExpr(n.Lhs)
		rv, rl := evalConstExpr(n.Rhs)
		if ll != "" && rl != "" {
			diag.ErrorAt(n.Tok.Pos, "invalid constant expression: label + label")
		}
		label = ll
		if label == "" {
			label = rl
		}
		return lv + rv, label
	case ast.SUB:
		lv, ll := evalConstExpr(n.Lhs)
		rv, rl := evalConstExpr(n.Rhs)
		if rl != "" {
			diag.ErrorAt(n.Tok.Pos, "invalid constant expression: cannot subtract an address")
		}
		return lv - rv, ll
	case ast.MUL, ast.DIV, ast.MOD, ast.BITAND, ast.BITOR, ast.BITXOR, ast.SHL, ast.SHR:
		lv, ll := evalConstExpr(n.Lhs)
		rv, rl := evalConstExpr(n.Rhs)
		if ll != "" || rl != "" {
			diag.ErrorAt(n.Tok.Pos, "invalid constant expression involving an address")
		}
		switch n.Kind {
		case ast.MUL:
			return lv * rv, ""
		case ast.DIV:
			return lv / rv, ""
		case ast.MOD:
			return lv % rv, ""
		case ast.BITAND:
			return lv & rv, ""
		case ast.BITOR:
			return lv | rv, ""
		case ast.BITXOR:
			return lv ^ rv, ""
		case ast.SHL:
			return lv << uint(rv), ""
		default:
			return lv >> uint(rv), ""
		}
	case ast.NEG:
		v, l := evalConstExpr(n.Lhs)
		if l != "" {
			diag.ErrorAt(n.Tok.Pos, "invalid constant expression: negated address")
		}
		return -v, ""
	case ast.NOT:
		v, _ := evalConstExpr(n.Lhs)
		if v == 0 {
			return 1, ""
		}
		return 0, ""
	case ast.BITNOT:
		v, l := evalConstExpr(n.Lhs)
		if l != "" {
			diag.ErrorAt(n.Tok.Pos, "invalid constant expression: bitnot of address")
		}
		return ^v, ""
	case ast.LOGAND:
		lv, _ := evalConstExpr(n.Lhs)
		if lv == 0 {
			return 0, ""
		}
		rv, _ := evalConstExpr(n.Rhs)
		if rv != 0 {
			return 1, ""
		}
		return 0, ""
	case ast.LOGOR:
		lv, _ := evalConstExpr(n.Lhs)
		if lv != 0 {
			return 1, ""
		}
		rv, _ := evalConstExpr(n.Rhs)
		if rv != 0 {
			return 1, ""
		}
		return 0, ""
	case ast.EQ, ast.NE, ast.LT, ast.LE:
		lv, _ := evalConstExpr(n.Lhs)
		rv, _ := evalConstExpr(n.Rhs)
		var b bool
		switch n.Kind {
		case ast.EQ:
			b = lv == rv
		case ast.NE:
			b = lv != rv
		case ast.LT:
			b = lv < rv
		default:
			b = lv <= rv
		}
		if b {
			return 1, ""
		}
		return 0, ""
	case ast.COND:
		cv, _ := evalConstExpr(n.Cond)
		if cv != 0 {
			return evalConstExpr(n.Then)
		}
		return evalConstExpr(n.Els)
	case ast.COMMA:
		evalConstExpr(n.Lhs)
		return evalConstExpr(n.Rhs)
	case ast.CAST:
		v, l := evalConstExpr(n.Lhs)
		if l == "" && n.Ty != nil && n.Ty.IsInteger() {
			v = truncateToWidth(v, n.Ty)
		}
		return v, l
	case ast.ADDR:
		label, addend := evalConstAddr(n.Lhs)
		return addend, label
	case ast.VAR:
		if n.Ty != nil && n.Ty.Kind == types.ARRAY && !n.Var.IsLocal {
			return 0, n.Var.Name
		}
		diag.ErrorAt(n.Tok.Pos, "not a compile-time constant")
	}
	diag.ErrorAt(n.Tok.Pos, "not a compile-time constant")
	return 0, ""
}

// evalConstAddr folds an lvalue expression to the address it denotes, as a
// (label, addend) pair, for the operand of a constant "&" (spec.md §4.5).
func evalConstAddr(n *ast.Node) (label string, addend int64) {
	switch n.Kind {
	case ast.VAR:
		if n.Var.IsLocal {
			diag.ErrorAt(n.Tok.Pos, "address of a local is not a compile-time constant")
		}
		return n.Var.Name, 0
	case ast.MEMBER:
		label, addend = evalConstAddr(n.Lhs)
		return label, addend + int64(n.Mem.Offset)
	case ast.DEREF:
		val, label := evalConstExpr(n.Lhs)
		return label, val
	}
	diag.ErrorAt(n.Tok.Pos, "not a compile-time constant address")
	return "", 0
}

// truncateToWidth masks v to ty's storage width, sign-extending back to
// int64 (spec.md §4.2 cast semantics applied to a folded constant).
func truncateToWidth(v int64, ty *types.Type) int64 {
	switch ty.Size {
	case 1:
		return int64(int8(v))
	case 2:
		return int64(int16(v))
	case 4:
		return int64(int32(v))
	default:
		return v
	}
}
