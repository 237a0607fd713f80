package parser

import (
	"github.com/kobakobashu/c-compiler/internal/ast"
	"github.com/kobakobashu/c-compiler/internal/diag"
	"github.com/kobakobashu/c-compiler/internal/token"
	"github.com/kobakobashu/c-compiler/internal/types"
)

// newAdd builds a "+" node, scaling the integer operand by the pointee size
// when one side is a pointer or array (spec.md §4.2's pointer arithmetic
// rule); array operands decay to pointer at this use site.
func (p *parser) newAdd(lhs, rhs *ast.Node, tok *token.Token) *ast.Node {
	ast.AddType(lhs)
	ast.AddType(rhs)

	if lhs.Ty.IsNumeric() && rhs.Ty.IsNumeric() {
		n := &ast.Node{Kind: ast.ADD, Tok: tok, Lhs: lhs, Rhs: rhs}
		ast.AddType(n)
		return n
	}
	if lhs.Ty.IsPointer() && rhs.Ty.IsPointer() {
		diag.ErrorAt(tok.Pos, "invalid operands: pointer + pointer")
	}
	if lhs.Ty.IsNumeric() && rhs.Ty.IsPointer() {
		lhs, rhs = rhs, lhs
	}
	scaled := &ast.Node{Kind: ast.MUL, Tok: tok, Lhs: rhs, Rhs: ast.NewNum(tok, int64(lhs.Ty.BaseType().Size))}
	ast.AddType(scaled)
	n := &ast.Node{Kind: ast.ADD, Tok: tok, Lhs: lhs, Rhs: scaled}
	ast.AddType(n)
	return n
}

// newSub builds a "-" node. ptr - ptr yields an element count (byte
// difference divided by pointee size); ptr - int scales int; int - ptr is
// rejected (spec.md §4.2).
func (p *parser) newSub(lhs, rhs *ast.Node, tok *token.Token) *ast.Node {
	ast.AddType(lhs)
	ast.AddType(rhs)

	if lhs.Ty.IsNumeric() && rhs.Ty.IsNumeric() {
		n := &ast.Node{Kind: ast.SUB, Tok: tok, Lhs: lhs, Rhs: rhs}
		ast.AddType(n)
		return n
	}
	if lhs.Ty.IsPointer() && rhs.Ty.IsNumeric() {
		scaled := &ast.Node{Kind: ast.MUL, Tok: tok, Lhs: rhs, Rhs: ast.NewNum(tok, int64(lhs.Ty.BaseType().Size))}
		ast.AddType(scaled)
		n := &ast.Node{Kind: ast.SUB, Tok: tok, Lhs: lhs, Rhs: scaled}
		ast.AddType(n)
		return n
	}
	if lhs.Ty.IsPointer() && rhs.Ty.IsPointer() {
		diff := &ast.Node{Kind: ast.SUB, Tok: tok, Lhs: lhs, Rhs: rhs}
		diff.Ty = types.Long
		size := &ast.Node{Kind: ast.NUM, Tok: tok, Val: int64(lhs.Ty.BaseType().Size), Ty: types.Long}
		n := &ast.Node{Kind: ast.DIV, Tok: tok, Lhs: diff, Rhs: size}
		ast.AddType(n)
		return n
	}
	diag.ErrorAt(tok.Pos, "invalid operands to -")
	return nil
}

// toAssignOp parses the right-hand side of a compound assignment operator
// and desugars `lhs OP= rhs` into the address-taken read-modify-write
// sequence toAssignOp and toAssignOpRHS share.
func (p *parser) toAssignOp(lhs *ast.Node, op ast.Kind, tok *token.Token) *ast.Node {
	rhs := p.assign()
	return p.toAssignOpRHS(lhs, op, rhs, tok)
}

// toAssignOpRHS builds:
//
//	({ T *tmp = &(lhs); *tmp = *tmp OP (rhs); })
//
// which evaluates lhs's address exactly once, so compound assignment to an
// expression with side effects (e.g. `a[i++] += 1`) behaves correctly
// (spec.md §4.4).
func (p *parser) toAssignOpRHS(lhs *ast.Node, op ast.Kind, rhs *ast.Node, tok *token.Token) *ast.Node {
	ast.AddType(lhs)

	tmp := p.newLocal("", types.PointerTo(lhs.Ty))
	tmpVar := func() *ast.Node {
		n := &ast.Node{Kind: ast.VAR, Tok: tok, Var: tmp}
		ast.AddType(n)
		return n
	}
	tmpDeref := func() *ast.Node {
		n := &ast.Node{Kind: ast.DEREF, Tok: tok, Lhs: tmpVar()}
		ast.AddType(n)
		return n
	}

	addrOfLhs := &ast.Node{Kind: ast.ADDR, Tok: tok, Lhs: lhs}
	ast.AddType(addrOfLhs)
	takeAddr := &ast.Node{Kind: ast.ASSIGN, Tok: tok, Lhs: tmpVar(), Rhs: addrOfLhs}
	ast.AddType(takeAddr)

	var combined *ast.Node
	switch op {
	case ast.ADD:
		combined = p.newAdd(tmpDeref(), rhs, tok)
	case ast.SUB:
		combined = p.newSub(tmpDeref(), rhs, tok)
	default:
		combined = &ast.Node{Kind: op, Tok: tok, Lhs: tmpDeref(), Rhs: rhs}
		ast.AddType(combined)
	}

	store := &ast.Node{Kind: ast.ASSIGN, Tok: tok, Lhs: tmpDeref(), Rhs: combined}
	ast.AddType(store)

	body := []*ast.Node{
		{Kind: ast.EXPRSTMT, Tok: tok, Lhs: takeAddr},
		{Kind: ast.EXPRSTMT, Tok: tok, Lhs: store},
	}

	n := &ast.Node{Kind: ast.STMTEXPR, Tok: tok, Body: body, Ty: store.Ty}
	return n
}

// postIncDec desugars `n++`/`n--` into an assignment that yields the
// pre-increment value: perform the increment via toAssignOpRHS, then add
// the negated addend back to recover the old value (spec.md §4.4).
func (p *parser) postIncDec(n *ast.Node, tok *token.Token, addend int64) *ast.Node {
	ast.AddType(n)
	assigned := p.toAssignOpRHS(n, ast.ADD, ast.NewNum(tok, addend), tok)
	result := p.newAdd(assigned, ast.NewNum(tok, -addend), tok)
	result.Ty = n.Ty
	return result
}
