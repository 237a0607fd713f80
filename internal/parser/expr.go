package parser

import (
	"github.com/kobakobashu/c-compiler/internal/ast"
	"github.com/kobakobashu/c-compiler/internal/collections"
	"github.com/kobakobashu/c-compiler/internal/diag"
	"github.com/kobakobashu/c-compiler/internal/object"
	"github.com/kobakobashu/c-compiler/internal/token"
	"github.com/kobakobashu/c-compiler/internal/types"
)

// expr = assign ("," assign)*
func (p *parser) expr() *ast.Node {
	n := p.assign()
	for p.at(",") {
		tok := p.tok
		p.tok = p.tok.Next
		n = &ast.Node{Kind: ast.COMMA, Tok: tok, Lhs: n, Rhs: p.assign()}
		ast.AddType(n)
	}
	return n
}

// assign = conditional (("=" | "+=" | "-=" | "*=" | "/=" | "%=" | "&=" | "|="
//        | "^=" | "<<=" | ">>=") assign)?
//
// Every compound-assignment form desugars to the address-taken read-modify-
// write sequence toAssignOp builds, so codegen only ever lowers plain ASSIGN
// nodes (spec.md §4.4's "compound assignment is surface syntax only").
func (p *parser) assign() *ast.Node {
	n := p.conditional()

	tok := p.tok
	switch {
	case p.consume("="):
		n = &ast.Node{Kind: ast.ASSIGN, Tok: tok, Lhs: n, Rhs: p.assign()}
	case p.consume("+="):
		n = p.toAssignOp(n, ast.ADD, tok)
	case p.consume("-="):
		n = p.toAssignOp(n, ast.SUB, tok)
	case p.consume("*="):
		n = p.toAssignOp(n, ast.MUL, tok)
	case p.consume("/="):
		n = p.toAssignOp(n, ast.DIV, tok)
	case p.consume("%="):
		n = p.toAssignOp(n, ast.MOD, tok)
	case p.consume("&="):
		n = p.toAssignOp(n, ast.BITAND, tok)
	case p.consume("|="):
		n = p.toAssignOp(n, ast.BITOR, tok)
	case p.consume("^="):
		n = p.toAssignOp(n, ast.BITXOR, tok)
	case p.consume("<<="):
		n = p.toAssignOp(n, ast.SHL, tok)
	case p.consume(">>="):
		n = p.toAssignOp(n, ast.SHR, tok)
	}
	ast.AddType(n)
	return n
}

// conditional = logOr ("?" expr ":" conditional)?
func (p *parser) conditional() *ast.Node {
	n := p.logOr()
	if !p.consume("?") {
		return n
	}
	tok := n.Tok
	then := p.expr()
	p.expect(":")
	els := p.conditional()
	n = &ast.Node{Kind: ast.COND, Tok: tok, Cond: n, Then: then, Els: els}
	ast.AddType(n)
	return n
}

func (p *parser) logOr() *ast.Node {
	n := p.logAnd()
	for p.at("||") {
		tok := p.tok
		p.tok = p.tok.Next
		n = &ast.Node{Kind: ast.LOGOR, Tok: tok, Lhs: n, Rhs: p.logAnd()}
		ast.AddType(n)
	}
	return n
}

func (p *parser) logAnd() *ast.Node {
	n := p.bitOr()
	for p.at("&&") {
		tok := p.tok
		p.tok = p.tok.Next
		n = &ast.Node{Kind: ast.LOGAND, Tok: tok, Lhs: n, Rhs: p.bitOr()}
		ast.AddType(n)
	}
	return n
}

func (p *parser) bitOr() *ast.Node {
	n := p.bitXor()
	for p.at("|") {
		tok := p.tok
		p.tok = p.tok.Next
		n = &ast.Node{Kind: ast.BITOR, Tok: tok, Lhs: n, Rhs: p.bitXor()}
		ast.AddType(n)
	}
	return n
}

func (p *parser) bitXor() *ast.Node {
	n := p.bitAnd()
	for p.at("^") {
		tok := p.tok
		p.tok = p.tok.Next
		n = &ast.Node{Kind: ast.BITXOR, Tok: tok, Lhs: n, Rhs: p.bitAnd()}
		ast.AddType(n)
	}
	return n
}

func (p *parser) bitAnd() *ast.Node {
	n := p.equality()
	for p.at("&") {
		tok := p.tok
		p.tok = p.tok.Next
		n = &ast.Node{Kind: ast.BITAND, Tok: tok, Lhs: n, Rhs: p.equality()}
		ast.AddType(n)
	}
	return n
}

func (p *parser) equality() *ast.Node {
	n := p.relational()
	for {
		tok := p.tok
		switch {
		case p.consume("=="):
			n = &ast.Node{Kind: ast.EQ, Tok: tok, Lhs: n, Rhs: p.relational()}
		case p.consume("!="):
			n = &ast.Node{Kind: ast.NE, Tok: tok, Lhs: n, Rhs: p.relational()}
		default:
			return n
		}
		ast.AddType(n)
	}
}

func (p *parser) relational() *ast.Node {
	n := p.shift()
	for {
		tok := p.tok
		switch {
		case p.consume("<"):
			n = &ast.Node{Kind: ast.LT, Tok: tok, Lhs: n, Rhs: p.shift()}
		case p.consume("<="):
			n = &ast.Node{Kind: ast.LE, Tok: tok, Lhs: n, Rhs: p.shift()}
		case p.consume(">"):
			n = &ast.Node{Kind: ast.LT, Tok: tok, Lhs: p.shift(), Rhs: n}
		case p.consume(">="):
			n = &ast.Node{Kind: ast.LE, Tok: tok, Lhs: p.shift(), Rhs: n}
		default:
			return n
		}
		ast.AddType(n)
	}
}

func (p *parser) shift() *ast.Node {
	n := p.add()
	for {
		tok := p.tok
		switch {
		case p.consume("<<"):
			n = &ast.Node{Kind: ast.SHL, Tok: tok, Lhs: n, Rhs: p.add()}
		case p.consume(">>"):
			n = &ast.Node{Kind: ast.SHR, Tok: tok, Lhs: n, Rhs: p.add()}
		default:
			return n
		}
		ast.AddType(n)
	}
}

// add = mul (("+" | "-") mul)*, with pointer arithmetic scaled by newAdd/
// newSub (spec.md §4.2 "pointer ± int is scaled by the pointee size").
func (p *parser) add() *ast.Node {
	n := p.mul()
	for {
		tok := p.tok
		switch {
		case p.consume("+"):
			n = p.newAdd(n, p.mul(), tok)
		case p.consume("-"):
			n = p.newSub(n, p.mul(), tok)
		default:
			return n
		}
	}
}

func (p *parser) mul() *ast.Node {
	n := p.cast()
	for {
		tok := p.tok
		switch {
		case p.consume("*"):
			n = &ast.Node{Kind: ast.MUL, Tok: tok, Lhs: n, Rhs: p.cast()}
		case p.consume("/"):
			n = &ast.Node{Kind: ast.DIV, Tok: tok, Lhs: n, Rhs: p.cast()}
		case p.consume("%"):
			n = &ast.Node{Kind: ast.MOD, Tok: tok, Lhs: n, Rhs: p.cast()}
		default:
			return n
		}
		ast.AddType(n)
	}
}

// cast = "(" type-name ")" cast | unary
//
// Disambiguated from a parenthesized expression by looking ahead: a
// type-name only ever starts with a type keyword or a typedef name.
func (p *parser) cast() *ast.Node {
	if p.at("(") {
		start := p.save()
		p.tok = p.tok.Next
		if p.isTypename() {
			ty := p.typeName()
			p.expect(")")
			n := &ast.Node{Kind: ast.CAST, Tok: start, Lhs: p.cast(), Ty: ty}
			return n
		}
		p.restore(start)
	}
	return p.unary()
}

// typeName = declspec abstract-declarator
func (p *parser) typeName() *types.Type {
	base := p.declspec(nil)
	_, ty := p.declarator(base)
	return ty
}

// unary = ("+" | "-" | "*" | "&" | "!" | "~") cast
//       | ("++" | "--") unary
//       | "sizeof" unary
//       | "sizeof" "(" type-name ")"
//       | postfix
func (p *parser) unary() *ast.Node {
	tok := p.tok
	switch {
	case p.consume("+"):
		return p.cast()
	case p.consume("-"):
		n := &ast.Node{Kind: ast.NEG, Tok: tok, Lhs: p.cast()}
		ast.AddType(n)
		return n
	case p.consume("*"):
		n := &ast.Node{Kind: ast.DEREF, Tok: tok, Lhs: p.cast()}
		ast.AddType(n)
		return n
	case p.consume("&"):
		n := &ast.Node{Kind: ast.ADDR, Tok: tok, Lhs: p.cast()}
		ast.AddType(n)
		return n
	case p.consume("!"):
		n := &ast.Node{Kind: ast.NOT, Tok: tok, Lhs: p.cast()}
		ast.AddType(n)
		return n
	case p.consume("~"):
		n := &ast.Node{Kind: ast.BITNOT, Tok: tok, Lhs: p.cast()}
		ast.AddType(n)
		return n
	case p.consume("++"):
		return p.toAssignOpRHS(p.unary(), ast.ADD, ast.NewNum(tok, 1), tok)
	case p.consume("--"):
		return p.toAssignOpRHS(p.unary(), ast.SUB, ast.NewNum(tok, 1), tok)
	case p.isKeyword("sizeof"):
		return p.sizeofExpr()
	default:
		return p.postfix()
	}
}

// sizeofExpr handles both forms of the sizeof operator. The operand of the
// expression form is parsed and type-assigned but never reached by codegen
// (spec.md §6 "sizeof never evaluates its operand") - only its static Ty
// survives, folded here into a NUM literal.
func (p *parser) sizeofExpr() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next // consume "sizeof"

	if p.at("(") {
		start := p.save()
		p.tok = p.tok.Next
		if p.isTypename() {
			ty := p.typeName()
			p.expect(")")
			return ast.NewNum(tok, int64(ty.Size))
		}
		p.restore(start)
	}

	operand := p.unary()
	ast.AddType(operand)
	return ast.NewNum(tok, int64(operand.Ty.Size))
}

// postfix = primary ( "[" expr "]" | "." ident | "->" ident | "++" | "--" )*
func (p *parser) postfix() *ast.Node {
	n := p.primary()

	for {
		tok := p.tok
		switch {
		case p.consume("["):
			idx := p.expr()
			p.expect("]")
			n = &ast.Node{Kind: ast.DEREF, Tok: tok, Lhs: p.newAdd(n, idx, tok)}
			ast.AddType(n)
		case p.consume("."):
			n = p.structRef(n, tok)
		case p.consume("->"):
			deref := &ast.Node{Kind: ast.DEREF, Tok: tok, Lhs: n}
			ast.AddType(deref)
			n = p.structRef(deref, tok)
		case p.consume("++"):
			n = p.postIncDec(n, tok, 1)
		case p.consume("--"):
			n = p.postIncDec(n, tok, -1)
		default:
			return n
		}
	}
}

// structRef builds a MEMBER access node for base.name, where base has
// already been type-assigned to a struct or union type.
func (p *parser) structRef(base *ast.Node, tok *token.Token) *ast.Node {
	ast.AddType(base)
	if base.Ty.Kind != types.STRUCT && base.Ty.Kind != types.UNION {
		diag.ErrorAt(tok.Pos, "not a struct or union")
	}
	name := p.expectIdent()
	m, ok := collections.Find(base.Ty.Members, func(m *types.Member) bool {
		return m.Name == name
	})
	if !ok {
		diag.ErrorAt(tok.Pos, "no member named %s", name)
	}
	n := &ast.Node{Kind: ast.MEMBER, Tok: tok, Lhs: base, Mem: m}
	ast.AddType(n)
	return n
}

// primary = "(" "{" stmt+ "}" ")"
//         | "(" expr ")"
//         | ident ("(" func-args ")")?
//         | str | num
func (p *parser) primary() *ast.Node {
	tok := p.tok

	switch {
	case p.at("(") && tok.Next != nil && tok.Next.Is("{"):
		p.tok = p.tok.Next
		block := p.compoundStmt()
		p.expect(")")
		return &ast.Node{Kind: ast.STMTEXPR, Tok: tok, Body: block.Body, Ty: stmtExprType(block.Body)}

	case p.consume("("):
		n := p.expr()
		p.expect(")")
		return n

	case tok.Kind == token.NUM:
		p.tok = p.tok.Next
		if tok.IsFloat {
			return &ast.Node{Kind: ast.FNUM, Tok: tok, FloatVal: tok.FloatValue, Ty: types.Double}
		}
		return ast.NewNum(tok, tok.IntValue)

	case tok.Kind == token.STR:
		p.tok = p.tok.Next
		obj := p.newAnonStringGlobal(tok)
		n := &ast.Node{Kind: ast.VAR, Tok: tok, Var: obj}
		ast.AddType(n)
		return n

	case tok.Kind == token.IDENT:
		p.tok = p.tok.Next
		if p.consume("(") {
			return p.funcall(tok)
		}
		if val, ok := p.scope.LookupEnumConst(tok.Text); ok {
			return ast.NewNum(tok, val)
		}
		obj, ok := p.scope.LookupVar(tok.Text)
		if !ok {
			diag.ErrorAt(tok.Pos, "undeclared identifier: %s", tok.Text)
		}
		n := &ast.Node{Kind: ast.VAR, Tok: tok, Var: obj}
		ast.AddType(n)
		return n

	default:
		diag.ErrorAt(tok.Pos, "expected an expression")
		return nil
	}
}

// funcall = ident "(" (assign ("," assign)*)? ")"
func (p *parser) funcall(nameTok *token.Token) *ast.Node {
	var args []*ast.Node
	for !p.at(")") {
		if len(args) > 0 {
			p.expect(",")
		}
		arg := p.assign()
		ast.AddType(arg)
		args = append(args, arg)
	}
	p.expect(")")

	n := &ast.Node{Kind: ast.FUNCALL, Tok: nameTok, FuncName: nameTok.Text, Args: args}
	if obj, ok := p.scope.LookupVar(nameTok.Text); ok && obj.IsFunction {
		n.FuncType = obj.Ty
	}
	ast.AddType(n)
	return n
}

func stmtExprType(body []*ast.Node) *types.Type {
	if len(body) == 0 {
		return types.Void
	}
	last := body[len(body)-1]
	if last.Kind == ast.EXPRSTMT {
		ast.AddType(last.Lhs)
		return last.Lhs.Ty
	}
	return types.Void
}

// newAnonStringGlobal allocates a file-scope, unnamed char-array object
// holding a decoded string literal's bytes (spec.md §3 "string literals are
// anonymous globals").
func (p *parser) newAnonStringGlobal(tok *token.Token) *object.Obj {
	obj := &object.Obj{
		Name:         p.newAnonGlobalName(),
		Ty:           tok.StrType,
		IsStatic:     true,
		IsDefinition: true,
		Align:        tok.StrType.Align,
		InitData:     tok.StrValue,
	}
	p.globals = append(p.globals, obj)
	return obj
}
