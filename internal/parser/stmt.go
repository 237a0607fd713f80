package parser

import (
	"strconv"

	"github.com/kobakobashu/c-compiler/internal/ast"
	"github.com/kobakobashu/c-compiler/internal/diag"
	"github.com/kobakobashu/c-compiler/internal/token"
)

// compoundStmt = "{" (declaration | stmt)* "}"
//
// Pushes a new lexical frame for the block's duration (spec.md §4.4).
func (p *parser) compoundStmt() *ast.Node {
	p.expect("{")
	p.scope.Push()

	var body []*ast.Node
	for !p.consume("}") {
		var n *ast.Node
		if p.isTypename() {
			n = p.declaration()
		} else {
			n = p.stmt()
		}
		ast.AddType(n)
		body = append(body, n)
	}

	p.scope.Pop()
	return &ast.Node{Kind: ast.BLOCK, Body: body}
}

// stmt dispatches on the current token to the matching statement form
// (spec.md §4.4's statement grammar).
func (p *parser) stmt() *ast.Node {
	switch {
	case p.isKeyword("if"):
		return p.ifStmt()
	case p.isKeyword("for"):
		return p.forStmt()
	case p.isKeyword("while"):
		return p.whileStmt()
	case p.isKeyword("do"):
		return p.doStmt()
	case p.isKeyword("switch"):
		return p.switchStmt()
	case p.isKeyword("case"), p.isKeyword("default"):
		return p.caseStmt()
	case p.isKeyword("return"):
		return p.returnStmt()
	case p.isKeyword("goto"):
		return p.gotoStmt()
	case p.isKeyword("break"):
		return p.breakStmt()
	case p.isKeyword("continue"):
		return p.continueStmt()
	case p.at("{"):
		return p.compoundStmt()
	case p.at(";"):
		p.tok = p.tok.Next
		return &ast.Node{Kind: ast.NULLSTMT}
	case p.tok.Kind == token.IDENT && p.tok.Next != nil && p.tok.Next.Is(":"):
		return p.labelStmt()
	default:
		return p.exprStmt()
	}
}

// if-stmt = "if" "(" expr ")" stmt ("else" stmt)?
func (p *parser) ifStmt() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next
	p.expect("(")
	cond := p.expr()
	p.expect(")")
	then := p.stmt()

	var els *ast.Node
	if p.consumeKeyword("else") {
		els = p.stmt()
	}
	return &ast.Node{Kind: ast.IFSTMT, Tok: tok, Cond: cond, Then: then, Els: els}
}

// for-stmt = "for" "(" expr-stmt expr? ";" expr? ")" stmt
func (p *parser) forStmt() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next
	p.expect("(")

	p.scope.Push()
	n := &ast.Node{Kind: ast.FORSTMT, Tok: tok}

	label := p.pushLoopLabels()

	if p.isTypename() {
		n.Init = p.declaration()
	} else if !p.at(";") {
		n.Init = &ast.Node{Kind: ast.EXPRSTMT, Lhs: p.expr()}
		p.expect(";")
	} else {
		p.expect(";")
	}

	if !p.at(";") {
		n.Cond = p.expr()
	}
	p.expect(";")

	if !p.at(")") {
		n.Inc = p.expr()
	}
	p.expect(")")

	n.Then = p.stmt()

	p.popLoopLabels()
	p.scope.Pop()

	n.BreakLabel = label + ".break"
	n.ContinueLabel = label + ".continue"
	return n
}

// while-stmt = "while" "(" expr ")" stmt, desugared onto the same FORSTMT
// node shape with no Init/Inc (spec.md §3: "FORSTMT covers for/while").
func (p *parser) whileStmt() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next
	p.expect("(")
	cond := p.expr()
	p.expect(")")

	label := p.pushLoopLabels()
	then := p.stmt()
	p.popLoopLabels()

	return &ast.Node{
		Kind: ast.FORSTMT, Tok: tok, Cond: cond, Then: then,
		BreakLabel: label + ".break", ContinueLabel: label + ".continue",
	}
}

// do-stmt = "do" stmt "while" "(" expr ")" ";"
func (p *parser) doStmt() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next

	label := p.pushLoopLabels()
	then := p.stmt()
	p.popLoopLabels()

	if !p.consumeKeyword("while") {
		diag.ErrorAt(p.tok.Pos, "expected 'while'")
	}
	p.expect("(")
	cond := p.expr()
	p.expect(")")
	p.expect(";")

	return &ast.Node{
		Kind: ast.DOSTMT, Tok: tok, Cond: cond, Then: then,
		BreakLabel: label + ".break", ContinueLabel: label + ".continue",
	}
}

// switch-stmt = "switch" "(" expr ")" stmt
func (p *parser) switchStmt() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next
	p.expect("(")
	cond := p.expr()
	p.expect(")")

	n := &ast.Node{Kind: ast.SWITCHSTMT, Tok: tok, Cond: cond}
	n.UniqueLabel = p.newUniqueLabelName("switch")
	n.BreakLabel = n.UniqueLabel + ".break"

	prevSwitch := p.curSwitch
	p.curSwitch = n
	p.brkStack = append(p.brkStack, n.BreakLabel)

	n.Then = p.stmt()

	p.brkStack = p.brkStack[:len(p.brkStack)-1]
	p.curSwitch = prevSwitch
	return n
}

// case-stmt = ("case" const-expr | "default") ":" stmt
func (p *parser) caseStmt() *ast.Node {
	if p.curSwitch == nil {
		diag.ErrorAt(p.tok.Pos, "case/default label not within a switch statement")
	}

	n := &ast.Node{Kind: ast.CASESTMT, Tok: p.tok, UniqueLabel: p.newUniqueLabelName("case")}

	if p.consumeKeyword("default") {
		n.IsDefault = true
	} else {
		p.expect("case")
		n.CaseBegin = p.constExprValue()
		n.CaseEnd = n.CaseBegin
	}
	p.expect(":")
	n.Then = p.stmt()

	if n.IsDefault {
		p.curSwitch.DefaultCase = n
	} else {
		p.curSwitch.Cases = append(p.curSwitch.Cases, n)
	}
	return n
}

// return-stmt = "return" expr? ";"
func (p *parser) returnStmt() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next

	n := &ast.Node{Kind: ast.RETURNSTMT, Tok: tok}
	if !p.at(";") {
		n.Lhs = p.expr()
	}
	p.expect(";")
	return n
}

// goto-stmt = "goto" ident ";"
func (p *parser) gotoStmt() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next
	label := p.expectIdent()
	p.expect(";")

	n := &ast.Node{Kind: ast.GOTOSTMT, Tok: tok, Label: label}
	p.curGotos = append(p.curGotos, n)
	return n
}

// labeled-stmt = ident ":" stmt
func (p *parser) labelStmt() *ast.Node {
	tok := p.tok
	label := p.expectIdent()
	p.expect(":")

	unique := p.newUniqueLabelName("label." + label)
	p.curLabels[label] = unique

	n := &ast.Node{Kind: ast.LABELSTMT, Tok: tok, Label: label, UniqueTag: unique}
	n.Then = p.stmt()
	return n
}

// break-stmt = "break" ";"
func (p *parser) breakStmt() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next
	p.expect(";")
	if len(p.brkStack) == 0 {
		diag.ErrorAt(tok.Pos, "break statement not within a loop or switch")
	}
	return &ast.Node{Kind: ast.GOTOSTMT, Tok: tok, UniqueTag: p.brkStack[len(p.brkStack)-1]}
}

// continue-stmt = "continue" ";"
func (p *parser) continueStmt() *ast.Node {
	tok := p.tok
	p.tok = p.tok.Next
	p.expect(";")
	if len(p.contStack) == 0 {
		diag.ErrorAt(tok.Pos, "continue statement not within a loop")
	}
	return &ast.Node{Kind: ast.GOTOSTMT, Tok: tok, UniqueTag: p.contStack[len(p.contStack)-1]}
}

// expr-stmt = expr ";"
func (p *parser) exprStmt() *ast.Node {
	tok := p.tok
	n := &ast.Node{Kind: ast.EXPRSTMT, Tok: tok, Lhs: p.expr()}
	p.expect(";")
	return n
}

// pushLoopLabels allocates a fresh break/continue label pair for an
// enclosing for/while/do loop and pushes them onto the break/continue
// stacks that `break`/`continue` consult; it returns the shared label stem
// (spec.md §5 "label counters are monotone across the entire output").
func (p *parser) pushLoopLabels() string {
	label := p.newUniqueLabelName("loop")
	p.brkStack = append(p.brkStack, label+".break")
	p.contStack = append(p.contStack, label+".continue")
	return label
}

func (p *parser) popLoopLabels() {
	p.brkStack = p.brkStack[:len(p.brkStack)-1]
	p.contStack = p.contStack[:len(p.contStack)-1]
}

func (p *parser) newUniqueLabelName(stem string) string {
	return ".L." + stem + "." + strconv.Itoa(p.newUniqueID())
}
