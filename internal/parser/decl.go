package parser

import (
	"fmt"

	"github.com/kobakobashu/c-compiler/internal/ast"
	"github.com/kobakobashu/c-compiler/internal/diag"
	"github.com/kobakobashu/c-compiler/internal/object"
	"github.com/kobakobashu/c-compiler/internal/token"
	"github.com/kobakobashu/c-compiler/internal/types"
)

// typeKeywords is the set of base-type keyword spellings that can combine
// (e.g. "unsigned long", "long long") into a declspec. The C subset this
// compiler covers treats "signed"/"unsigned" as accepted but not affecting
// representation (all supported integer kinds are already signed per
// spec.md §3, except bool).
var typeKeywords = map[string]bool{
	"void": true, "_Bool": true, "bool": true, "char": true, "short": true,
	"int": true, "long": true, "struct": true, "union": true, "enum": true,
	"signed": true, "unsigned": true,
}

// isTypename reports whether the current token could begin a declspec:
// either a type keyword, or an identifier previously bound by typedef.
func (p *parser) isTypename() bool {
	if p.tok.Kind == token.KEYWORD && typeKeywords[p.tok.Text] {
		return true
	}
	if p.tok.Kind == token.IDENT {
		_, ok := p.typeAlias(p.tok.Text)
		return ok
	}
	return false
}

// declAttrs carries the storage-class bits a declspec may record; it is
// threaded back to the caller so `static`/`typedef`/`extern` can affect how
// the resulting declarator is bound (spec.md §4.4).
type declAttrs struct {
	isTypedef bool
	isStatic  bool
	isExtern  bool
}

// declspec = ("void" | "_Bool" | "bool" | "char" | "short" | "int" | "long"
//           | "signed" | "unsigned" | struct-decl | union-decl | enum-decl
//           | typedef-name | "typedef" | "static" | "extern")*
//
// Base types may repeat and combine (e.g. "long long", "unsigned int").
// The result is picked by priority: void, then _Bool/bool, char, short,
// long, and finally int/signed/unsigned. Combinations are not validated, so
// e.g. "char int" is accepted as char.
func (p *parser) declspec(attrs *declAttrs) *types.Type {
	counts := map[string]int{}

	var ty *types.Type

	for p.isTypename() || p.isKeyword("typedef") || p.isKeyword("static") || p.isKeyword("extern") || p.isKeyword("const") {
		if p.consumeKeyword("const") {
			// Accepted and ignored: this subset never tracks const-ness in
			// internal/types (spec.md §8 non-goal "no qualifier checking").
			continue
		}
		if p.isKeyword("typedef") || p.isKeyword("static") || p.isKeyword("extern") {
			if attrs == nil {
				diag.ErrorAt(p.tok.Pos, "storage-class specifier not allowed here")
			}
			switch {
			case p.consumeKeyword("typedef"):
				attrs.isTypedef = true
			case p.consumeKeyword("static"):
				attrs.isStatic = true
			case p.consumeKeyword("extern"):
				attrs.isExtern = true
			}
			continue
		}

		// typedef name use (only when no base type has started yet)
		if p.tok.Kind == token.IDENT {
			if aliasTy, ok := p.typeAlias(p.tok.Text); ok && ty == nil && len(counts) == 0 {
				p.tok = p.tok.Next
				ty = aliasTy
				continue
			}
			break
		}

		switch p.tok.Text {
		case "struct":
			ty = p.structUnionDecl(false)
			continue
		case "union":
			ty = p.structUnionDecl(true)
			continue
		case "enum":
			ty = p.enumDecl()
			continue
		}

		counts[p.tok.Text]++
		p.tok = p.tok.Next
	}

	if ty != nil {
		return ty
	}

	switch {
	case counts["void"] > 0:
		return types.Void
	case counts["_Bool"] > 0 || counts["bool"] > 0:
		return types.Bool
	case counts["char"] > 0:
		return types.Char
	case counts["short"] > 0:
		return types.Short
	case counts["long"] > 0:
		return types.Long
	case counts["int"] > 0, counts["signed"] > 0, counts["unsigned"] > 0:
		return types.Int
	default:
		diag.ErrorAt(p.tok.Pos, "expected a type")
		return nil
	}
}

// structUnionDecl = ("struct" | "union") ident? ("{" struct-members "}")?
func (p *parser) structUnionDecl(isUnion bool) *types.Type {
	p.tok = p.tok.Next // consume "struct"/"union"

	var tag string
	if p.tok.Kind == token.IDENT {
		tag = p.tok.Text
		p.tok = p.tok.Next
	}

	if tag != "" && !p.at("{") {
		ty, ok := p.scope.LookupTag(tag)
		if !ok {
			diag.ErrorAt(p.tok.Pos, "unknown struct/union tag: %s", tag)
		}
		return ty
	}

	p.expect("{")
	members, flexible := p.structMembers()
	p.expect("}")

	var ty *types.Type
	if isUnion {
		ty = types.UnionType(tag, members)
	} else {
		ty = types.StructType(tag, members, flexible)
	}
	if tag != "" {
		p.scope.DeclareTag(tag, ty)
	}
	return ty
}

// struct-members = (declspec declarator ("," declarator)* ";")*
func (p *parser) structMembers() ([]*types.Member, bool) {
	var members []*types.Member
	flexible := false
	for !p.at("}") {
		base := p.declspec(nil)
		first := true
		for {
			if !first && !p.consume(",") {
				break
			}
			first = false
			name, ty := p.declarator(base)
			if ty.Kind == types.ARRAY && ty.ArrayLen == 0 {
				flexible = true
			}
			members = append(members, &types.Member{Name: name, Ty: ty, Align: ty.Align})
		}
		p.expect(";")
	}
	return members, flexible
}

// enumDecl = "enum" ident? ("{" enumerator ("," enumerator)* ","? "}")?
func (p *parser) enumDecl() *types.Type {
	p.tok = p.tok.Next // consume "enum"

	var tag string
	if p.tok.Kind == token.IDENT {
		tag = p.tok.Text
		p.tok = p.tok.Next
	}

	if tag != "" && !p.at("{") {
		ty, ok := p.scope.LookupTag(tag)
		if !ok {
			diag.ErrorAt(p.tok.Pos, "unknown enum tag: %s", tag)
		}
		return ty
	}

	p.expect("{")
	var members []types.EnumConst
	next := int64(0)
	for !p.at("}") {
		name := p.expectIdent()
		if p.consume("=") {
			next = p.constExprValue()
		}
		members = append(members, types.EnumConst{Name: name, Value: next})
		next++
		if !p.consume(",") {
			break
		}
	}
	p.expect("}")

	ty := types.EnumType(tag, members)
	if tag != "" {
		p.scope.DeclareTag(tag, ty)
	}
	for _, m := range members {
		p.scope.DeclareEnumConst(m.Name, m.Value)
	}
	return ty
}

// declarator = "*"* ("(" declarator ")" | ident) type-suffix
func (p *parser) declarator(base *types.Type) (string, *types.Type) {
	ty := base
	for p.consume("*") {
		ty = types.PointerTo(ty)
	}

	if p.consume("(") {
		// Parenthesized declarator (e.g. `int (*fp)(int)`): parse the
		// nested pointer/ident against a placeholder, then patch the
		// placeholder in place once the outer type-suffix - which follows
		// the closing ")" - is known. Patching in place (rather than
		// returning a fresh type) keeps any PointerTo(placeholder) built
		// by declaratorInner pointing at the completed type.
		placeholder := &types.Type{}
		name, nested := p.declaratorInner(placeholder)
		p.expect(")")

		finalTy := p.typeSuffix(ty)
		*placeholder = *finalTy
		return name, nested
	}

	name := ""
	if p.tok.Kind == token.IDENT {
		name = p.tok.Text
		p.tok = p.tok.Next
	}
	return name, p.typeSuffix(ty)
}

// declaratorInner parses a declarator whose base type is a placeholder to
// be patched by the caller once the outer type-suffix is known (needed for
// parenthesized declarators like `int (*fp)(int)`).
func (p *parser) declaratorInner(placeholder *types.Type) (string, *types.Type) {
	ty := placeholder
	for p.consume("*") {
		ty = types.PointerTo(ty)
	}
	name := ""
	if p.tok.Kind == token.IDENT {
		name = p.tok.Text
		p.tok = p.tok.Next
	}
	return name, ty
}

// typeSuffix = "(" func-params | "[" array-dimensions | ε
func (p *parser) typeSuffix(base *types.Type) *types.Type {
	if p.consume("(") {
		return p.funcParams(base)
	}
	if p.consume("[") {
		return p.arrayDimensions(base)
	}
	return base
}

// func-params = (param ("," param)* ("," "...")? )? ")"
func (p *parser) funcParams(ret *types.Type) *types.Type {
	var params []types.Param
	variadic := false

	if p.at(")") {
		p.expect(")")
		return types.FuncType(ret, params, variadic)
	}
	if p.isKeyword("void") {
		save := p.save()
		p.tok = p.tok.Next
		if p.at(")") {
			p.expect(")")
			return types.FuncType(ret, params, variadic)
		}
		p.restore(save)
	}

	for {
		if p.consume("...") {
			variadic = true
			break
		}
		base := p.declspec(nil)
		name, ty := p.declarator(base)
		if ty.Kind == types.ARRAY {
			// array parameters decay to pointer-to-element (spec.md §3).
			ty = types.PointerTo(ty.Base)
		}
		params = append(params, types.Param{Name: name, Ty: ty})
		if !p.consume(",") {
			break
		}
	}
	p.expect(")")
	return types.FuncType(ret, params, variadic)
}

// array-dimensions = (const-expr)? "]" type-suffix
func (p *parser) arrayDimensions(elem *types.Type) *types.Type {
	length := 0
	if !p.at("]") {
		length = int(p.constExprValue())
	}
	p.expect("]")
	base := p.typeSuffix(elem)
	return types.ArrayOf(base, length)
}

// --- top-level declaration consumers ---

func (p *parser) functionDef(name string, ty *types.Type, isStatic bool) {
	if ty.Kind != types.FUNC {
		diag.ErrorAt(p.tok.Pos, "expected function type for %s", name)
	}

	// A prior prototype (funcDecl) may have already bound name to a
	// not-yet-defined function object; reuse it in place rather than
	// declaring a second binding, so DeclareVar's "already bound in this
	// frame" rule doesn't reject the definition (spec.md §4.4).
	var fn *object.Obj
	if obj, ok := p.scope.LookupVar(name); ok && obj.IsFunction && !obj.IsDefinition {
		fn = obj
		fn.Ty = ty
		fn.IsDefinition = true
		fn.IsStatic = fn.IsStatic || isStatic
	} else {
		fn = &object.Obj{Name: name, Ty: ty, IsFunction: true, IsDefinition: true, IsStatic: isStatic}
		p.globals = append(p.globals, fn)
		p.scope.DeclareVar(name, fn)
	}

	p.curFunc = fn
	p.curLocals = nil
	p.curGotos = nil
	p.curLabels = map[string]string{}

	p.scope.Push()
	for _, param := range ty.Params {
		obj := p.newLocal(param.Name, param.Ty)
		fn.Params = append(fn.Params, obj)
	}

	if ty.IsVariadic {
		fn.HasVariadicSaveArea = true
	}

	body := p.compoundStmt()
	p.scope.Pop()

	p.resolveGotos()

	fn.Body = body
	fn.Locals = p.curLocals
	p.curFunc = nil
}

// funcDecl records a function prototype (no body) so later calls can
// resolve its signature; codegen never emits anything for a non-definition
// object (spec.md §4.4 "a prototype is visible but not allocated").
func (p *parser) funcDecl(name string, ty *types.Type) {
	if obj, ok := p.scope.LookupVar(name); ok && obj.IsFunction {
		return
	}
	obj := &object.Obj{Name: name, Ty: ty, IsFunction: true, IsDefinition: false}
	p.scope.DeclareVar(name, obj)
	p.globals = append(p.globals, obj)
}

func (p *parser) globalVar(name string, ty *types.Type, isStatic, isExtern bool) {
	ty = p.resolveArrayLen(ty)

	// An "extern" declaration with no initializer only brings name into
	// scope for type-checking; it reserves no storage and is never emitted
	// (spec.md §4.4 non-goal: no cross-translation-unit linking).
	if isExtern && !p.at("=") {
		if _, ok := p.scope.LookupVar(name); !ok {
			p.scope.DeclareVar(name, &object.Obj{Name: name, Ty: ty, IsLocal: false, IsDefinition: false, Align: ty.Align})
		}
		return
	}

	obj := &object.Obj{Name: name, Ty: ty, IsLocal: false, IsDefinition: true, IsStatic: isStatic, Align: ty.Align}
	if !p.scope.DeclareVar(name, obj) {
		diag.ErrorAt(p.tok.Pos, "redefinition of %s", name)
	}
	p.globals = append(p.globals, obj)

	if p.consume("=") {
		p.globalInitializer(obj, ty)
	}
}

// newLocal creates a local object, binds it in the current scope, and
// appends it to the current function's locals list in declaration order
// (spec.md §3's "declaration-order list" that stack-layout assignment
// walks; the teacher's LocalSymbol list in yparse/symtab.go is the direct
// analog).
func (p *parser) newLocal(name string, ty *types.Type) *object.Obj {
	obj := &object.Obj{Name: name, Ty: ty, IsLocal: true, Align: ty.Align}
	if name != "" && !p.scope.DeclareVar(name, obj) {
		diag.ErrorAt(p.tok.Pos, "redeclaration of %s", name)
	}
	p.curLocals = append(p.curLocals, obj)
	return obj
}

// newStaticLocal creates a "static" local: storage-wise a global, but
// scoped and named like a local. Its generated name embeds the enclosing
// function so two statics of the same spelling in different functions
// never collide (spec.md §4.4, grounded on the teacher's `L_%s%d` unique
// name counters).
func (p *parser) newStaticLocal(name string, ty *types.Type) *object.Obj {
	fnName := "file"
	if p.curFunc != nil {
		fnName = p.curFunc.Name
	}
	unique := fmt.Sprintf("%s.%s.%d", fnName, name, p.newUniqueID())
	obj := &object.Obj{Name: unique, Ty: ty, IsLocal: false, IsStatic: true, IsDefinition: true, Align: ty.Align}
	p.globals = append(p.globals, obj)
	if name != "" {
		if !p.scope.DeclareVar(name, obj) {
			diag.ErrorAt(p.tok.Pos, "redeclaration of %s", name)
		}
	}
	return obj
}

// resolveGotos matches every pending goto against the current function's
// label map, assigning the target's unique tag; any goto whose label was
// never declared is a fatal diagnostic raised at function close (spec.md
// §4.4, §4.6).
func (p *parser) resolveGotos() {
	for _, g := range p.curGotos {
		tag, ok := p.curLabels[g.Label]
		if !ok {
			diag.ErrorAt(g.Tok.Pos, "use of undeclared label: %s", g.Label)
		}
		g.UniqueTag = tag
	}
}

// declaration = declspec (declarator ("=" initializer)?
//             ("," declarator ("=" initializer)?)* )? ";"
//
// Parses a local declaration (inside a function body) into a BLOCK of
// EXPRSTMT initializer assignments, following spec.md §4.4's desugaring of
// scalar/array/struct initializers into element assignments.
func (p *parser) declaration() *ast.Node {
	var attrs declAttrs
	base := p.declspec(&attrs)

	var stmts []*ast.Node
	first := true
	for !p.at(";") {
		if !first && !p.consume(",") {
			break
		}
		first = false

		tok := p.tok
		name, ty := p.declarator(base)
		ty = p.resolveArrayLen(ty)
		if ty.Kind == types.VOID {
			diag.ErrorAt(tok.Pos, "variable %s declared void", name)
		}

		if attrs.isTypedef {
			p.scope.DeclareTypedef(name, ty)
			continue
		}

		var obj *object.Obj
		if attrs.isStatic {
			obj = p.newStaticLocal(name, ty)
		} else {
			obj = p.newLocal(name, ty)
		}

		if p.consume("=") {
			stmts = append(stmts, p.lvarInitializer(tok, obj, ty)...)
		}
	}
	p.expect(";")
	return &ast.Node{Kind: ast.BLOCK, Body: stmts}
}
