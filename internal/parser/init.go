package parser

import (
	"github.com/kobakobashu/c-compiler/internal/ast"
	"github.com/kobakobashu/c-compiler/internal/object"
	"github.com/kobakobashu/c-compiler/internal/token"
	"github.com/kobakobashu/c-compiler/internal/types"
)

// resolveArrayLen fills in an incomplete array type's length ("int a[] =
// ...") by scanning the upcoming initializer without building any AST, then
// rewinding (spec.md §6 "array length inference"). Non-array types and
// already-sized arrays pass through unchanged.
func (p *parser) resolveArrayLen(ty *types.Type) *types.Type {
	if ty.Kind != types.ARRAY || ty.ArrayLen != 0 || !p.at("=") {
		return ty
	}

	start := p.save()
	p.tok = p.tok.Next // "="

	n := 0
	switch {
	case p.tok.Kind == token.STR && ty.Base.Kind == types.CHAR:
		n = len(p.tok.StrValue)
	case p.at("{"):
		n = p.countBraceTopLevelElems()
	}

	p.restore(start)
	return types.ArrayOf(ty.Base, n)
}

// countBraceTopLevelElems scans a "{" ... "}" initializer list, counting
// its top-level comma-separated elements via bracket-depth tracking, with
// no AST construction - used only as a length probe by resolveArrayLen.
func (p *parser) countBraceTopLevelElems() int {
	p.expect("{")
	count := 0
	for !p.at("}") {
		if count > 0 {
			p.expect(",")
			if p.at("}") {
				break
			}
		}
		depth := 0
		for {
			if p.atEOF() {
				break
			}
			if p.at("{") || p.at("(") {
				depth++
				p.tok = p.tok.Next
				continue
			}
			if p.at("}") || p.at(")") {
				if depth == 0 {
					break
				}
				depth--
				p.tok = p.tok.Next
				continue
			}
			if p.at(",") && depth == 0 {
				break
			}
			p.tok = p.tok.Next
		}
		count++
	}
	p.expect("}")
	return count
}

// globalInitializer parses obj's initializer into a flat byte buffer plus
// a relocation list (spec.md §3/§4.5): constant scalars are written
// directly, and any address-valued element becomes an object.Relocation
// instead of embedded bytes.
func (p *parser) globalInitializer(obj *object.Obj, ty *types.Type) {
	buf := make([]byte, ty.Size)
	var relocs []object.Relocation
	p.writeGlobalInit(buf, &relocs, 0, ty)
	obj.InitData = buf
	obj.Relocations = relocs
}

func (p *parser) writeGlobalInit(buf []byte, relocs *[]object.Relocation, offset int, ty *types.Type) {
	switch ty.Kind {
	case types.ARRAY:
		if ty.Base.Kind == types.CHAR && p.tok.Kind == token.STR {
			tok := p.tok
			p.tok = p.tok.Next
			copy(buf[offset:], tok.StrValue)
			return
		}
		p.expect("{")
		elemSize := ty.Base.Size
		for i := 0; !p.at("}"); i++ {
			if i > 0 {
				p.expect(",")
				if p.at("}") {
					break
				}
			}
			p.writeGlobalInit(buf, relocs, offset+i*elemSize, ty.Base)
		}
		p.expect("}")
	case types.STRUCT:
		p.expect("{")
		for i := 0; !p.at("}"); i++ {
			if i > 0 {
				p.expect(",")
				if p.at("}") {
					break
				}
			}
			m := ty.Members[i]
			p.writeGlobalInit(buf, relocs, offset+m.Offset, m.Ty)
		}
		p.expect("}")
	case types.UNION:
		p.expect("{")
		if !p.at("}") {
			p.writeGlobalInit(buf, relocs, offset, ty.Members[0].Ty)
			p.consume(",")
		}
		p.expect("}")
	default:
		n := p.assign()
		ast.AddType(n)
		val, label := evalConstExpr(n)
		if label != "" {
			*relocs = append(*relocs, object.Relocation{Offset: offset, Label: label, Addend: val})
			return
		}
		writeIntLE(buf, offset, ty.Size, val)
	}
}

func writeIntLE(buf []byte, offset, size int, val int64) {
	u := uint64(val)
	for i := 0; i < size; i++ {
		buf[offset+i] = byte(u >> (8 * uint(i)))
	}
}

// lvarInitializer parses a local's initializer into a list of statements
// that zero the slot (for aggregates) and then assign each scalar leaf in
// turn (spec.md §4.4/§4.5 "initializers desugar to assignment sequences").
func (p *parser) lvarInitializer(tok *token.Token, obj *object.Obj, ty *types.Type) []*ast.Node {
	varNode := func() *ast.Node {
		n := &ast.Node{Kind: ast.VAR, Tok: tok, Var: obj}
		ast.AddType(n)
		return n
	}

	if ty.Kind == types.ARRAY || ty.Kind == types.STRUCT || ty.Kind == types.UNION {
		stmts := []*ast.Node{{Kind: ast.MEMZERO, Tok: tok, Lhs: varNode()}}
		return append(stmts, p.lvarInitElem(tok, varNode(), ty)...)
	}

	rhs := p.assign()
	ast.AddType(rhs)
	assign := &ast.Node{Kind: ast.ASSIGN, Tok: tok, Lhs: varNode(), Rhs: rhs}
	ast.AddType(assign)
	return []*ast.Node{{Kind: ast.EXPRSTMT, Tok: tok, Lhs: assign}}
}

// lvarInitElem recurses over base's type shape in lockstep with the
// initializer token stream, building one ASSIGN statement per scalar leaf.
func (p *parser) lvarInitElem(tok *token.Token, base *ast.Node, ty *types.Type) []*ast.Node {
	switch ty.Kind {
	case types.ARRAY:
		if ty.Base.Kind == types.CHAR && p.tok.Kind == token.STR {
			strTok := p.tok
			p.tok = p.tok.Next
			var stmts []*ast.Node
			for i := 0; i < len(strTok.StrValue) && i < ty.ArrayLen; i++ {
				idx := ast.NewNum(strTok, int64(i))
				elem := &ast.Node{Kind: ast.DEREF, Tok: strTok, Lhs: p.newAdd(base, idx, strTok)}
				ast.AddType(elem)
				assign := &ast.Node{Kind: ast.ASSIGN, Tok: strTok, Lhs: elem, Rhs: ast.NewNum(strTok, int64(int8(strTok.StrValue[i])))}
				ast.AddType(assign)
				stmts = append(stmts, &ast.Node{Kind: ast.EXPRSTMT, Tok: strTok, Lhs: assign})
			}
			return stmts
		}

		p.expect("{")
		var stmts []*ast.Node
		for i := 0; !p.at("}"); i++ {
			if i > 0 {
				p.expect(",")
				if p.at("}") {
					break
				}
			}
			idx := ast.NewNum(tok, int64(i))
			elem := &ast.Node{Kind: ast.DEREF, Tok: tok, Lhs: p.newAdd(base, idx, tok)}
			ast.AddType(elem)
			stmts = append(stmts, p.lvarInitElem(tok, elem, ty.Base)...)
		}
		p.expect("}")
		return stmts

	case types.STRUCT:
		p.expect("{")
		var stmts []*ast.Node
		for i := 0; !p.at("}"); i++ {
			if i > 0 {
				p.expect(",")
				if p.at("}") {
					break
				}
			}
			m := ty.Members[i]
			member := &ast.Node{Kind: ast.MEMBER, Tok: tok, Lhs: base, Mem: m}
			ast.AddType(member)
			stmts = append(stmts, p.lvarInitElem(tok, member, m.Ty)...)
		}
		p.expect("}")
		return stmts

	case types.UNION:
		p.expect("{")
		var stmts []*ast.Node
		if !p.at("}") {
			m := ty.Members[0]
			member := &ast.Node{Kind: ast.MEMBER, Tok: tok, Lhs: base, Mem: m}
			ast.AddType(member)
			stmts = append(stmts, p.lvarInitElem(tok, member, m.Ty)...)
			p.consume(",")
		}
		p.expect("}")
		return stmts

	default:
		rhs := p.assign()
		ast.AddType(rhs)
		assign := &ast.Node{Kind: ast.ASSIGN, Tok: tok, Lhs: base, Rhs: rhs}
		ast.AddType(assign)
		return []*ast.Node{{Kind: ast.EXPRSTMT, Tok: tok, Lhs: assign}}
	}
}
