package object

import (
	"testing"

	"github.com/kobakobashu/c-compiler/internal/types"
)

func TestScopeDeclareAndLookupVar(t *testing.T) {
	s := NewScope()
	obj := &Obj{Name: "x", Ty: types.Int}
	if !s.DeclareVar("x", obj) {
		t.Fatal("first declaration of x should succeed")
	}
	if s.DeclareVar("x", obj) {
		t.Error("redeclaration of x in the same frame should fail")
	}
	got, ok := s.LookupVar("x")
	if !ok || got != obj {
		t.Errorf("LookupVar(x) = %v, %v; want %v, true", got, ok, obj)
	}
}

func TestScopeShadowingAcrossFrames(t *testing.T) {
	s := NewScope()
	outer := &Obj{Name: "x", Ty: types.Int}
	s.DeclareVar("x", outer)

	s.Push()
	inner := &Obj{Name: "x", Ty: types.Char}
	if !s.DeclareVar("x", inner) {
		t.Fatal("shadowing declaration in a nested frame should succeed")
	}
	if got, _ := s.LookupVar("x"); got != inner {
		t.Errorf("inner scope: LookupVar(x) = %v, want %v", got, inner)
	}
	s.Pop()
	if got, _ := s.LookupVar("x"); got != outer {
		t.Errorf("after popping: LookupVar(x) = %v, want %v", got, outer)
	}
}

func TestScopeAtFileScope(t *testing.T) {
	s := NewScope()
	if !s.AtFileScope() {
		t.Error("freshly created scope should be at file scope")
	}
	s.Push()
	if s.AtFileScope() {
		t.Error("after Push, should no longer be at file scope")
	}
	s.Pop()
	if !s.AtFileScope() {
		t.Error("after matching Pop, should be back at file scope")
	}
}

func TestScopeTagNamespaceIsSeparateFromVars(t *testing.T) {
	s := NewScope()
	st := types.StructType("Point", nil, false)
	s.DeclareTag("Point", st)

	if _, ok := s.LookupVar("Point"); ok {
		t.Error("a tag declaration should not leak into the var namespace")
	}
	got, ok := s.LookupTag("Point")
	if !ok || got != st {
		t.Errorf("LookupTag(Point) = %v, %v; want %v, true", got, ok, st)
	}
}

func TestScopeEnumConstNamespace(t *testing.T) {
	s := NewScope()
	s.DeclareEnumConst("RED", 0)
	s.DeclareEnumConst("GREEN", 1)

	v, ok := s.LookupEnumConst("GREEN")
	if !ok || v != 1 {
		t.Errorf("LookupEnumConst(GREEN) = %d, %v; want 1, true", v, ok)
	}
	if _, ok := s.LookupEnumConst("BLUE"); ok {
		t.Error("LookupEnumConst(BLUE) should fail, nothing declared that name")
	}
}

func TestScopeTypedefNamespace(t *testing.T) {
	s := NewScope()
	s.DeclareTypedef("u32", types.Int)

	got, ok := s.LookupTypedef("u32")
	if !ok || got != types.Int {
		t.Errorf("LookupTypedef(u32) = %v, %v; want %v, true", got, ok, types.Int)
	}

	s.Push()
	s.DeclareTypedef("u32", types.Long)
	if got, _ := s.LookupTypedef("u32"); got != types.Long {
		t.Error("inner typedef should shadow the outer one")
	}
	s.Pop()
	if got, _ := s.LookupTypedef("u32"); got != types.Int {
		t.Error("outer typedef should be restored after Pop")
	}
}
