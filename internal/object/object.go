// Package object implements the symbol table: named entities with storage
// (locals, globals, string literals, functions) and the lexically scoped
// frame stack that binds identifiers to them, per spec.md §3's
// Object/Scope data model.
//
// Grounded on the teacher's lang/yparse/symtab.go (Symbol/Storage/
// ParamSymbol/LocalSymbol/SymbolTable split), generalized from wut4's
// global+flat-function-scope model to spec.md's nested lexical scope
// stack, and on yasm/types.go's Relocation struct, generalized from wut4's
// object-format relocation kinds to the single {offset, label, addend}
// triple spec.md's data-section relocations need.
package object

import "github.com/kobakobashu/c-compiler/internal/types"

// Relocation instructs the assembler to place the address of Label plus
// Addend at byte Offset within a global's init data (spec.md GLOSSARY).
type Relocation struct {
	Offset int
	Label  string
	Addend int64
}

// Obj represents one named entity with storage: a local variable, global
// variable, string literal, or function. Objects live for the whole
// compilation (spec.md §5 "ownership").
type Obj struct {
	Name string
	Ty   *types.Type

	IsLocal      bool
	IsFunction   bool
	IsDefinition bool
	IsStatic     bool

	// Offset is the local's negative stack offset from rbp. Always a
	// strictly negative multiple consistent with the local's alignment
	// once internal/codegen's stack-layout pass has run (spec.md §3).
	Offset int
	Align  int

	// InitData and Relocations describe a global's initializer: raw bytes
	// for constant parts, with each pointer-to-global fragment recorded as
	// a Relocation instead of embedded bytes (spec.md §3, §4.5).
	InitData   []byte
	Relocations []Relocation

	// Function-only fields below. Params and Locals share storage: Params
	// is a prefix reference into the same objects that appear in Locals,
	// mirroring spec.md "definitions allocate parameter objects as locals
	// in order".
	Params []*Obj
	Locals []*Obj

	// Body holds the function's *ast.Node statement list. Typed as
	// interface{} to avoid an import cycle: internal/ast's variable
	// reference nodes hold an *Obj, so ast already depends on object: a
	// function body typed as *ast.Node here would make the dependency
	// circular. internal/parser sets this to an *ast.Node; internal/codegen
	// is the only other reader and type-asserts it back to *ast.Node.
	Body interface{}

	StackSize int

	// HasVariadicSaveArea marks the va_list register/stack save area has
	// been reserved for this function (spec.md §4.5 "Argument passing").
	HasVariadicSaveArea bool
	VaAreaOffset        int // rbp-relative offset of the save area's start
}

// Scope is a stack of lexical frames, pushed at `{` and popped at `}`
// (spec.md §3). Frame 0 is always the file scope.
type Scope struct {
	frames []*frame
}

type frame struct {
	vars     map[string]*Obj
	tags     map[string]*types.Type
	alias    map[string]*types.Type
	enumVals map[string]int64
}

func newFrame() *frame {
	return &frame{
		vars:     make(map[string]*Obj),
		tags:     make(map[string]*types.Type),
		alias:    make(map[string]*types.Type),
		enumVals: make(map[string]int64),
	}
}

// NewScope creates a scope stack with the file scope already pushed.
func NewScope() *Scope {
	s := &Scope{}
	s.Push()
	return s
}

// Push opens a new lexical frame.
func (s *Scope) Push() {
	s.frames = append(s.frames, newFrame())
}

// Pop closes the innermost lexical frame.
func (s *Scope) Pop() {
	s.frames = s.frames[:len(s.frames)-1]
}

// AtFileScope reports whether exactly the file scope frame is open.
func (s *Scope) AtFileScope() bool {
	return len(s.frames) == 1
}

// top returns the innermost frame.
func (s *Scope) top() *frame {
	return s.frames[len(s.frames)-1]
}

// DeclareVar binds name to obj in the innermost frame. Returns false if
// name is already bound in that same frame (spec.md §4.4: "redeclaration
// within the same frame is rejected").
func (s *Scope) DeclareVar(name string, obj *Obj) bool {
	f := s.top()
	if _, exists := f.vars[name]; exists {
		return false
	}
	f.vars[name] = obj
	return true
}

// LookupVar walks frames from innermost to outermost.
func (s *Scope) LookupVar(name string) (*Obj, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if obj, ok := s.frames[i].vars[name]; ok {
			return obj, true
		}
	}
	return nil, false
}

// DeclareTag binds a struct/union/enum tag in the innermost frame's
// separate tag namespace (spec.md §4.4).
func (s *Scope) DeclareTag(name string, ty *types.Type) {
	s.top().tags[name] = ty
}

// LookupTag walks the tag namespace from innermost to outermost.
func (s *Scope) LookupTag(name string) (*types.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if ty, ok := s.frames[i].tags[name]; ok {
			return ty, true
		}
	}
	return nil, false
}

// DeclareEnumConst binds an enumerator name to its constant value in its
// own namespace, separate from vars: enumerators are constants, not
// objects with storage (spec.md §3).
func (s *Scope) DeclareEnumConst(name string, val int64) {
	s.top().enumVals[name] = val
}

// LookupEnumConst walks the enumerator namespace from innermost to
// outermost.
func (s *Scope) LookupEnumConst(name string) (int64, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].enumVals[name]; ok {
			return v, true
		}
	}
	return 0, false
}

// DeclareTypedef records a type-alias name, shadowing keyword-as-type
// lookups at this depth (spec.md §4.4).
func (s *Scope) DeclareTypedef(name string, ty *types.Type) {
	s.top().alias[name] = ty
}

// LookupTypedef walks the alias namespace from innermost to outermost.
func (s *Scope) LookupTypedef(name string) (*types.Type, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if ty, ok := s.frames[i].alias[name]; ok {
			return ty, true
		}
	}
	return nil, false
}
