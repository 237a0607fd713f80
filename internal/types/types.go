// Package types implements the compiler's value-type representation:
// kind tags, size/alignment computation, and the structural helpers
// (pointer-to, array-of, function-returning, struct/union layout) spec.md
// §4.2 names.
//
// Grounded on the teacher's yparse/types.go Type struct (a Kind tag plus
// kind-specific payload fields, with Size/Alignment/Equal methods),
// generalized from wut4's fixed base-type set to the C integer kinds this
// compiler supports, plus pointer/array/function/struct/union/enum and the
// storage-only Float/Double kinds supplemented per SPEC_FULL.md §5 so
// float/double struct members and globals can be declared and laid out;
// internal/ast rejects them from reaching any arithmetic operator, since
// floating-point arithmetic itself is a non-goal.
package types

// Kind identifies the shape of a Type.
type Kind int

const (
	VOID Kind = iota
	BOOL
	CHAR
	SHORT
	INT
	LONG
	FLOAT  // storage/initializer-folding only; see SPEC_FULL.md §5
	DOUBLE // storage/initializer-folding only; see SPEC_FULL.md §5
	ENUM
	PTR
	FUNC
	ARRAY
	STRUCT
	UNION
)

// Member describes one field of a struct or union type.
type Member struct {
	Name   string
	Ty     *Type
	Offset int
	Align  int
	// Index is the member's ordinal position in declaration order.
	Index int
}

// Param is one entry of a function type's parameter list.
type Param struct {
	Name string
	Ty   *Type
}

// Type is a tagged node describing a value type. Pointer.Base, Array.Base,
// Func.Return/Params and Struct/Union.Members embed further Type pointers,
// forming a DAG; recursive struct references always go through a Ptr kind,
// which breaks any would-be cycle at a type-kind boundary (spec.md §9).
type Type struct {
	Kind Kind

	Size  int // in bytes
	Align int // in bytes

	// Ptr, Array
	Base *Type

	// Array
	ArrayLen int

	// Func
	Return      *Type
	Params      []Param
	IsVariadic  bool

	// Struct, Union
	Members    []*Member
	IsFlexible bool // trailing flexible array member, e.g. `int arr[]`

	// Enum
	EnumMembers []EnumConst

	// Name is the declarator token's spelling, kept for diagnostics only.
	Name string
}

// EnumConst is one named, valued member of an enum type.
type EnumConst struct {
	Name  string
	Value int64
}

// Singleton instances for the types that need no further attributes,
// matching spec.md §4.2 ("singleton instances are pre-allocated").
var (
	Void   = &Type{Kind: VOID, Size: 1, Align: 1}
	Bool   = &Type{Kind: BOOL, Size: 1, Align: 1}
	Char   = &Type{Kind: CHAR, Size: 1, Align: 1}
	Short  = &Type{Kind: SHORT, Size: 2, Align: 2}
	Int    = &Type{Kind: INT, Size: 4, Align: 4}
	Long   = &Type{Kind: LONG, Size: 8, Align: 8}
	Float  = &Type{Kind: FLOAT, Size: 4, Align: 4}
	Double = &Type{Kind: DOUBLE, Size: 8, Align: 8}
)

// AlignTo rounds n up to the nearest multiple of align (spec.md §4.2).
func AlignTo(n, align int) int {
	return (n + align - 1) / align * align
}

// PointerTo builds a pointer-to-base type. Pointers are always 8 bytes on
// the System V AMD64 target.
func PointerTo(base *Type) *Type {
	return &Type{Kind: PTR, Size: 8, Align: 8, Base: base}
}

// ArrayOf builds an array-of-base type with the given element count.
func ArrayOf(base *Type, length int) *Type {
	return &Type{
		Kind:     ARRAY,
		Size:     base.Size * length,
		Align:    base.Align,
		Base:     base,
		ArrayLen: length,
	}
}

// FuncType builds a function-returning-ret type over the given parameters.
func FuncType(ret *Type, params []Param, variadic bool) *Type {
	return &Type{
		Kind:       FUNC,
		Return:     ret,
		Params:     params,
		IsVariadic: variadic,
	}
}

// StructType lays out members in declaration order, computing each
// member's offset by advancing a running cursor aligned to the member's
// own alignment, then pads the struct's total size to its own alignment
// (the max of its members' alignments) - spec.md §4.2.
func StructType(name string, members []*Member, flexible bool) *Type {
	offset := 0
	align := 1
	for i, m := range members {
		offset = AlignTo(offset, m.Align)
		m.Offset = offset
		m.Index = i
		if !(flexible && i == len(members)-1) {
			offset += m.Ty.Size
		}
		if m.Align > align {
			align = m.Align
		}
	}
	return &Type{
		Kind:       STRUCT,
		Size:       AlignTo(offset, align),
		Align:      align,
		Members:    members,
		Name:       name,
		IsFlexible: flexible,
	}
}

// UnionType gives every member offset 0; the union's size is the max
// member size, padded to the max member alignment (spec.md §4.2).
func UnionType(name string, members []*Member) *Type {
	size := 0
	align := 1
	for i, m := range members {
		m.Offset = 0
		m.Index = i
		if m.Ty.Size > size {
			size = m.Ty.Size
		}
		if m.Align > align {
			align = m.Align
		}
	}
	return &Type{
		Kind:    UNION,
		Size:    AlignTo(size, align),
		Align:   align,
		Members: members,
		Name:    name,
	}
}

// EnumType builds an int-sized enum type carrying its named constants.
// Codegen treats Enum identically to Int (SPEC_FULL.md §5).
func EnumType(name string, members []EnumConst) *Type {
	return &Type{Kind: ENUM, Size: 4, Align: 4, Name: name, EnumMembers: members}
}

// IsInteger reports whether t is one of the integer kinds (including Bool
// and Enum, which is int-sized).
func (t *Type) IsInteger() bool {
	switch t.Kind {
	case BOOL, CHAR, SHORT, INT, LONG, ENUM:
		return true
	}
	return false
}

// IsFlonum reports whether t is a storage-only floating-point kind.
func (t *Type) IsFlonum() bool {
	return t.Kind == FLOAT || t.Kind == DOUBLE
}

// IsNumeric reports whether t supports arithmetic promotion rules.
func (t *Type) IsNumeric() bool {
	return t.IsInteger() || t.IsFlonum()
}

// IsPointer reports whether t is a pointer or, by decay, an array.
func (t *Type) IsPointer() bool {
	return t.Kind == PTR || t.Kind == ARRAY
}

// IsScalar reports whether t is a valid operand of arithmetic/comparison.
func (t *Type) IsScalar() bool {
	return t.IsNumeric() || t.IsPointer()
}

// BaseType returns the pointee (Ptr) or element (Array) type, or nil for any
// other kind.
func (t *Type) BaseType() *Type {
	return t.Base
}

// PointerToOrSelf returns the pointer-decayed form of an array type used in
// value context, or t unchanged otherwise (spec.md §3 invariant: "array
// sub-expressions in value context decay to pointer type at their use
// site").
func (t *Type) PointerToOrSelf() *Type {
	if t.Kind == ARRAY {
		return PointerTo(t.Base)
	}
	return t
}
