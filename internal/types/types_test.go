package types

import "testing"

func TestAlignTo(t *testing.T) {
	cases := []struct{ n, align, want int }{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{3, 4, 4},
	}
	for _, c := range cases {
		if got := AlignTo(c.n, c.align); got != c.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", c.n, c.align, got, c.want)
		}
	}
}

func TestStructTypeLaysOutMembersInOrder(t *testing.T) {
	members := []*Member{
		{Name: "a", Ty: Char, Align: Char.Align},
		{Name: "b", Ty: Int, Align: Int.Align},
		{Name: "c", Ty: Char, Align: Char.Align},
	}
	st := StructType("S", members, false)

	if members[0].Offset != 0 {
		t.Errorf("a: offset %d, want 0", members[0].Offset)
	}
	if members[1].Offset != 4 {
		t.Errorf("b: offset %d, want 4 (padded to int alignment)", members[1].Offset)
	}
	if members[2].Offset != 8 {
		t.Errorf("c: offset %d, want 8", members[2].Offset)
	}
	if st.Size != 12 {
		t.Errorf("struct size %d, want 12 (padded to 4-byte alignment)", st.Size)
	}
	if st.Align != 4 {
		t.Errorf("struct align %d, want 4", st.Align)
	}
}

func TestUnionTypeGivesEveryMemberOffsetZero(t *testing.T) {
	members := []*Member{
		{Name: "i", Ty: Int, Align: Int.Align},
		{Name: "c", Ty: Char, Align: Char.Align},
	}
	ut := UnionType("U", members)

	for _, m := range members {
		if m.Offset != 0 {
			t.Errorf("%s: offset %d, want 0", m.Name, m.Offset)
		}
	}
	if ut.Size != 4 {
		t.Errorf("union size %d, want 4 (max member size)", ut.Size)
	}
}

func TestArrayOfComputesTotalSize(t *testing.T) {
	arr := ArrayOf(Int, 10)
	if arr.Size != 40 {
		t.Errorf("array size %d, want 40", arr.Size)
	}
	if arr.Align != Int.Align {
		t.Errorf("array align %d, want %d", arr.Align, Int.Align)
	}
}

func TestIsIntegerIncludesBoolAndEnum(t *testing.T) {
	enum := EnumType("E", nil)
	for _, ty := range []*Type{Bool, Char, Short, Int, Long, enum} {
		if !ty.IsInteger() {
			t.Errorf("kind %v: expected IsInteger true", ty.Kind)
		}
	}
	if Float.IsInteger() {
		t.Error("Float: expected IsInteger false")
	}
}

func TestIsPointerIncludesArrayDecay(t *testing.T) {
	if !PointerTo(Int).IsPointer() {
		t.Error("pointer type: expected IsPointer true")
	}
	if !ArrayOf(Int, 4).IsPointer() {
		t.Error("array type: expected IsPointer true (decays)")
	}
	if Int.IsPointer() {
		t.Error("int: expected IsPointer false")
	}
}

func TestPointerToOrSelfDecaysArrays(t *testing.T) {
	arr := ArrayOf(Int, 4)
	decayed := arr.PointerToOrSelf()
	if decayed.Kind != PTR || decayed.Base != Int {
		t.Errorf("got %+v, want a pointer-to-int", decayed)
	}
	if Int.PointerToOrSelf() != Int {
		t.Error("non-array type should be returned unchanged")
	}
}
