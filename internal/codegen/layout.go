package codegen

import (
	"github.com/kobakobashu/c-compiler/internal/object"
	"github.com/kobakobashu/c-compiler/internal/types"
)

// assignLocalOffsets walks fn's locals in declaration order and assigns
// each a negative, alignment-respecting offset from rbp, then rounds the
// total frame size up to 16 bytes (spec.md §4.5 "stack layout pass"; the
// System V AMD64 ABI requires a 16-byte-aligned rsp at every call site).
func assignLocalOffsets(fn *object.Obj) {
	offset := 0
	if fn.HasVariadicSaveArea {
		// Reserve the register save area for va_start to spill into: six
		// 8-byte integer argument registers (spec.md §4.5 supplement).
		offset = 48
		fn.VaAreaOffset = -offset
	}

	for _, local := range fn.Locals {
		offset += local.Ty.Size
		offset = types.AlignTo(offset, local.Align)
		local.Offset = -offset
	}

	fn.StackSize = types.AlignTo(offset, 16)
}
