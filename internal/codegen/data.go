package codegen

import (
	"github.com/kobakobashu/c-compiler/internal/collections"
	"github.com/kobakobashu/c-compiler/internal/object"
)

// emitData writes the .data section for every global object with storage.
// A global with no initializer (empty InitData) goes to .bss instead,
// reserved via `.zero`; any initialized global, even one whose bytes are all
// zero, goes to .data (spec.md §4.5, grounded on the teacher's
// yasm/output.go section-splitting).
func emitData(e *Emitter, globals []*object.Obj) {
	data := collections.Filter(globals, func(obj *object.Obj, _ int) bool {
		return !obj.IsFunction && obj.IsDefinition
	})
	for _, obj := range data {
		if len(obj.InitData) == 0 {
			e.Directive(".bss")
		} else {
			e.Directive(".data")
		}
		if !obj.IsStatic {
			e.Directive(".globl %s", obj.Name)
		} else {
			e.Directive(".local %s", obj.Name)
		}
		e.Directive(".align %d", obj.Align)
		e.Label(obj.Name)

		if len(obj.InitData) == 0 {
			e.Directive(".zero %d", obj.Ty.Size)
			continue
		}

		emitInitData(e, obj.InitData, obj.Relocations)
	}
}

// emitInitData writes obj's raw bytes interleaved with its relocations: a
// relocation at offset k interrupts the byte run with `.quad label+addend`
// and advances past the 8 bytes it occupies (spec.md §4.5, GLOSSARY
// "relocation").
func emitInitData(e *Emitter, data []byte, relocs []object.Relocation) {
	byLoc := make(map[int]object.Relocation, len(relocs))
	for _, r := range relocs {
		byLoc[r.Offset] = r
	}

	i := 0
	for i < len(data) {
		if r, ok := byLoc[i]; ok {
			if r.Addend != 0 {
				e.Directive(".quad %s+%d", r.Label, r.Addend)
			} else {
				e.Directive(".quad %s", r.Label)
			}
			i += 8
			continue
		}

		run := i
		for run < len(data) {
			if _, ok := byLoc[run]; ok {
				break
			}
			run++
		}
		for _, b := range data[i:run] {
			e.Directive(".byte %d", int(b))
		}
		i = run
	}
}
