// Package collections provides the small set of generic slice helpers
// codegen and the parser use to trim and transform the global object list,
// parameter lists, and struct/union member lists: ordered slices rather than
// an intrusive next-pointer list, per spec.md's "linked lists as the
// universal container" section.
//
// Every helper here is a direct, named call into github.com/samber/lo, so
// the dependency is actually exercised rather than merely required.
package collections

import "github.com/samber/lo"

// Filter returns the elements of in for which keep reports true, preserving
// order - used to split the global object list into just functions, or just
// data objects, for codegen's two emission passes (internal/codegen/data.go,
// internal/codegen/emit_func.go).
func Filter[T any](in []T, keep func(T, int) bool) []T {
	return lo.Filter(in, keep)
}

// Map transforms each element of in, preserving order - used to turn a
// function's parameter list into its argument-register names ahead of
// spilling them to the stack (internal/codegen/emit_func.go's spillParams).
func Map[T, R any](in []T, fn func(T, int) R) []R {
	return lo.Map(in, fn)
}

// Find returns the first element of in for which match reports true - used
// to resolve a struct/union member by name (internal/parser/expr.go's
// structRef).
func Find[T any](in []T, match func(T) bool) (T, bool) {
	return lo.Find(in, match)
}
