// Package topology encodes field identity and the adjacency function that
// turns a subdivision count into an addressable graph of fields with exact
// adjacency across the icosahedral seams (spec component 4.B).
package topology

import "fmt"

// Kind discriminates the tagged field-index union: the two poles, or a
// section/x/y coordinate.
type Kind uint8

const (
	// KindNorth is the unique north pole.
	KindNorth Kind = iota
	// KindSouth is the unique south pole.
	KindSouth
	// KindSxy is a non-polar field addressed by (section, x, y).
	KindSxy
)

// Field is a tagged field index: North, South, or Sxy(s,x,y).
type Field struct {
	Kind Kind
	S    int
	X    int
	Y    int
}

// North is the unique north pole field.
func North() Field { return Field{Kind: KindNorth} }

// South is the unique south pole field.
func South() Field { return Field{Kind: KindSouth} }

// Sxy builds a non-polar field at section s, coordinate (x,y).
func Sxy(s, x, y int) Field { return Field{Kind: KindSxy, S: s, X: x, Y: y} }

// String renders a field the way a debugger or log line would want it.
func (f Field) String() string {
	switch f.Kind {
	case KindNorth:
		return "North"
	case KindSouth:
		return "South"
	default:
		return fmt.Sprintf("Sxy(%d,%d,%d)", f.S, f.X, f.Y)
	}
}

// FieldCount returns the total number of fields on a sphere of the given
// divisions: 10*d^2 + 2.
func FieldCount(divisions int) int {
	return 10*divisions*divisions + 2
}

// IsPentagonal reports whether f is one of the twelve pentagonal fields:
// the two poles, or a section corner where y==0 and (x+1) mod d == 0.
func IsPentagonal(f Field, divisions int) bool {
	switch f.Kind {
	case KindNorth, KindSouth:
		return true
	default:
		return f.Y == 0 && (f.X+1)%divisions == 0
	}
}

// FlattenedIndex maps a field to its dense integer index in [0, 10d^2+2).
// North maps to 0, South to 1, and Sxy(s,x,y) to s*2*d^2 + x*d + y + 2.
func FlattenedIndex(f Field, divisions int) int {
	switch f.Kind {
	case KindNorth:
		return 0
	case KindSouth:
		return 1
	default:
		return f.S*2*divisions*divisions + f.X*divisions + f.Y + 2
	}
}

// Unflatten is the inverse of FlattenedIndex: given a flattened index and
// the sphere's divisions, it reconstructs the original Field.
func Unflatten(idx, divisions int) (Field, error) {
	if idx < 0 || idx >= FieldCount(divisions) {
		return Field{}, fmt.Errorf("topology: flattened index %d out of range [0,%d)", idx, FieldCount(divisions))
	}
	switch idx {
	case 0:
		return North(), nil
	case 1:
		return South(), nil
	default:
		rel := idx - 2
		perSection := 2 * divisions * divisions
		s := rel / perSection
		rem := rel % perSection
		x := rem / divisions
		y := rem % divisions
		return Sxy(s, x, y), nil
	}
}
