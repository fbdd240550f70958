package layout

import (
	"errors"
	"fmt"
)

// ErrUnknownStructure is returned when a reference targets a structure the
// resolver does not know.
var ErrUnknownStructure = errors.New("unknown structure")

// Resolver supplies the element list of a named structure. The binary layout
// reader sits behind this interface; tests use an in-memory Library.
type Resolver interface {
	Elements(structure string) ([]Element, error)
}

// Library is an in-memory Resolver backed by a name -> elements map.
type Library map[string][]Element

// Elements implements Resolver.
func (l Library) Elements(structure string) ([]Element, error) {
	elems, ok := l[structure]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStructure, structure)
	}
	return elems, nil
}
