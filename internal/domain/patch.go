package domain

import "github.com/google/uuid"

// RefPatch expresses a three-state change to an optional entity reference.
// The zero value means "field absent, leave the reference unchanged".
//
//	RefPatch{}                       // unchanged
//	ClearRef()                       // remove the reference
//	SetRef(id)                       // validate and point at id
//
// A single nullable field cannot distinguish "clear" from "unchanged", which
// is why reference reassignment is modelled explicitly.
type RefPatch struct {
	present bool
	clear   bool
	id      uuid.UUID
}

// SetRef returns a RefPatch that points the reference at id.
func SetRef(id uuid.UUID) RefPatch {
	return RefPatch{present: true, id: id}
}

// ClearRef returns a RefPatch that removes the reference.
func ClearRef() RefPatch {
	return RefPatch{present: true, clear: true}
}

// Present reports whether the field was supplied at all.
func (p RefPatch) Present() bool { return p.present }

// Clear reports whether the reference should be removed.
func (p RefPatch) Clear() bool { return p.present && p.clear }

// ID returns the new target. Only meaningful when Present() && !Clear().
func (p RefPatch) ID() uuid.UUID { return p.id }
