package ecs

// sparseTombstone marks an unused slot in a sparseSet.
const sparseTombstone = -1

// sparseCapacity is the initial number of slots allocated for a sparseSet.
const sparseCapacity = 64

// sparseSet maps entity IDs to dense indices (archetype rows or archetype IDs). The entity ID is
// the index into the slice, so lookups are a bounds check and a load. Unused slots hold
// sparseTombstone.
type sparseSet []int

func newSparseSet() sparseSet {
	s := make(sparseSet, sparseCapacity)
	for i := range s {
		s[i] = sparseTombstone
	}
	return s
}

// get returns the value stored for eid and whether it exists.
func (s sparseSet) get(eid EntityID) (int, bool) {
	if int(eid) >= len(s) {
		return 0, false
	}
	value := s[eid]
	if value == sparseTombstone {
		return 0, false
	}
	return value, true
}

// set stores value for eid, growing the set when eid is out of range.
func (s *sparseSet) set(eid EntityID, value int) {
	if int(eid) >= len(*s) {
		newLen := max(len(*s)*2, int(eid)+1)
		grown := make(sparseSet, newLen)
		copy(grown, *s)
		for i := len(*s); i < newLen; i++ {
			grown[i] = sparseTombstone
		}
		*s = grown
	}
	(*s)[eid] = value
}

// remove clears eid and reports whether it was present.
func (s sparseSet) remove(eid EntityID) bool {
	if _, ok := s.get(eid); !ok {
		return false
	}
	s[eid] = sparseTombstone
	return true
}
