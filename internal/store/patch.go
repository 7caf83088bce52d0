package store

// Patch holds the columns of a partial update. Absent keys are left
// untouched; a present key is written even when its value is zero.
type Patch map[string]any

// Set records column only when v is non-nil.
func Set[V any](p Patch, column string, v *V) {
	if v != nil {
		p[column] = *v
	}
}

func (p Patch) Empty() bool {
	return len(p) == 0
}
