// Package matrix implements the condition × object satisfaction
// matrix and its reduction to the result byte (spec.md §4.H).
package matrix

import "github.com/kestrel-play/taskcheck/model"

// SatisfactionMatrix is a monotonic [condition][object] bit grid.
// Cell (i, k) means "condition i was recorded as satisfied by scene
// object k". Cells are only ever set, never cleared.
type SatisfactionMatrix struct {
	cells         [model.MaxConditions][]bool
	numConditions int
}

// New creates a matrix sized for numConditions conditions over
// numObjects scene objects. numConditions must be between 1 and
// model.MaxConditions.
func New(numConditions, numObjects int) *SatisfactionMatrix {
	m := &SatisfactionMatrix{numConditions: numConditions}
	for i := 0; i < numConditions; i++ {
		m.cells[i] = make([]bool, numObjects)
	}
	return m
}

// satisfiedLater reports whether any condition after i is already
// credited to actor k. This is the "no-later-wins" rule: once a
// higher-indexed condition has been credited to an actor, no
// lower-indexed condition can be newly credited to the same actor.
func (m *SatisfactionMatrix) satisfiedLater(i, k int) bool {
	for j := i + 1; j < m.numConditions; j++ {
		if m.cells[j][k] {
			return true
		}
	}
	return false
}

// Credit records condition i as satisfied by actor k, unless a
// higher-indexed condition already claims k (spec.md §4.H).
func (m *SatisfactionMatrix) Credit(i, k int) {
	if m.satisfiedLater(i, k) {
		return
	}
	m.cells[i][k] = true
}

// CreditAll records condition i as satisfied by every object index,
// subject to the same no-later-wins rule per object. This is the
// GameWon row's behavior (spec.md §4.H: "the GameWon row is updated
// for all objects").
func (m *SatisfactionMatrix) CreditAll(i int) {
	for k := range m.cells[i] {
		m.Credit(i, k)
	}
}

// ResultByte folds the matrix to the 7-bit result: bit i is set iff
// any object satisfies condition i. Bit 7 (0x80) is always clear.
func (m *SatisfactionMatrix) ResultByte() byte {
	var result byte
	for i := 0; i < m.numConditions; i++ {
		for _, set := range m.cells[i] {
			if set {
				result |= 1 << uint(i)
				break
			}
		}
	}
	return result & 0x7F
}
