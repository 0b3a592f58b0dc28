// Package scene materializes and validates the runtime object set a
// log's scene table describes (spec.md §3 RuntimeObject, §4.E scene
// validation).
package scene

import (
	"fmt"

	"github.com/kestrel-play/taskcheck/model"
)

// Row is one already-parsed scene-table data row, before the
// synthesized Player is appended.
type Row struct {
	ID     string
	Class  string
	Type   model.ObjectType
	Pos    model.Point
	HP     float32
	Damage float32
}

// Object is a runtime scene member: a scene-table row, or the
// synthesized Player. Pos/PrevPos are mutated on every position event;
// everything else is immutable after Build.
type Object struct {
	Type          model.ObjectType
	Class         string
	ID            string
	Pos           model.Point
	PrevPos       model.Point
	HP            float32
	Damage        float32
	PosPredefined bool
	Valid         bool // set once a BaseObject has claimed this object during validation
}

// Scene is the materialized, ordered set of runtime objects for one
// check. The Player is always the last element.
type Scene struct {
	Objects []Object
}

// Build constructs a Scene from the scene-table rows plus the parsed
// player start position. The Player is synthesized at index
// len(rows) (i.e. objects_count-1), with both Pos and PrevPos seeded
// from playerStart — including PrevPos.Y from playerStart.Y, not .X
// (spec.md §9: the source's copy-paste bug is not replicated here).
func Build(rows []Row, playerStart model.Point) *Scene {
	objects := make([]Object, 0, len(rows)+1)
	for _, r := range rows {
		objects = append(objects, Object{
			Type:          r.Type,
			Class:         r.Class,
			ID:            r.ID,
			Pos:           r.Pos,
			PrevPos:       r.Pos,
			HP:            r.HP,
			Damage:        r.Damage,
			PosPredefined: true,
		})
	}
	objects = append(objects, Object{
		Type:    model.Player,
		Pos:     playerStart,
		PrevPos: model.Point{X: playerStart.X, Y: playerStart.Y},
	})
	return &Scene{Objects: objects}
}

// PlayerIndex returns the index of the synthesized Player, always the
// last object.
func (s *Scene) PlayerIndex() int {
	return len(s.Objects) - 1
}

// IndexByID resolves an event-carried object id to a scene index. The
// literal token "Player" always resolves to the synthesized Player;
// any other id is matched against the id field from the scene row.
func (s *Scene) IndexByID(id string) (int, bool) {
	if id == "Player" {
		return s.PlayerIndex(), true
	}
	for i, o := range s.Objects {
		if o.Type != model.Player && o.ID == id {
			return i, true
		}
	}
	return 0, false
}

// ValidationError names the unmet base object or requirement.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validate matches each BaseObject against an as-yet-unclaimed Object
// (greedy, left-to-right, spec.md §4.E) and tallies each
// ObjectRequirement's Found count. bases and reqs are mutated in
// place — callers that care about CheckerState immutability across
// concurrent checks must pass per-invocation copies (spec.md §5).
func Validate(s *Scene, bases []model.BaseObject, reqs []model.ObjectRequirement) error {
	for bi := range bases {
		b := &bases[bi]
		matched := false
		for oi := range s.Objects {
			o := &s.Objects[oi]
			if o.Valid {
				continue
			}
			if !matchesBase(b, o) {
				continue
			}
			o.Valid = true
			b.Validated = true
			matched = true
			break
		}
		if !matched {
			return &ValidationError{Msg: fmt.Sprintf("no scene object satisfies base requirement %d (type=%s class=%q)", bi, b.Type, b.Class)}
		}
	}

	for ri := range reqs {
		r := &reqs[ri]
		var found uint8
		for _, o := range s.Objects {
			if o.Type == r.Type && o.Class == r.Class {
				found++
			}
		}
		r.Found = found
		if found < r.Minimum || found > r.Limit {
			return &ValidationError{Msg: fmt.Sprintf("requirement %d (type=%s class=%q) found %d objects, want %d..%d", ri, r.Type, r.Class, found, r.Minimum, r.Limit)}
		}
	}

	return nil
}

func matchesBase(b *model.BaseObject, o *Object) bool {
	if o.Type != b.Type {
		return false
	}
	if b.Class != "" && b.Class != o.Class {
		return false
	}
	if b.HasPos && !b.Pos.Equal(o.Pos) {
		return false
	}
	if b.HP != 0 && b.HP != o.HP {
		return false
	}
	if b.Damage != 0 && b.Damage != o.Damage {
		return false
	}
	return true
}
