// Package evaluate tests a single configured Condition against
// current scene state and, where relevant, a single dispatched event
// (spec.md §4.G). It is the only package that understands what each
// ConditionKind means.
package evaluate

import (
	"github.com/kestrel-play/taskcheck/model"
	"github.com/kestrel-play/taskcheck/scene"
)

// Event is the event-carried half of a condition test: the actor(s)
// the triggering log line named, by scene index, and any numeric
// payload. A Tick event (a position update line, or no event at all)
// has neither Primary nor Secondary set and Won false, so only
// world-state kinds (Proximity/Approaching/Retiring/Moving) can match
// it.
//
// This collapses the source's nullable-pointer event parameters into
// one explicit variant value, per spec.md §9's design note.
type Event struct {
	Primary    int
	HasPrimary bool

	Secondary    int
	HasSecondary bool

	Arg float32
	Won bool
}

// NoActor is returned as the actor index for GameWon, which credits
// every object rather than a single one; callers must special-case
// model.GameWon rather than read this as a real index.
const NoActor = -1

// Test evaluates cond against the current scene and the dispatched
// event. It returns whether cond matched and, if so, which scene
// object index should be credited. If cond has a nested AND branch
// (Second), it is tested against an empty Event — i.e. purely against
// world state — regardless of what triggered the outer match.
func Test(cond model.Condition, sc *scene.Scene, ev Event) (bool, int) {
	matched, actor := testOne(cond, sc, ev)
	if !matched {
		return false, 0
	}
	if cond.Second != nil {
		andMatched, _ := testOne(*cond.Second, sc, Event{})
		if !andMatched {
			return false, 0
		}
	}
	return true, actor
}

func testOne(cond model.Condition, sc *scene.Scene, ev Event) (bool, int) {
	switch cond.Kind {
	case model.Proximity:
		return testPairDistance(sc, cond.Primary, cond.Secondary, func(d float64) bool { return d <= float64(cond.Arg) })

	case model.Approaching:
		return testPairApproachRetire(sc, cond.Primary, cond.Secondary, true)

	case model.Retiring:
		return testPairApproachRetire(sc, cond.Primary, cond.Secondary, false)

	case model.Moving:
		for i, o := range sc.Objects {
			if !cond.Primary.Matches(o.Type, o.Class) {
				continue
			}
			if o.Pos.Dist(o.PrevPos) > 0 {
				return true, i
			}
		}
		return false, 0

	case model.GameWon:
		return ev.Won, NoActor

	case model.Attacked:
		if !ev.HasPrimary || !ev.HasSecondary {
			return false, 0
		}
		p := sc.Objects[ev.Primary]
		s := sc.Objects[ev.Secondary]
		if !cond.Primary.Matches(p.Type, p.Class) || !cond.Secondary.Matches(s.Type, s.Class) {
			return false, 0
		}
		if cond.Arg < ev.Arg {
			return false, 0
		}
		return true, ev.Primary

	case model.Damaged:
		if !ev.HasPrimary {
			return false, 0
		}
		p := sc.Objects[ev.Primary]
		if !cond.Primary.Matches(p.Type, p.Class) {
			return false, 0
		}
		if cond.Arg < ev.Arg {
			return false, 0
		}
		return true, ev.Primary

	case model.Destroyed:
		if !ev.HasPrimary {
			return false, 0
		}
		p := sc.Objects[ev.Primary]
		if !cond.Primary.Matches(p.Type, p.Class) {
			return false, 0
		}
		return true, ev.Primary

	default:
		return false, 0
	}
}

// testPairDistance finds the first ordered, distinct pair (i, j) with
// sc.Objects[i] matching a, sc.Objects[j] matching b, and accept(dist)
// true. Iteration is in ascending (i, j) order, so the result is
// deterministic.
func testPairDistance(sc *scene.Scene, a, b model.ObjectMatcher, accept func(float64) bool) (bool, int) {
	for i, oi := range sc.Objects {
		if !a.Matches(oi.Type, oi.Class) {
			continue
		}
		for j, oj := range sc.Objects {
			if i == j || !b.Matches(oj.Type, oj.Class) {
				continue
			}
			if accept(oi.Pos.Dist(oj.Pos)) {
				return true, i
			}
		}
	}
	return false, 0
}

// testPairApproachRetire finds the first ordered, distinct pair (i, j)
// whose current distance is strictly less (approaching) or greater
// (retiring) than their previous-tick distance.
func testPairApproachRetire(sc *scene.Scene, a, b model.ObjectMatcher, approaching bool) (bool, int) {
	for i, oi := range sc.Objects {
		if !a.Matches(oi.Type, oi.Class) {
			continue
		}
		for j, oj := range sc.Objects {
			if i == j || !b.Matches(oj.Type, oj.Class) {
				continue
			}
			now := oi.Pos.Dist(oj.Pos)
			prev := oi.PrevPos.Dist(oj.PrevPos)
			if approaching && now < prev {
				return true, i
			}
			if !approaching && now > prev {
				return true, i
			}
		}
	}
	return false, 0
}
