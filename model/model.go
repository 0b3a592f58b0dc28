// Package model holds the in-memory task configuration: base objects,
// object requirements, conditions, and the top-level checker state
// loaded once at startup. Nothing in this package does I/O; it is data
// plus the small amount of construction/lookup logic that operates on
// it.
package model

import "math"

// positionEpsilon is the tolerance used when comparing two Points for
// equality (spec: |Δ| ≤ 0.001).
const positionEpsilon = 0.001

// Point is a 2-D coordinate. Equality is tolerant, not exact.
type Point struct {
	X, Y float32
}

// Equal reports whether p and o are within positionEpsilon of each other
// on both axes.
func (p Point) Equal(o Point) bool {
	return math.Abs(float64(p.X-o.X)) <= positionEpsilon && math.Abs(float64(p.Y-o.Y)) <= positionEpsilon
}

// Dist returns the Euclidean distance between p and o.
func (p Point) Dist(o Point) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ObjectType is the closed enumeration of scene object kinds.
type ObjectType int

const (
	Player ObjectType = iota
	Mob
	IntObject
	Static
)

// ParseObjectTypeConfig maps the config-file textual form
// (player|mob|intobj|static) to an ObjectType. ok is false for anything
// else.
func ParseObjectTypeConfig(s string) (ObjectType, bool) {
	switch s {
	case "player":
		return Player, true
	case "mob":
		return Mob, true
	case "intobj":
		return IntObject, true
	case "static":
		return Static, true
	default:
		return Static, false
	}
}

// ObjectTypeFromLog maps the log-file textual form. Unlike the config
// form this one is total: anything that isn't "mob" or
// "interactive_object" is Static.
func ObjectTypeFromLog(s string) ObjectType {
	switch s {
	case "mob":
		return Mob
	case "interactive_object":
		return IntObject
	default:
		return Static
	}
}

func (t ObjectType) String() string {
	switch t {
	case Player:
		return "player"
	case Mob:
		return "mob"
	case IntObject:
		return "intobj"
	case Static:
		return "static"
	default:
		return "unknown"
	}
}

// BaseObject is a scene member a task's scene must contain, with any
// attribute left zero/empty meaning "do not constrain".
type BaseObject struct {
	Type      ObjectType
	Class     string // empty = unconstrained
	Pos       Point
	HasPos    bool // false = position unconstrained
	HP        float32
	Damage    float32
	Validated bool // mutated during scene matching
}

// ObjectRequirement is a cardinality constraint on scene objects of a
// given (type, class).
type ObjectRequirement struct {
	Type    ObjectType
	Class   string
	Minimum uint8
	Limit   uint8
	Found   uint8 // mutated during scene matching
}

// ConditionKind is the closed set of predicate kinds a Condition can
// test.
type ConditionKind int

const (
	Proximity ConditionKind = iota
	Approaching
	Retiring
	Moving
	GameWon
	Attacked
	Damaged
	Destroyed
)

// ConditionKindFromString matches the closed string set used in task
// CSV rows.
func ConditionKindFromString(s string) (ConditionKind, bool) {
	switch s {
	case "proxy":
		return Proximity, true
	case "approach":
		return Approaching, true
	case "retire":
		return Retiring, true
	case "move":
		return Moving, true
	case "win":
		return GameWon, true
	case "attacked":
		return Attacked, true
	case "damaged":
		return Damaged, true
	case "destroy":
		return Destroyed, true
	default:
		return 0, false
	}
}

// ObjectMatcher is a (type, class) pair a condition matches actors
// against. Class must match exactly unless the object is a Player,
// which always matches regardless of Class.
type ObjectMatcher struct {
	Type  ObjectType
	Class string
}

// Matches reports whether a scene object of type t and class c is
// selected by m. The Player object type always matches regardless of
// class, mirroring spec §4.G's "o.type == Player OR o.class == class".
func (m ObjectMatcher) Matches(t ObjectType, c string) bool {
	if t != m.Type {
		return false
	}
	if t == Player {
		return true
	}
	return m.Class == c
}

// Condition is a single behavioral predicate, optionally AND-combined
// with one nested Condition (the "second" branch). Only one level of
// nesting is permitted; Second.Second is always nil.
type Condition struct {
	N         uint8
	Kind      ConditionKind
	Primary   ObjectMatcher
	Secondary ObjectMatcher
	Arg       float32
	Second    *Condition
}

// Task is a named bundle of scene expectations and conditions.
type Task struct {
	Name         string
	BaseObjects  []BaseObject
	Requirements []ObjectRequirement
	Conditions   []Condition
}

// MaxConditions is the hard ceiling on conditions per task (spec §3, §8).
const MaxConditions = 7

// CheckerState is the top-level loaded configuration: the signing
// secret plus every task, looked up linearly by name.
type CheckerState struct {
	Secret string
	Tasks  []Task
}

// TaskByName performs the linear lookup spec.md prescribes. ok is
// false if no task has that name.
func (s *CheckerState) TaskByName(name string) (*Task, bool) {
	for i := range s.Tasks {
		if s.Tasks[i].Name == name {
			return &s.Tasks[i], true
		}
	}
	return nil, false
}
