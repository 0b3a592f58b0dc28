package model

import "testing"

func TestPointEqual(t *testing.T) {
	a := Point{X: 1.0, Y: 2.0}
	b := Point{X: 1.0005, Y: 1.9995}
	if !a.Equal(b) {
		t.Errorf("%v and %v should be equal within tolerance", a, b)
	}

	c := Point{X: 1.01, Y: 2.0}
	if a.Equal(c) {
		t.Errorf("%v and %v should not be equal", a, c)
	}
}

func TestObjectTypeFromLog(t *testing.T) {
	tests := map[string]ObjectType{
		"mob":                Mob,
		"interactive_object": IntObject,
		"anything_else":      Static,
		"":                   Static,
	}
	for in, want := range tests {
		if got := ObjectTypeFromLog(in); got != want {
			t.Errorf("ObjectTypeFromLog(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseObjectTypeConfig(t *testing.T) {
	tests := []struct {
		in   string
		want ObjectType
		ok   bool
	}{
		{"player", Player, true},
		{"mob", Mob, true},
		{"intobj", IntObject, true},
		{"static", Static, true},
		{"bogus", Static, false},
	}
	for _, tt := range tests {
		got, ok := ParseObjectTypeConfig(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseObjectTypeConfig(%q) = (%v,%v), want (%v,%v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestObjectMatcherPlayerIgnoresClass(t *testing.T) {
	m := ObjectMatcher{Type: Player, Class: "irrelevant"}
	if !m.Matches(Player, "") {
		t.Error("Player matcher should match regardless of class")
	}
	if m.Matches(Mob, "") {
		t.Error("Player matcher should not match a Mob")
	}
}

func TestObjectMatcherClassConstraint(t *testing.T) {
	m := ObjectMatcher{Type: Mob, Class: "zombie"}
	if !m.Matches(Mob, "zombie") {
		t.Error("should match same class")
	}
	if m.Matches(Mob, "skeleton") {
		t.Error("should not match different class")
	}
}

func TestObjectMatcherEmptyClassRequiresEmptyClass(t *testing.T) {
	m := ObjectMatcher{Type: Mob}
	if !m.Matches(Mob, "") {
		t.Error("empty-class matcher should match an empty-class object")
	}
	if m.Matches(Mob, "zombie") || m.Matches(Mob, "skeleton") {
		t.Error("empty-class matcher should not match a non-empty class; Class must match exactly unless the object is a Player")
	}
}

func TestCheckerStateTaskByName(t *testing.T) {
	s := &CheckerState{Tasks: []Task{{Name: "T1"}, {Name: "T2"}}}
	task, ok := s.TaskByName("T2")
	if !ok || task.Name != "T2" {
		t.Errorf("TaskByName(T2) = (%v,%v)", task, ok)
	}
	if _, ok := s.TaskByName("missing"); ok {
		t.Error("TaskByName should report not-found for unknown name")
	}
}
