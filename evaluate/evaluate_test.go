package evaluate

import (
	"testing"

	"github.com/kestrel-play/taskcheck/model"
	"github.com/kestrel-play/taskcheck/scene"
)

func playerZombieScene(playerPos, zombiePos model.Point) *scene.Scene {
	return scene.Build([]scene.Row{
		{ID: "zombie_1", Class: "zombie", Type: model.Mob, Pos: zombiePos},
	}, playerPos)
}

func TestTestProximity(t *testing.T) {
	sc := playerZombieScene(model.Point{X: 0, Y: 0}, model.Point{X: 3, Y: 0})
	cond := model.Condition{
		Kind:      model.Proximity,
		Primary:   model.ObjectMatcher{Type: model.Player},
		Secondary: model.ObjectMatcher{Type: model.Mob, Class: "zombie"},
		Arg:       5,
	}
	matched, actor := Test(cond, sc, Event{})
	if !matched || actor != sc.PlayerIndex() {
		t.Errorf("Test(Proximity) = (%v,%d), want (true,%d)", matched, actor, sc.PlayerIndex())
	}

	cond.Arg = 2
	if matched, _ := Test(cond, sc, Event{}); matched {
		t.Error("Proximity should not match beyond arg distance")
	}
}

func TestTestApproachingAndRetiring(t *testing.T) {
	sc := playerZombieScene(model.Point{X: 0, Y: 0}, model.Point{X: 10, Y: 0})
	sc.Objects[sc.PlayerIndex()].Pos = model.Point{X: 2, Y: 0}

	approach := model.Condition{Kind: model.Approaching, Primary: model.ObjectMatcher{Type: model.Player}, Secondary: model.ObjectMatcher{Type: model.Mob, Class: "zombie"}}
	if matched, _ := Test(approach, sc, Event{}); !matched {
		t.Error("expected Approaching to match as distance shrank")
	}

	retire := model.Condition{Kind: model.Retiring, Primary: model.ObjectMatcher{Type: model.Player}, Secondary: model.ObjectMatcher{Type: model.Mob, Class: "zombie"}}
	if matched, _ := Test(retire, sc, Event{}); matched {
		t.Error("did not expect Retiring to match while distance shrank")
	}
}

func TestTestMoving(t *testing.T) {
	sc := playerZombieScene(model.Point{X: 0, Y: 0}, model.Point{X: 3, Y: 0})
	cond := model.Condition{Kind: model.Moving, Primary: model.ObjectMatcher{Type: model.Player}}
	if matched, _ := Test(cond, sc, Event{}); matched {
		t.Error("Moving should not match when Pos == PrevPos")
	}

	sc.Objects[sc.PlayerIndex()].Pos = model.Point{X: 1, Y: 1}
	if matched, actor := Test(cond, sc, Event{}); !matched || actor != sc.PlayerIndex() {
		t.Errorf("Moving should match once Pos != PrevPos, got (%v,%d)", matched, actor)
	}
}

func TestTestGameWon(t *testing.T) {
	sc := playerZombieScene(model.Point{}, model.Point{})
	cond := model.Condition{Kind: model.GameWon}

	if matched, _ := Test(cond, sc, Event{Won: false}); matched {
		t.Error("GameWon should not match without a win event")
	}
	matched, actor := Test(cond, sc, Event{Won: true})
	if !matched || actor != NoActor {
		t.Errorf("Test(GameWon, won) = (%v,%d), want (true,%d)", matched, actor, NoActor)
	}
}

func TestTestAttackedDamagedDestroyed(t *testing.T) {
	sc := playerZombieScene(model.Point{}, model.Point{})
	zombieIdx := 0
	playerIdx := sc.PlayerIndex()

	attacked := model.Condition{
		Kind:      model.Attacked,
		Primary:   model.ObjectMatcher{Type: model.Player},
		Secondary: model.ObjectMatcher{Type: model.Mob, Class: "zombie"},
		Arg:       10,
	}
	ev := Event{Primary: playerIdx, HasPrimary: true, Secondary: zombieIdx, HasSecondary: true, Arg: 5}
	if matched, actor := Test(attacked, sc, ev); !matched || actor != playerIdx {
		t.Errorf("Attacked did not match an attack within the threshold: (%v,%d)", matched, actor)
	}
	ev.Arg = 20
	if matched, _ := Test(attacked, sc, ev); matched {
		t.Error("Attacked should not match when the event's amount exceeds the condition's threshold")
	}

	damaged := model.Condition{Kind: model.Damaged, Primary: model.ObjectMatcher{Type: model.Mob, Class: "zombie"}, Arg: 3}
	ev = Event{Primary: zombieIdx, HasPrimary: true, Arg: 1}
	if matched, actor := Test(damaged, sc, ev); !matched || actor != zombieIdx {
		t.Errorf("Damaged did not match: (%v,%d)", matched, actor)
	}

	destroyed := model.Condition{Kind: model.Destroyed, Primary: model.ObjectMatcher{Type: model.Mob, Class: "zombie"}}
	ev = Event{Primary: zombieIdx, HasPrimary: true}
	if matched, actor := Test(destroyed, sc, ev); !matched || actor != zombieIdx {
		t.Errorf("Destroyed did not match: (%v,%d)", matched, actor)
	}
}

func TestTestEventMatcherMismatchFails(t *testing.T) {
	sc := playerZombieScene(model.Point{}, model.Point{})
	destroyed := model.Condition{Kind: model.Destroyed, Primary: model.ObjectMatcher{Type: model.Player}}
	ev := Event{Primary: 0, HasPrimary: true} // index 0 is the zombie, not Player
	if matched, _ := Test(destroyed, sc, ev); matched {
		t.Error("Destroyed should not match an actor of the wrong type/class")
	}
}

func TestTestNestedANDEvaluatesAgainstEmptyEvent(t *testing.T) {
	sc := playerZombieScene(model.Point{X: 0, Y: 0}, model.Point{X: 3, Y: 0})

	// Outer: Destroyed (event-driven). Second/AND branch: Proximity
	// (world-state), which must be checked with an empty Event even
	// though the outer match came from a real dispatched event.
	outer := model.Condition{
		Kind:    model.Destroyed,
		Primary: model.ObjectMatcher{Type: model.Mob, Class: "zombie"},
		Second: &model.Condition{
			Kind:      model.Proximity,
			Primary:   model.ObjectMatcher{Type: model.Player},
			Secondary: model.ObjectMatcher{Type: model.Mob, Class: "zombie"},
			Arg:       5,
		},
	}
	ev := Event{Primary: 0, HasPrimary: true}
	matched, actor := Test(outer, sc, ev)
	if !matched || actor != 0 {
		t.Errorf("Test(nested AND, proximity satisfied) = (%v,%d), want (true,0)", matched, actor)
	}

	outer.Second.Arg = 1 // too strict now; AND branch fails
	if matched, _ := Test(outer, sc, ev); matched {
		t.Error("Test(nested AND) should fail once the AND branch's world-state condition fails")
	}
}
