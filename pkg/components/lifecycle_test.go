package components

import "testing"

func TestLifecycleAdvanceIsOneWay(t *testing.T) {
	l := &LifecycleComponent{}

	if !l.Advance(StateAnimating) {
		t.Fatal("Created → Animating should be allowed")
	}
	if l.Advance(StateCreated) {
		t.Error("Animating → Created should be rejected")
	}
	if l.Advance(StateAnimating) {
		t.Error("Animating → Animating should be rejected")
	}
	if !l.Advance(StateRemoved) {
		t.Fatal("Animating → Removed should be allowed")
	}
	if l.Advance(StateAnimating) {
		t.Error("Removed is terminal")
	}
	if l.State != StateRemoved {
		t.Errorf("Expected state removed, got %s", l.State)
	}
}

func TestLifecycleCreatedCanBeRemovedDirectly(t *testing.T) {
	// 驱逐可能发生在起始延迟结束之前
	l := &LifecycleComponent{}
	if !l.Advance(StateRemoved) {
		t.Error("Created → Removed should be allowed")
	}
}
