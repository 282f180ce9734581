package state

import "testing"

func TestContextExtendDepth1KeepsOnlyLastLabel(t *testing.T) {
	c := RootContext()
	c = c.Extend(10, 1)
	c = c.Extend(20, 1)
	c = c.Extend(30, 1)
	if len(c) != 1 || c[0] != 30 {
		t.Errorf("1-call-site-sensitive context should keep only the most recent label, got %v", c)
	}
}

func TestContextExtendDepth2KeepsLastTwo(t *testing.T) {
	c := RootContext()
	c = c.Extend(1, 2)
	c = c.Extend(2, 2)
	c = c.Extend(3, 2)
	if len(c) != 2 || c[0] != 2 || c[1] != 3 {
		t.Errorf("depth-2 context should be the last two labels in order, got %v", c)
	}
}

func TestContextExtendDepth0IsContextInsensitive(t *testing.T) {
	c := RootContext().Extend(1, 0)
	c = c.Extend(2, 0)
	if len(c) != 0 {
		t.Errorf("depth 0 should always collapse to the empty context, got %v", c)
	}
}

func TestContextKeyDistinguishesDifferentContexts(t *testing.T) {
	a := Context{1, 2}
	b := Context{1, 3}
	if a.Key() == b.Key() {
		t.Errorf("distinct contexts should not collide: %q == %q", a.Key(), b.Key())
	}
	if RootContext().Key() != (Context{}).Key() {
		t.Errorf("nil and empty contexts should key identically")
	}
}
