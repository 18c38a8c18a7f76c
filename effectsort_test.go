
/*
License: GPLv3 or later
*/
package alcore

import "testing"

func TestSortEffectSlotsProducerBeforeConsumer(t *testing.T) {
	a := NewEffectSlot(1, 16)
	b := NewEffectSlot(2, 16)
	c := NewEffectSlot(3, 16)
	a.Target = 1 // a -> b
	b.Target = 2 // b -> c
	c.Target = -1

	slots := []*EffectSlot{a, b, c}
	sorted := SortEffectSlots(slots)

	pos := map[*EffectSlot]int{}
	for i, s := range sorted {
		pos[s] = i
	}
	if pos[a] >= pos[b] {
		t.Errorf("expected a before b, got positions %d, %d", pos[a], pos[b])
	}
	if pos[b] >= pos[c] {
		t.Errorf("expected b before c, got positions %d, %d", pos[b], pos[c])
	}
}

func TestSortEffectSlotsBreaksCycles(t *testing.T) {
	a := NewEffectSlot(1, 16)
	b := NewEffectSlot(2, 16)
	a.Target = 1
	b.Target = 0

	slots := []*EffectSlot{a, b}
	sorted := SortEffectSlots(slots)
	if len(sorted) != 2 {
		t.Fatalf("expected all slots to survive a cycle, got %d", len(sorted))
	}
}

func TestSortEffectSlotsNoTargets(t *testing.T) {
	a := NewEffectSlot(1, 16)
	b := NewEffectSlot(2, 16)
	a.Target, b.Target = -1, -1
	sorted := SortEffectSlots([]*EffectSlot{a, b})
	if len(sorted) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(sorted))
	}
}
