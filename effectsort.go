// effectsort.go - producer-before-consumer ordering of the effect-slot
// DAG so that a slot which sends into another is always processed
// before its target.

/*
License: GPLv3 or later
*/

package alcore

// SortEffectSlots returns slots ordered so that for every slot s with
// s.Target >= 0, the slot at index s.Target appears after s in the
// result — i.e. a reverse topological order by index, producers
// first. Cycles (a misconfigured Target loop) are broken by leaving
// the later-discovered edge unsorted relative to its cycle, logged as
// a warning rather than blocking the mixer on a misconfigured graph.
func SortEffectSlots(slots []*EffectSlot) []*EffectSlot {
	n := len(slots)
	idOf := make(map[*EffectSlot]int, n)
	for i, s := range slots {
		idOf[s] = i
	}

	visited := make([]int8, n) // 0=unvisited, 1=in-progress, 2=done
	order := make([]*EffectSlot, 0, n)

	var visit func(i int)
	visit = func(i int) {
		if visited[i] == 2 {
			return
		}
		if visited[i] == 1 {
			logger.Warn("effect slot cycle detected, breaking arbitrarily", "index", i)
			return
		}
		visited[i] = 1
		s := slots[i]
		if s.Target >= 0 && int(s.Target) < n {
			visit(int(s.Target))
		}
		visited[i] = 2
		order = append(order, s)
	}

	for i := range slots {
		visit(i)
	}

	// order currently lists consumers-before-producers (post-order from
	// a DFS that recurses into the target first); reverse it so
	// producers come first, matching the process loop's expectation
	// that it can mix each slot once, in order.
	for l, r := 0, len(order)-1; l < r; l, r = l+1, r-1 {
		order[l], order[r] = order[r], order[l]
	}
	return order
}
