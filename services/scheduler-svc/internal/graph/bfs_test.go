package graph

import (
	"testing"
)

// buildDiamond строит ромб 0 -> {1,2} -> 3
func buildDiamond() *ResidualGraph {
	g := NewResidualGraph()
	g.AddEdgeWithReverse(0, 1, 10)
	g.AddEdgeWithReverse(0, 2, 10)
	g.AddEdgeWithReverse(1, 3, 10)
	g.AddEdgeWithReverse(2, 3, 10)
	return g
}

func TestQueue(t *testing.T) {
	q := NewQueue(4)

	if !q.Empty() {
		t.Error("new queue should be empty")
	}

	q.Push(1)
	q.Push(2)
	q.Push(3)

	if q.Len() != 3 {
		t.Errorf("Len = %d, want 3", q.Len())
	}

	if got := q.Pop(); got != 1 {
		t.Errorf("Pop = %d, want 1", got)
	}
	if got := q.Pop(); got != 2 {
		t.Errorf("Pop = %d, want 2", got)
	}

	q.Reset()
	if !q.Empty() {
		t.Error("queue should be empty after Reset")
	}
}

func TestBFSLevel(t *testing.T) {
	g := buildDiamond()

	level := BFSLevel(g, 0)

	want := map[int64]int{0: 0, 1: 1, 2: 1, 3: 2}
	for node, wantLevel := range want {
		got, ok := level[node]
		if !ok {
			t.Errorf("node %d missing from level map", node)
			continue
		}
		if got != wantLevel {
			t.Errorf("level[%d] = %d, want %d", node, got, wantLevel)
		}
	}
}

func TestBFSLevel_UnreachableNodesExcluded(t *testing.T) {
	g := buildDiamond()
	g.AddNode(42)

	level := BFSLevel(g, 0)

	if _, ok := level[42]; ok {
		t.Error("isolated node should not appear in level map")
	}
}

func TestBFSLevel_RespectsResidualCapacity(t *testing.T) {
	g := NewResidualGraph()
	g.AddEdgeWithReverse(0, 1, 5)
	g.AddEdgeWithReverse(0, 2, 5)
	g.AddEdgeWithReverse(1, 3, 5)
	g.AddEdgeWithReverse(2, 3, 5)
	g.UpdateFlow(0, 1, 5)

	level := BFSLevel(g, 0)

	// Насыщенное ребро 0 -> 1 выпадает из слоистой сети
	if got := level[2]; got != 1 {
		t.Errorf("level[2] = %d, want 1", got)
	}
	if got := level[3]; got != 2 {
		t.Errorf("level[3] = %d, want 2", got)
	}
	if _, ok := level[1]; ok {
		t.Error("node 1 should be unreachable through the saturated edge")
	}
}

func TestBFSLevel_NegativeNodeIDs(t *testing.T) {
	// Супер-исток -1 и супер-сток -2, как в сети планирования экипажей
	g := NewResidualGraph()
	g.AddEdgeWithReverse(-1, 0, 10)
	g.AddEdgeWithReverse(0, -2, 10)

	level := BFSLevel(g, -1)

	if got := level[-1]; got != 0 {
		t.Errorf("level[source] = %d, want 0", got)
	}
	if got, ok := level[-2]; !ok || got != 2 {
		t.Errorf("level[sink] = %d (present=%v), want 2", got, ok)
	}
}

func TestBFSLevelInto_ReusesMap(t *testing.T) {
	g := buildDiamond()
	level := map[int64]int{99: 7}

	BFSLevelInto(g, 0, level)

	// Старое содержимое вычищено, уровни пересчитаны
	if _, ok := level[99]; ok {
		t.Error("stale entry survived BFSLevelInto")
	}
	if got := level[3]; got != 2 {
		t.Errorf("level[3] = %d, want 2", got)
	}

	// Повторный вызов на изменённом графе
	g.UpdateFlow(0, 1, 10)
	BFSLevelInto(g, 0, level)
	if _, ok := level[1]; ok {
		t.Error("node 1 should drop out after saturation")
	}
}
