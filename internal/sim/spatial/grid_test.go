package spatial

import "testing"

func newTestGrid() *Grid {
	return NewGrid(1280, 720, 128, 256)
}

// TestInsertAndQuery verifies a nearby entity is returned and a distant
// one is not.
func TestInsertAndQuery(t *testing.T) {
	g := newTestGrid()
	g.Insert(1, 100, 100)
	g.Insert(2, 1200, 700)

	got := g.Query(110, 110, 64)
	if !contains(got, 1) {
		t.Error("nearby entity missing from query")
	}
	if contains(got, 2) {
		t.Error("distant entity returned by query")
	}
}

// TestQueryIsCoarse verifies the grid may over-report within its cell
// neighborhood; callers do the exact distance check.
func TestQueryIsCoarse(t *testing.T) {
	g := newTestGrid()
	g.Insert(1, 0, 0)
	g.Insert(2, 120, 0) // same cell neighborhood

	got := g.Query(10, 10, 16)
	if !contains(got, 1) || !contains(got, 2) {
		t.Errorf("cell-neighborhood entities missing: %v", got)
	}
}

// TestOutOfBoundsClamped verifies positions beyond the world edges land
// in the rim cells instead of panicking.
func TestOutOfBoundsClamped(t *testing.T) {
	g := newTestGrid()
	g.Insert(1, -500, -500)
	g.Insert(2, 5000, 5000)

	if got := g.Query(0, 0, 64); !contains(got, 1) {
		t.Error("clamped low entity missing from corner query")
	}
	if got := g.Query(1280, 720, 64); !contains(got, 2) {
		t.Error("clamped high entity missing from corner query")
	}
}

// TestClearEmptiesGrid verifies Clear drops all previous inserts.
func TestClearEmptiesGrid(t *testing.T) {
	g := newTestGrid()
	g.Insert(1, 100, 100)
	g.Clear()

	if got := g.Query(100, 100, 64); len(got) != 0 {
		t.Errorf("query after clear returned %v", got)
	}
}

func contains(ids []uint32, id uint32) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
