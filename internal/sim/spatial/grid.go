// Package spatial provides a cache-efficient broad phase for the
// simulation's collision passes.
//
// The grid stores plain uint32 entity IDs (not pointers) in preallocated
// cells to minimize GC pressure. It is an optimization only: the narrow
// phase re-checks exact circle distances, so correctness never depends
// on cell size.
package spatial

import "math"

// Grid provides O(1) average neighborhood queries via fixed-size cells
// stored in row-major order (cells[row*cols+col]).
type Grid struct {
	cellSize    float64
	invCellSize float64 // 1/cellSize, multiplication beats division
	cols, rows  int
	cells       [][]uint32
	scratch     []uint32 // reusable query buffer
}

// NewGrid creates a grid covering the given world bounds. cellSize
// should be at least the largest query radius; maxEntities sizes the
// per-cell preallocation.
func NewGrid(worldWidth, worldHeight, cellSize float64, maxEntities int) *Grid {
	cols := int(math.Ceil(worldWidth / cellSize))
	rows := int(math.Ceil(worldHeight / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	cells := make([][]uint32, cols*rows)
	avgPerCell := maxEntities / len(cells)
	if avgPerCell < 4 {
		avgPerCell = 4
	}
	for i := range cells {
		cells[i] = make([]uint32, 0, avgPerCell)
	}

	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       cells,
		scratch:     make([]uint32, 0, 64),
	}
}

// Clear resets all cells without deallocating. O(cells), not O(entities).
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an entity at (x, y). Positions outside the world bounds
// clamp to the border cells so rim-spawned entities are still indexed.
func (g *Grid) Insert(id uint32, x, y float64) {
	g.cells[g.cellIndex(x, y)] = append(g.cells[g.cellIndex(x, y)], id)
}

// Query returns the IDs of all entities whose cell intersects the circle
// at (x, y) with the given radius. The result is a reused internal
// buffer valid until the next Query or Clear; callers must not retain it.
//
// Results are cell-coarse: the caller performs the exact distance check.
func (g *Grid) Query(x, y, radius float64) []uint32 {
	g.scratch = g.scratch[:0]

	minCol := g.clampCol(int((x - radius) * g.invCellSize))
	maxCol := g.clampCol(int((x + radius) * g.invCellSize))
	minRow := g.clampRow(int((y - radius) * g.invCellSize))
	maxRow := g.clampRow(int((y + radius) * g.invCellSize))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			g.scratch = append(g.scratch, g.cells[row*g.cols+col]...)
		}
	}
	return g.scratch
}

func (g *Grid) cellIndex(x, y float64) int {
	col := g.clampCol(int(x * g.invCellSize))
	row := g.clampRow(int(y * g.invCellSize))
	return row*g.cols + col
}

func (g *Grid) clampCol(col int) int {
	if col < 0 {
		return 0
	}
	if col >= g.cols {
		return g.cols - 1
	}
	return col
}

func (g *Grid) clampRow(row int) int {
	if row < 0 {
		return 0
	}
	if row >= g.rows {
		return g.rows - 1
	}
	return row
}
