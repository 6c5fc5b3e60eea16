package sim

import "math"

// Grid is a uniform-cell spatial hash over agent positions. It is rebuilt
// wholesale every tick and reused across ticks to avoid reallocating cell
// storage. Cells carry a frame stamp instead of being cleared: a cell's
// contents are only trusted when its stamp matches the current frame, and a
// cell touched for the first time in a frame is truncated before use. That
// keeps rebuilds O(population) rather than O(cells).
type Grid struct {
	cellSize float32
	cols     int
	rows     int
	frame    uint64
	cells    []gridCell

	// offsets caches the (dc, dr) scan pattern per radius-in-cells,
	// indexed by radius. Only Rebuild grows it; QueryInto runs from
	// multiple workers at once and must not write.
	offsets [][]cellOffset
}

type gridCell struct {
	stamp   uint64
	indices []int32
}

type cellOffset struct {
	dc, dr int
}

// NewGrid creates an empty grid. Dimensions are set on the first Rebuild.
func NewGrid() *Grid {
	return &Grid{}
}

// Rebuild re-buckets every agent. cellSize should equal the perception
// radius so a radius-1 cell scan covers one neighborhood. Degenerate world
// dimensions or cell sizes are clamped to 1 so the grid stays finite.
func (g *Grid) Rebuild(agents []Agent, cellSize, worldW, worldH float32) {
	if cellSize < 1 {
		cellSize = 1
	}
	if worldW < 1 {
		worldW = 1
	}
	if worldH < 1 {
		worldH = 1
	}

	// +1 column/row of slack tolerates positions exactly on, or slightly
	// past, the far edge within the same tick.
	cols := int(math.Ceil(float64(worldW/cellSize))) + 1
	rows := int(math.Ceil(float64(worldH/cellSize))) + 1

	if cols != g.cols || rows != g.rows || cellSize != g.cellSize {
		g.cols = cols
		g.rows = rows
		g.cellSize = cellSize
		g.cells = make([]gridCell, cols*rows)
		g.frame = 0
	}

	// cellSize matches the query radius in the steering path, so the
	// radius-1 pattern covers the per-tick queries.
	g.ensureOffsets(1)

	g.frame++
	for i := range agents {
		idx := g.cellIndex(agents[i].Pos.X, agents[i].Pos.Y)
		c := &g.cells[idx]
		if c.stamp != g.frame {
			c.stamp = g.frame
			c.indices = c.indices[:0]
		}
		c.indices = append(c.indices, int32(i))
	}
}

// QueryInto appends the indices of all agents in cells within
// ceil(radius/cellSize) Chebyshev distance of (x, y) to dst and returns it.
// The result is a superset of the true within-radius set; callers filter by
// exact squared distance. Reuse dst across calls to avoid allocations.
func (g *Grid) QueryInto(dst []int32, x, y, radius float32) []int32 {
	if len(g.cells) == 0 {
		return dst
	}

	cellRadius := int(math.Ceil(float64(radius / g.cellSize)))
	col, row := g.cellCoords(x, y)

	for _, off := range g.offsetsFor(cellRadius) {
		c := col + off.dc
		r := row + off.dr
		if c < 0 || c >= g.cols || r < 0 || r >= g.rows {
			continue
		}
		cell := &g.cells[r*g.cols+c]
		if cell.stamp != g.frame {
			continue
		}
		dst = append(dst, cell.indices...)
	}
	return dst
}

// offsetsFor returns the square scan pattern for a cell radius: cached when
// Rebuild warmed it, freshly built otherwise. It never writes grid state.
func (g *Grid) offsetsFor(cellRadius int) []cellOffset {
	if cellRadius < 0 {
		cellRadius = 0
	}
	if cellRadius < len(g.offsets) && g.offsets[cellRadius] != nil {
		return g.offsets[cellRadius]
	}
	return scanPattern(cellRadius)
}

// ensureOffsets caches the scan pattern up to cellRadius. Serial only.
func (g *Grid) ensureOffsets(cellRadius int) {
	for len(g.offsets) <= cellRadius {
		g.offsets = append(g.offsets, nil)
	}
	if g.offsets[cellRadius] == nil {
		g.offsets[cellRadius] = scanPattern(cellRadius)
	}
}

func scanPattern(cellRadius int) []cellOffset {
	offs := make([]cellOffset, 0, (2*cellRadius+1)*(2*cellRadius+1))
	for dr := -cellRadius; dr <= cellRadius; dr++ {
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			offs = append(offs, cellOffset{dc: dc, dr: dr})
		}
	}
	return offs
}

// cellCoords maps a position to clamped cell coordinates. NaN positions
// land in cell (0, 0); a NaN upstream is a physics bug, not a grid bug.
func (g *Grid) cellCoords(x, y float32) (col, row int) {
	col = int(x / g.cellSize)
	row = int(y / g.cellSize)
	if !(col > 0) {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if !(row > 0) {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

func (g *Grid) cellIndex(x, y float32) int {
	col, row := g.cellCoords(x, y)
	return row*g.cols + col
}
