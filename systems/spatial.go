package systems

import "github.com/pthm-cable/folio/components"

// Neighbor holds a nearby particle with precomputed spatial data.
type Neighbor struct {
	I      int     // index into the snapshot
	DX, DY float32 // delta from query origin
	DistSq float32 // squared distance (avoid sqrt in hot path)
}

// SpatialGrid buckets particle indices by cell for radius queries. Points
// outside the covered area land in the nearest edge cell.
type SpatialGrid struct {
	cellSize float32
	cols     int
	rows     int
	cells    [][]int
}

// NewSpatialGrid creates a grid covering width x height.
func NewSpatialGrid(width, height, cellSize float32) *SpatialGrid {
	if cellSize < 1 {
		cellSize = 1
	}
	cols := int(max(width, 0)/cellSize) + 1
	rows := int(max(height, 0)/cellSize) + 1

	cells := make([][]int, cols*rows)
	for i := range cells {
		cells[i] = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    cells,
	}
}

// Clear removes all particles from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds particle i at the given position.
func (g *SpatialGrid) Insert(i int, x, y float32) {
	col, row := g.cell(x, y)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], i)
}

// Build replaces the grid contents with every particle of snap.
func (g *SpatialGrid) Build(snap []components.Position) {
	g.Clear()
	for i, p := range snap {
		g.Insert(i, p.X, p.Y)
	}
}

// QueryRadiusInto appends every particle of snap within radius of (x, y),
// except exclude, to dst. The grid must have been built from snap.
func (g *SpatialGrid) QueryRadiusInto(dst []Neighbor, snap []components.Position, x, y, radius float32, exclude int) []Neighbor {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cell(x, y)
	radiusSq := radius * radius

	for row := max(centerRow-cellRadius, 0); row <= min(centerRow+cellRadius, g.rows-1); row++ {
		for col := max(centerCol-cellRadius, 0); col <= min(centerCol+cellRadius, g.cols-1); col++ {
			for _, j := range g.cells[row*g.cols+col] {
				if j == exclude {
					continue
				}
				dx := snap[j].X - x
				dy := snap[j].Y - y
				distSq := dx*dx + dy*dy
				if distSq <= radiusSq {
					dst = append(dst, Neighbor{I: j, DX: dx, DY: dy, DistSq: distSq})
				}
			}
		}
	}
	return dst
}

// SeparationPass is the grid-accelerated equivalent of the package-level
// SeparationPass. It rebuilds the grid from snap.
func (g *SpatialGrid) SeparationPass(snap []components.Position, p Params, out []components.Velocity, scratch []Neighbor) ([]components.Velocity, []Neighbor) {
	if cap(out) < len(snap) {
		out = make([]components.Velocity, len(snap))
	}
	out = out[:len(snap)]
	g.Build(snap)

	for i, self := range snap {
		var sx, sy float32
		scratch = g.QueryRadiusInto(scratch[:0], snap, self.X, self.Y, p.SeparationRadius, i)
		for _, n := range scratch {
			ndx, ndy := -n.DX, -n.DY
			ndist := velocityMagnitude(ndx, ndy)
			if ndist <= 0 || ndist >= p.SeparationRadius {
				continue
			}
			force := (1 - ndist/p.SeparationRadius) * p.SeparationStrength
			sx += ndx / ndist * force
			sy += ndy / ndist * force
		}
		out[i] = components.Velocity{X: sx, Y: sy}
	}
	return out, scratch
}

// cell returns the clamped cell coordinates of a position.
func (g *SpatialGrid) cell(x, y float32) (col, row int) {
	col = int(x / g.cellSize)
	row = int(y / g.cellSize)
	if x < 0 {
		col = 0
	}
	if y < 0 {
		row = 0
	}
	return min(col, g.cols-1), min(row, g.rows-1)
}
