package game

type Cell uint8

const (
	CellEmpty Cell = iota
	CellPlayerOne
	CellPlayerTwo
)

func cellFor(p PlayerID) Cell {
	if p == PlayerOne {
		return CellPlayerOne
	}
	return CellPlayerTwo
}

// Owner maps a cell to its player, NoPlayer when empty.
func (c Cell) Owner() PlayerID {
	switch c {
	case CellPlayerOne:
		return PlayerOne
	case CellPlayerTwo:
		return PlayerTwo
	default:
		return NoPlayer
	}
}

type Directions [4][2]int

var (
	Orthogonal = Directions{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	Diagonal   = Directions{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// Board is a square grid stored row-major. Occupied cells never change.
type Board struct {
	size  int
	cells []Cell
}

func NewBoard(size int) *Board {
	return &Board{size: size, cells: make([]Cell, size*size)}
}

func (b *Board) Size() int {
	return b.size
}

func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.size && y < b.size
}

func (b *Board) At(x, y int) Cell {
	return b.cells[b.index(x, y)]
}

func (b *Board) IsEmpty(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) == CellEmpty
}

func (b *Board) occupied(x, y int) bool {
	return b.InBounds(x, y) && b.At(x, y) != CellEmpty
}

func (b *Board) HasOccupiedNeighbor(x, y int, dirs Directions) bool {
	for _, d := range dirs {
		if b.occupied(x+d[0], y+d[1]) {
			return true
		}
	}
	return false
}

func (b *Board) CountOrthogonalNeighbors(x, y int) int {
	n := 0
	for _, d := range Orthogonal {
		if b.occupied(x+d[0], y+d[1]) {
			n++
		}
	}
	return n
}

// Points is what a placement at (x,y) would score: one base point plus one per
// occupied orthogonal neighbor.
func (b *Board) Points(x, y int) int {
	return 1 + b.CountOrthogonalNeighbors(x, y)
}

// Place claims an empty cell for p and returns the points scored.
func (b *Board) Place(p PlayerID, x, y int) (int, error) {
	if !b.InBounds(x, y) {
		return 0, ErrOutOfBounds
	}
	if b.At(x, y) != CellEmpty {
		return 0, ErrOccupied
	}
	pts := b.Points(x, y)
	b.cells[b.index(x, y)] = cellFor(p)
	return pts, nil
}

func (b *Board) Clone() *Board {
	clone := &Board{size: b.size, cells: make([]Cell, len(b.cells))}
	copy(clone.cells, b.cells)
	return clone
}

// CountEmpty returns the number of unclaimed cells.
func (b *Board) CountEmpty() int {
	n := 0
	for _, c := range b.cells {
		if c == CellEmpty {
			n++
		}
	}
	return n
}

// Rows exports the grid as Rows()[y][x] with 0 empty, 1 or 2 for the owner.
func (b *Board) Rows() [][]int {
	rows := make([][]int, b.size)
	for y := range rows {
		rows[y] = make([]int, b.size)
		for x := range rows[y] {
			rows[y][x] = int(b.At(x, y).Owner())
		}
	}
	return rows
}

// runThrough counts the contiguous occupied cells along (dx,dy) through
// (x,y), counting (x,y) itself as occupied.
func (b *Board) runThrough(x, y, dx, dy int) int {
	n := 1
	for cx, cy := x+dx, y+dy; b.occupied(cx, cy); cx, cy = cx+dx, cy+dy {
		n++
	}
	for cx, cy := x-dx, y-dy; b.occupied(cx, cy); cx, cy = cx-dx, cy-dy {
		n++
	}
	return n
}

func (b *Board) index(x, y int) int {
	return y*b.size + x
}
