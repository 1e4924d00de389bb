package backend

import (
	"github.com/rivo/uniseg"
)

// DefaultTabWidth is the tab stop interval used when none is configured.
const DefaultTabWidth = 8

// cell is one column of the text area. A wide rune occupies its own cell
// plus continuation cells to its right.
type cell struct {
	r    rune
	comb []rune
	cont bool
}

// mark records where a rune was placed so it can be erased again.
type mark struct {
	x, y int
	w    int  // columns occupied; 0 for newline
	comb bool // combining rune attached to the cell left of x
}

// View is the grid model of the text area. It tracks the cursor the way a
// terminal does: echoed runes advance it, newlines and full rows move it
// down, and running past the last row scrolls the grid up. Rows changed
// since the last Flush are tracked so only those are repainted.
type View struct {
	width, height int
	tabWidth      int

	cells [][]cell
	dirty []bool

	x, y  int
	marks []mark
}

// NewView creates a view of the given text area dimensions.
func NewView(width, height, tabWidth int) *View {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	v := &View{tabWidth: tabWidth}
	v.Resize(width, height)
	return v
}

// Resize discards the content and reallocates the grid.
func (v *View) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.Reset()
}

// Reset clears all content and moves the cursor home.
func (v *View) Reset() {
	v.cells = make([][]cell, v.height)
	for y := range v.cells {
		v.cells[y] = make([]cell, v.width)
	}
	v.dirty = make([]bool, v.height)
	v.markAllDirty()
	v.x, v.y = 0, 0
	v.marks = v.marks[:0]
}

// Size returns the text area dimensions.
func (v *View) Size() (width, height int) {
	return v.width, v.height
}

// Cursor returns the on-screen cursor position. A cursor parked past the
// last column after filling a row is clamped to that column.
func (v *View) Cursor() (x, y int) {
	return min(v.x, v.width-1), v.y
}

// Put echoes r at the cursor.
func (v *View) Put(r rune) {
	switch {
	case r == '\n':
		v.marks = append(v.marks, mark{x: v.x, y: v.y})
		v.newline()
		return
	case r == '\t':
		v.putTab()
		return
	}

	w := runeWidth(r)
	if w == 0 {
		if ox, ok := v.owner(v.x-1, v.y); ok {
			c := &v.cells[v.y][ox]
			c.comb = append(c.comb, r)
			v.marks = append(v.marks, mark{x: v.x, y: v.y, comb: true})
			v.dirty[v.y] = true
			return
		}
		// Nothing to combine with; give the mark a column of its own.
		w = 1
	}
	if r < 0x20 || r == 0x7f {
		r = '?'
	}
	v.putCell(r, w)
}

func (v *View) putCell(r rune, w int) {
	w = min(w, v.width)
	if v.x+w > v.width {
		v.newline()
	}

	v.marks = append(v.marks, mark{x: v.x, y: v.y, w: w})
	row := v.cells[v.y]
	row[v.x] = cell{r: r}
	for i := 1; i < w; i++ {
		row[v.x+i] = cell{cont: true}
	}
	v.dirty[v.y] = true
	v.x += w
}

// Erase removes the most recently echoed rune that is still on screen and
// moves the cursor back to where it was placed. It returns false when no
// such rune remains, for example after it scrolled out of view.
func (v *View) Erase() bool {
	if len(v.marks) == 0 {
		return false
	}
	m := v.marks[len(v.marks)-1]
	v.marks = v.marks[:len(v.marks)-1]

	if m.comb {
		if ox, ok := v.owner(m.x-1, m.y); ok {
			c := &v.cells[m.y][ox]
			if n := len(c.comb); n > 0 {
				c.comb = c.comb[:n-1]
			}
		}
	} else {
		row := v.cells[m.y]
		for i := 0; i < m.w && m.x+i < v.width; i++ {
			row[m.x+i] = cell{}
		}
	}

	v.x, v.y = m.x, m.y
	v.dirty[m.y] = true
	return true
}

// Load replaces the content with text as if each rune had been echoed.
func (v *View) Load(text string) {
	v.Reset()
	for _, r := range text {
		v.Put(r)
	}
}

// content returns what to paint at column x of row y. Continuation cells
// of wide runes are reported with ok false.
func (v *View) content(x, y int) (r rune, comb []rune, ok bool) {
	c := v.cells[y][x]
	if c.cont {
		return 0, nil, false
	}
	if c.r == 0 {
		return ' ', nil, true
	}
	return c.r, c.comb, true
}

// Flush calls paint for each row changed since the last Flush.
func (v *View) Flush(paint func(y int)) {
	for y, d := range v.dirty {
		if d {
			paint(y)
			v.dirty[y] = false
		}
	}
}

// RowText returns the visible text of row y without trailing blanks.
func (v *View) RowText(y int) string {
	var out []rune
	end := 0
	for x := 0; x < v.width; x++ {
		c := v.cells[y][x]
		if c.cont {
			continue
		}
		if c.r == 0 {
			out = append(out, ' ')
			continue
		}
		out = append(out, c.r)
		out = append(out, c.comb...)
		end = len(out)
	}
	return string(out[:end])
}

func (v *View) putTab() {
	w := v.tabWidth - v.x%v.tabWidth
	if v.x >= v.width {
		v.newline()
		w = v.tabWidth
	}
	w = min(w, v.width-v.x)

	v.marks = append(v.marks, mark{x: v.x, y: v.y, w: w})
	row := v.cells[v.y]
	for i := 0; i < w; i++ {
		row[v.x+i] = cell{r: ' '}
	}
	v.dirty[v.y] = true
	v.x += w
}

// owner returns the column of the cell that owns column x of row y,
// stepping left over continuation cells.
func (v *View) owner(x, y int) (int, bool) {
	if x >= v.width {
		x = v.width - 1
	}
	for x >= 0 && v.cells[y][x].cont {
		x--
	}
	if x < 0 || v.cells[y][x].r == 0 {
		return 0, false
	}
	return x, true
}

func (v *View) newline() {
	v.x = 0
	v.y++
	if v.y >= v.height {
		v.scroll()
	}
}

// scroll moves every row up by one and forgets marks for the row that
// left the screen.
func (v *View) scroll() {
	copy(v.cells, v.cells[1:])
	v.cells[v.height-1] = make([]cell, v.width)
	v.y = v.height - 1

	drop := 0
	for i := range v.marks {
		v.marks[i].y--
		if v.marks[i].y < 0 {
			drop = i + 1
		}
	}
	if drop > 0 {
		v.marks = append(v.marks[:0], v.marks[drop:]...)
	}
	v.markAllDirty()
}

func (v *View) markAllDirty() {
	for y := range v.dirty {
		v.dirty[y] = true
	}
}

// runeWidth returns the number of columns r occupies. Control characters
// report width 1 since they are shown as a placeholder.
func runeWidth(r rune) int {
	if r < 0x20 || r == 0x7f {
		return 1
	}
	return uniseg.StringWidth(string(r))
}
