// Package layout computes the geometry of each render mode: the title band
// and one non-overlapping region per entity.
package layout

import (
	"fmt"
	"image"
	"math"

	"github.com/rmitchellscott/hass-render/internal/display"
)

// Single status card geometry.
const (
	SingleTitleBand = 40
	SingleMargin    = 8
)

// Multi status geometry. Rows are MultiRowHeight apart with MultiRowGap
// between cards.
const (
	MultiTitleBand  = 60
	MultiRowHeight  = 40
	MultiRowGap     = 5
	MultiSideMargin = 15
	MultiMinRow     = 20
)

// Fixed display geometry.
const (
	FixedTitleBand    = 80
	FixedSideMargin   = 20
	FixedBottomMargin = 20
	FixedGap          = 10
)

// Region is the rectangle assigned to one entity.
type Region struct {
	X, Y, W, H int
}

func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

func (r Region) Area() int {
	if r.Empty() {
		return 0
	}
	return r.W * r.H
}

func (r Region) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Overlaps reports whether the two regions share at least one pixel.
func (r Region) Overlaps(o Region) bool {
	return r.Rect().Overlaps(o.Rect())
}

// Within reports whether r lies entirely inside o.
func (r Region) Within(o Region) bool {
	return r.Rect().In(o.Rect())
}

// Inset shrinks the region by d on every side.
func (r Region) Inset(d int) Region {
	return Region{X: r.X + d, Y: r.Y + d, W: r.W - 2*d, H: r.H - 2*d}
}

// Result is the solved geometry of one render.
type Result struct {
	TitleBand int
	// Content is the area the regions and their gutters tile exactly.
	Content Region
	Regions []Region
	// Blank holds unused trailing grid cells on the fixed display.
	Blank []Region
	Cols  int
	Rows  int
	// Gap is the gutter between adjacent regions.
	Gap int
}

// Solve lays out n items on a w x h canvas. Arguments outside the bounds
// checked by Validate are a programming error and panic.
func Solve(mode display.Mode, n, w, h int) Result {
	if err := Validate(mode, n, w, h); err != nil {
		panic(fmt.Sprintf("layout: %v", err))
	}
	switch mode {
	case display.ModeSingle:
		return solveSingle(w, h)
	case display.ModeMulti:
		return solveMulti(n, w, h)
	default:
		return solveFixed(n)
	}
}

// Validate checks the solver's preconditions.
func Validate(mode display.Mode, n, w, h int) error {
	if n < 1 || n > display.MaxEntities(mode) {
		return fmt.Errorf("%s: entity count %d outside 1..%d", mode, n, display.MaxEntities(mode))
	}
	switch mode {
	case display.ModeSingle:
		return checkSize(w, h, display.MinHeight)
	case display.ModeMulti:
		return checkSize(w, h, MinMultiHeight(n))
	case display.ModeFixed:
		if w != display.FixedWidth || h != display.FixedHeight {
			return fmt.Errorf("%s: canvas must be %dx%d, got %dx%d", mode, display.FixedWidth, display.FixedHeight, w, h)
		}
		return nil
	}
	return fmt.Errorf("unknown mode %v", mode)
}

func checkSize(w, h, minHeight int) error {
	if w < display.MinWidth || w > display.MaxWidth {
		return fmt.Errorf("width %d outside %d..%d", w, display.MinWidth, display.MaxWidth)
	}
	minHeight = max(minHeight, display.MinHeight)
	if h < minHeight || h > display.MaxHeight {
		return fmt.Errorf("height %d outside %d..%d", h, minHeight, display.MaxHeight)
	}
	return nil
}

// MultiHeight is the canvas height of a multi status render with n rows when
// the caller gives none.
func MultiHeight(n int) int {
	return MultiTitleBand + n*MultiRowHeight
}

// MinMultiHeight is the smallest explicit height that still fits n rows.
func MinMultiHeight(n int) int {
	return MultiTitleBand + n*MultiMinRow
}

func solveSingle(w, h int) Result {
	content := Region{
		X: SingleMargin,
		Y: SingleTitleBand + SingleMargin,
		W: w - 2*SingleMargin,
		H: h - SingleTitleBand - 2*SingleMargin,
	}
	return Result{
		TitleBand: SingleTitleBand,
		Content:   content,
		Regions:   []Region{content},
		Cols:      1,
		Rows:      1,
	}
}

// Rows split the content height evenly. Pixels left over by the division
// fall below the content area.
func solveMulti(n, w, h int) Result {
	pitch := (h - MultiTitleBand) / n
	content := Region{
		X: MultiSideMargin,
		Y: MultiTitleBand,
		W: w - 2*MultiSideMargin,
		H: pitch * n,
	}

	regions := make([]Region, n)
	for i := range regions {
		regions[i] = Region{
			X: content.X,
			Y: content.Y + i*pitch,
			W: content.W,
			H: pitch - MultiRowGap,
		}
	}
	return Result{
		TitleBand: MultiTitleBand,
		Content:   content,
		Regions:   regions,
		Cols:      1,
		Rows:      n,
		Gap:       MultiRowGap,
	}
}

// Grid returns the fixed display grid for n items.
func Grid(n int) (cols, rows int) {
	switch {
	case n <= 1:
		return 1, 1
	case n == 2:
		return 2, 1
	case n <= 4:
		return 2, 2
	case n <= 9:
		return 3, 3
	default:
		return 3, 5
	}
}

// Cells are equal sized. Leftover pixels from the division are split
// between the outer margins so the grid stays centred.
func solveFixed(n int) Result {
	cols, rows := Grid(n)
	availW := display.FixedWidth - 2*FixedSideMargin
	availH := display.FixedHeight - FixedTitleBand - FixedBottomMargin

	cellW := (availW - (cols-1)*FixedGap) / cols
	cellH := (availH - (rows-1)*FixedGap) / rows
	usedW := cols*cellW + (cols-1)*FixedGap
	usedH := rows*cellH + (rows-1)*FixedGap

	content := Region{
		X: FixedSideMargin + (availW-usedW)/2,
		Y: FixedTitleBand + (availH-usedH)/2,
		W: usedW,
		H: usedH,
	}

	res := Result{
		TitleBand: FixedTitleBand,
		Content:   content,
		Cols:      cols,
		Rows:      rows,
		Gap:       FixedGap,
	}
	for i := 0; i < cols*rows; i++ {
		col, row := i%cols, i/cols
		cell := Region{
			X: content.X + col*(cellW+FixedGap),
			Y: content.Y + row*(cellH+FixedGap),
			W: cellW,
			H: cellH,
		}
		if i < n {
			res.Regions = append(res.Regions, cell)
		} else {
			res.Blank = append(res.Blank, cell)
		}
	}
	return res
}

// CharBudget is the number of glyphs of the given advance that fit in width
// pixels.
func CharBudget(width int, advance float64) int {
	if width <= 0 || advance <= 0 {
		return 0
	}
	return int(math.Floor(float64(width) / advance))
}
