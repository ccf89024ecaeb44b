package layout

import (
	"testing"

	"github.com/rmitchellscott/hass-render/internal/display"
)

type solveCase struct {
	mode display.Mode
	n    int
	w, h int
}

func validCases() []solveCase {
	var cases []solveCase
	for _, size := range [][2]int{{400, 200}, {160, 100}, {2000, 2000}, {333, 171}} {
		cases = append(cases, solveCase{display.ModeSingle, 1, size[0], size[1]})
	}
	for n := 1; n <= display.MultiMaxEntities; n++ {
		cases = append(cases,
			solveCase{display.ModeMulti, n, display.MultiWidth, MultiHeight(n)},
			solveCase{display.ModeMulti, n, 160, MinMultiHeight(n) + 100},
			solveCase{display.ModeMulti, n, 977, 1999},
		)
	}
	for n := 1; n <= display.FixedMaxEntities; n++ {
		cases = append(cases, solveCase{display.ModeFixed, n, display.FixedWidth, display.FixedHeight})
	}
	return cases
}

func TestRegionsTileContent(t *testing.T) {
	for _, tc := range validCases() {
		res := Solve(tc.mode, tc.n, tc.w, tc.h)

		if len(res.Regions) != tc.n {
			t.Fatalf("%v n=%d: got %d regions", tc.mode, tc.n, len(res.Regions))
		}
		if res.Content.Y < res.TitleBand {
			t.Errorf("%v n=%d: content starts inside the title band", tc.mode, tc.n)
		}
		canvas := Region{0, 0, tc.w, tc.h}
		if !res.Content.Within(canvas) {
			t.Errorf("%v n=%d: content %+v outside canvas", tc.mode, tc.n, res.Content)
		}

		cells := append(append([]Region{}, res.Regions...), res.Blank...)
		area := 0
		for i, a := range cells {
			if a.Empty() {
				t.Errorf("%v n=%d: cell %d is empty", tc.mode, tc.n, i)
			}
			if !a.Within(res.Content) {
				t.Errorf("%v n=%d: cell %d %+v outside content %+v", tc.mode, tc.n, i, a, res.Content)
			}
			for j := i + 1; j < len(cells); j++ {
				if a.Overlaps(cells[j]) {
					t.Errorf("%v n=%d: cells %d and %d overlap", tc.mode, tc.n, i, j)
				}
			}
			area += a.Area()
		}

		if got, want := area+gutterArea(tc.mode, res), res.Content.Area(); got != want {
			t.Errorf("%v n=%d %dx%d: cells plus gutters cover %d px, content is %d px",
				tc.mode, tc.n, tc.w, tc.h, got, want)
		}
	}
}

func gutterArea(mode display.Mode, res Result) int {
	switch mode {
	case display.ModeMulti:
		return res.Rows * res.Gap * res.Content.W
	case display.ModeFixed:
		v := (res.Cols - 1) * res.Gap * res.Content.H
		h := (res.Rows - 1) * res.Gap * res.Content.W
		return v + h - (res.Cols-1)*(res.Rows-1)*res.Gap*res.Gap
	}
	return 0
}

func TestMultiAutoHeight(t *testing.T) {
	h := MultiHeight(3)
	if h != MultiTitleBand+3*MultiRowHeight {
		t.Fatalf("MultiHeight(3) = %d", h)
	}

	res := Solve(display.ModeMulti, 3, display.MultiWidth, h)
	if res.TitleBand+3*MultiRowHeight != h {
		t.Errorf("title band %d + 3 rows != canvas height %d", res.TitleBand, h)
	}
	for i, r := range res.Regions {
		wantY := MultiTitleBand + i*MultiRowHeight
		if r.Y != wantY {
			t.Errorf("row %d at y=%d, want %d", i, r.Y, wantY)
		}
		if r.H != MultiRowHeight-MultiRowGap {
			t.Errorf("row %d height %d", i, r.H)
		}
	}
}

func TestMultiRowsKeepOrder(t *testing.T) {
	res := Solve(display.ModeMulti, 7, 500, 700)
	for i := 1; i < len(res.Regions); i++ {
		if res.Regions[i].Y <= res.Regions[i-1].Y {
			t.Fatalf("row %d is not below row %d", i, i-1)
		}
		if res.Regions[i].H != res.Regions[0].H {
			t.Fatalf("rows have unequal heights")
		}
	}
}

func TestFixedFiveItemsUseThreeByThree(t *testing.T) {
	res := Solve(display.ModeFixed, 5, display.FixedWidth, display.FixedHeight)

	if res.Cols != 3 || res.Rows != 3 {
		t.Fatalf("grid = %dx%d, want 3x3", res.Cols, res.Rows)
	}
	if len(res.Blank) != 4 {
		t.Fatalf("blank cells = %d, want 4", len(res.Blank))
	}

	// Row-major: three on the first row, two on the second.
	first := res.Regions[0]
	wantPos := [][2]int{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}}
	for i, pos := range wantPos {
		r := res.Regions[i]
		x := first.X + pos[0]*(first.W+res.Gap)
		y := first.Y + pos[1]*(first.H+res.Gap)
		if r.X != x || r.Y != y {
			t.Errorf("item %d at (%d,%d), want (%d,%d)", i, r.X, r.Y, x, y)
		}
	}
}

func TestGrid(t *testing.T) {
	tests := []struct{ n, cols, rows int }{
		{1, 1, 1}, {2, 2, 1}, {3, 2, 2}, {4, 2, 2},
		{5, 3, 3}, {9, 3, 3}, {10, 3, 5}, {15, 3, 5},
	}
	for _, tt := range tests {
		cols, rows := Grid(tt.n)
		if cols != tt.cols || rows != tt.rows {
			t.Errorf("Grid(%d) = %dx%d, want %dx%d", tt.n, cols, rows, tt.cols, tt.rows)
		}
	}
}

func TestSolvePanicsOnContractViolation(t *testing.T) {
	bad := []solveCase{
		{display.ModeSingle, 2, 400, 200},
		{display.ModeSingle, 1, 100, 200},
		{display.ModeMulti, 0, 500, 200},
		{display.ModeMulti, 11, 500, 600},
		{display.ModeMulti, 10, 500, 150},
		{display.ModeFixed, 16, 800, 480},
		{display.ModeFixed, 3, 640, 480},
	}
	for _, tc := range bad {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Solve(%v, %d, %d, %d) did not panic", tc.mode, tc.n, tc.w, tc.h)
				}
			}()
			Solve(tc.mode, tc.n, tc.w, tc.h)
		}()
	}
}

func TestCharBudget(t *testing.T) {
	if got := CharBudget(100, 9); got != 11 {
		t.Errorf("CharBudget(100, 9) = %d", got)
	}
	if got := CharBudget(-5, 9); got != 0 {
		t.Errorf("negative width budget = %d", got)
	}
	if got := CharBudget(100, 0); got != 0 {
		t.Errorf("zero advance budget = %d", got)
	}
}
