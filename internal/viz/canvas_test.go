package viz

import "testing"

// bounds scans the lit cells of a canvas and reports the extreme columns
// and rows, in cell coordinates.
func bounds(c *Canvas) (minCol, maxCol, minRow, maxRow int) {
	minCol, minRow = c.Width, c.Height
	maxCol, maxRow = -1, -1
	for row := range c.Grid {
		for col, r := range c.Grid[row] {
			if r == 0x2800 {
				continue
			}
			if col < minCol {
				minCol = col
			}
			if col > maxCol {
				maxCol = col
			}
			if row < minRow {
				minRow = row
			}
			if row > maxRow {
				maxRow = row
			}
		}
	}
	return
}

// TestCircleAndNeedleShareAspect draws a rim and horizontal needles of the
// same radius; the needle tips must reach the rim without overshooting the
// canvas, and the rim must span aspect*r horizontally for r vertically.
func TestCircleAndNeedleShareAspect(t *testing.T) {
	const w, h, r = 40, 20, 15
	cx, cy := w, h*2 // sub-pixel center

	rim := NewCanvas(w, h)
	rim.DrawCircle(cx, cy, r)
	minCol, maxCol, minRow, maxRow := bounds(rim)

	wantSpanCols := (2 * aspect * r) / 2 // sub-pixels to cells
	if got := maxCol - minCol; got < wantSpanCols-1 || got > wantSpanCols+1 {
		t.Errorf("expected rim to span about %d columns, got %d", wantSpanCols, got)
	}
	wantSpanRows := (2 * r) / 4
	if got := maxRow - minRow; got < wantSpanRows-1 || got > wantSpanRows+1 {
		t.Errorf("expected rim to span about %d rows, got %d", wantSpanRows, got)
	}

	needles := NewCanvas(w, h)
	needles.DrawNeedle(cx, cy, r, 90)
	needles.DrawNeedle(cx, cy, r, 270)
	nMinCol, nMaxCol, _, _ := bounds(needles)

	if nMaxCol > maxCol || nMinCol < minCol {
		t.Errorf("horizontal needles [%d, %d] overshoot the rim [%d, %d]",
			nMinCol, nMaxCol, minCol, maxCol)
	}
	if nMaxCol < maxCol-1 || nMinCol > minCol+1 {
		t.Errorf("horizontal needles [%d, %d] fall short of the rim [%d, %d]",
			nMinCol, nMaxCol, minCol, maxCol)
	}
}

// TestDialFitsCanvas renders a frame at the live view's dial geometry and
// checks nothing is clipped at the edges.
func TestDialFitsCanvas(t *testing.T) {
	c := NewCanvas(dialWidth, dialHeight)
	cw, ch := dialWidth*2, dialHeight*4
	cx, cy := cw/2, ch/2
	r := ch / 2
	if cw/4 < r {
		r = cw / 4
	}
	r -= 4

	c.DrawCircle(cx, cy, r)
	for deg := 0; deg < 360; deg += 15 {
		c.DrawNeedle(cx, cy, r-2, float64(deg))
	}

	minCol, maxCol, minRow, maxRow := bounds(c)
	if minCol <= 0 || maxCol >= dialWidth-1 || minRow <= 0 || maxRow >= dialHeight-1 {
		t.Errorf("dial touches the canvas border: cols [%d, %d] rows [%d, %d]",
			minCol, maxCol, minRow, maxRow)
	}
}
