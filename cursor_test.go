package billpdf

import (
	"math"
	"testing"
)

func TestCursor(t *testing.T) {
	c := NewCursor(A4())
	if c.Page != 1 || c.Y != Margin {
		t.Fatalf("new cursor at page %d y %v", c.Page, c.Y)
	}

	c.MoveTo(700)
	if c.WouldOverflow(100) {
		t.Error("a block ending above the bottom margin should fit")
	}
	if !c.WouldOverflow(102) {
		t.Error("a block crossing the bottom margin should overflow")
	}
	if got, want := c.Remaining(), c.Sheet().Bottom()-700; got != want {
		t.Errorf("Remaining = %v, want %v", got, want)
	}

	c.Advance(50)
	if c.Y != 750 {
		t.Errorf("Y = %v after Advance, want 750", c.Y)
	}
	if c.atTop() {
		t.Error("first page is never at the continuation top")
	}

	c.breakPage()
	if c.Page != 2 || c.Y != Margin+ContinuationGap {
		t.Errorf("after break: page %d y %v", c.Page, c.Y)
	}
	if !c.atTop() {
		t.Error("cursor should be at the top after a break")
	}
}

func TestEnsureRejectsBadEstimates(t *testing.T) {
	p := &pager{cur: NewCursor(A4())}
	for _, h := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := p.ensure("test", h); err == nil {
			t.Errorf("ensure(%v) accepted", h)
		}
	}
}
