package billpdf

import (
	"math"

	"github.com/lvillar/billpdf/canvas"
)

// pager runs the sections in order and owns every page break. Blocks that
// must not be split are measured first and moved to a new page as a whole.
type pager struct {
	s     canvas.Surface
	cur   *Cursor
	v     *View
	theme *Theme
	cfg   *config
}

func newPager(s canvas.Surface, v *View, cfg *config) *pager {
	w, h := s.PageSize()
	return &pager{
		s:     s,
		cur:   NewCursor(Sheet{Width: w, Height: h, Margin: Margin}),
		v:     v,
		theme: &cfg.theme,
		cfg:   cfg,
	}
}

// ensure starts a new page when a block of height h does not fit below the
// cursor. A block taller than a whole page is drawn where it is on a fresh
// page rather than breaking forever.
func (p *pager) ensure(section string, h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) || h < 0 {
		return &OverflowError{Section: section, Height: h}
	}
	if !p.cur.WouldOverflow(h) || p.cur.atTop() {
		return nil
	}
	p.s.AddPage()
	p.cur.breakPage()
	drawContinuation(p.s, p.cur, p.v, p.theme)
	return nil
}

// tableBreak is called by the table primitive after it has added a page.
func (p *pager) tableBreak(page int) float64 {
	p.cur.breakPage()
	p.cur.Page = page
	return drawContinuation(p.s, p.cur, p.v, p.theme)
}

func (p *pager) run() error {
	if err := p.theme.check(); err != nil {
		return err
	}
	c, cur, v, t := p.s, p.cur, p.v, p.theme
	s := cur.Sheet()

	if len(v.Letterhead) > 0 {
		if bg, ok := c.(canvas.Backgrounder); ok {
			if err := bg.SetBackground(v.Letterhead); err != nil {
				v.warn(&AssetError{Asset: "letterhead", Err: err})
			}
		}
	}

	c.AddPage()
	cur.MoveTo(drawHeader(c, cur, v, t))
	cur.MoveTo(drawParties(c, cur, v, t))

	if lines := descriptionLines(c, s, v); len(lines) > 0 {
		if err := p.ensure("description", descriptionHeight(lines, t)); err != nil {
			return err
		}
		cur.MoveTo(drawDescription(c, cur, lines, t))
	}

	if err := p.ensure("item table", tableLeadHeight(t)); err != nil {
		return err
	}
	y := drawSectionHeader(c, s, tableTitle(v), cur.Y, 12, t.Primary)
	finalY, err := c.DrawTable(itemTable(cur, v, t, y), p.tableBreak)
	if err != nil {
		return &RenderError{Op: "DrawTable", Err: err}
	}
	cur.Page = c.PageNo()
	cur.MoveTo(finalY)
	cur.Advance(20)

	words := wordsLines(c, s, v)
	if err := p.ensure("totals", totalsHeight(v, words, t)); err != nil {
		return err
	}
	cur.MoveTo(drawTotals(c, cur, v, words, t))

	switch d := v.Doc.(type) {
	case Estimate:
		f := measureEstimateFooter(c, s, d)
		if err := p.ensure("footer", f.height(t)); err != nil {
			return err
		}
		cur.MoveTo(drawEstimateFooter(c, cur, v, f, t))
	case Transaction:
		msg := messageLines(c, s, d)
		if err := p.ensure("footer", transactionFooterHeight(msg, t)); err != nil {
			return err
		}
		qr := p.cfg.paymentQR && d.PaymentMode == UPI && v.Profile.UPIID != "" && v.Totals.GrandTotal > 0
		cur.MoveTo(drawTransactionFooter(c, cur, v, msg, qr, t))
	}

	if p.cfg.referenceCode {
		if err := p.ensure("reference", referenceHeight); err != nil {
			return err
		}
		cur.MoveTo(drawReference(c, cur, v))
	}
	return nil
}
