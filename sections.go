package billpdf

import (
	"fmt"
	"math"
	"net/url"

	"github.com/lvillar/billpdf/canvas"
)

// Fixed geometry of the sections.
const (
	bodySize    = 10.0
	detailStep  = 15.0 // single-line rows in the header and parties
	summaryStep = 18.0 // totals rows

	logoW, logoH = 80.0, 40.0

	SignatureWidth  = 150.0
	SignatureHeight = 85.0 // constant whatever the content

	qrSize = 44.0

	referenceW, referenceH = 160.0, 40.0
)

// Item table geometry.
var (
	itemHead    = []string{"Sl.No", "Description", "Qty", "Unit Price", "Total"}
	itemColumns = []canvas.Column{
		{Width: 45, Align: canvas.AlignCenter},
		{Align: canvas.AlignLeft},
		{Width: 40, Align: canvas.AlignCenter},
		{Width: 80, Align: canvas.AlignRight},
		{Width: 80, Align: canvas.AlignRight},
	}
)

const (
	cellPadding  = 8.0
	minRowHeight = 20.0
)

func tableStyle(t *Theme) canvas.TableStyle {
	return canvas.TableStyle{
		FontSize:     bodySize,
		LineHeight:   t.LineHeight,
		CellPadding:  cellPadding,
		MinRowHeight: minRowHeight,
		HeadFill:     t.HeadFill,
		HeadText:     t.Text,
		BodyText:     t.Text,
		Border:       t.Border,
	}
}

// drawHeader draws the first page header: document label, optional logo on
// the right and the number and date lines.
func drawHeader(c canvas.Canvas, cur *Cursor, v *View, t *Theme) float64 {
	s := cur.Sheet()
	m := s.Margin
	y := cur.Y

	c.SetFont(canvas.Bold, 24)
	c.SetTextColor(t.Primary)
	c.Text(m, y, v.DocType, canvas.AlignLeft)

	if v.Logo != nil {
		logoY := m - 10
		if err := c.Image(*v.Logo, s.Width-m-logoW, logoY, logoW, logoH); err != nil {
			v.warn(&AssetError{Asset: "logo", Err: err})
		} else {
			y = math.Max(y, logoY+logoH)
		}
	}
	if y > m {
		y += 20
	} else {
		y = m + 30
	}

	c.SetFont(canvas.Regular, bodySize)
	c.SetTextColor(t.Text)
	switch v.Doc.(type) {
	case Estimate:
		c.Text(m, y, "Quotation No: "+v.Number, canvas.AlignLeft)
		y += detailStep
		c.Text(m, y, "Date: "+v.Date, canvas.AlignLeft)
		y += detailStep
		c.Text(m, y, "Valid Until: "+v.ValidUntil, canvas.AlignLeft)
	case Transaction:
		c.Text(m, y, v.Label+" No: "+v.Number, canvas.AlignLeft)
		y += detailStep
		c.Text(m, y, "Date: "+v.Date, canvas.AlignLeft)
	}
	return y + 30
}

// drawContinuation draws the condensed banner at the top of every page
// after the first.
func drawContinuation(c canvas.Canvas, cur *Cursor, v *View, t *Theme) float64 {
	m := cur.Sheet().Margin
	c.SetFont(canvas.Regular, 14)
	c.SetTextColor(t.Light)
	c.Text(m, m/2, fmt.Sprintf("%s - %s (Cont.)", v.DocType, v.Number), canvas.AlignLeft)
	c.SetFont(canvas.Regular, bodySize)
	c.SetTextColor(t.Text)
	return cur.Sheet().Top()
}

type entry struct {
	text string
	bold bool
	wrap float64 // wrap width, 0 for a single line
}

// drawColumn draws entries top down and returns the baseline of the last
// line drawn.
func drawColumn(c canvas.Canvas, x, y, lineHeight float64, entries []entry) float64 {
	last := y
	for _, e := range entries {
		if e.bold {
			c.SetFont(canvas.Bold, bodySize)
		} else {
			c.SetFont(canvas.Regular, bodySize)
		}
		if e.wrap > 0 {
			lines := c.WrapText(e.text, e.wrap)
			if len(lines) == 0 {
				continue
			}
			drawLines(c, lines, x, y, lineHeight, canvas.AlignLeft)
			last = y + float64(len(lines)-1)*lineHeight
			y += float64(len(lines)) * lineHeight
			continue
		}
		c.Text(x, y, e.text, canvas.AlignLeft)
		last = y
		y += detailStep
	}
	return last
}

func drawLines(c canvas.Canvas, lines []string, x, y, lineHeight float64, align canvas.Align) {
	for i, l := range lines {
		c.Text(x, y+float64(i)*lineHeight, l, align)
	}
}

func or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// drawParties draws the From and To columns side by side and advances past
// the taller one.
func drawParties(c canvas.Canvas, cur *Cursor, v *View, t *Theme) float64 {
	s := cur.Sheet()
	m, w := s.Margin, s.Width
	p := v.Profile
	c.SetTextColor(t.Text)

	from := []entry{
		{text: "From:", bold: true},
		{text: or(p.Name, "Your Company")},
	}
	if p.Address != "" {
		from = append(from, entry{text: p.Address, wrap: w/2 - m})
	}
	if p.TaxID != "" {
		from = append(from, entry{text: v.TaxIDLabel + ": " + p.TaxID})
	}
	from = append(from, entry{text: "Phone: " + p.Phone}, entry{text: "Email: " + p.Email})
	if p.Website != "" {
		from = append(from, entry{text: "Website: " + p.Website})
	}

	to := []entry{{text: "To:", bold: true}}
	switch d := v.Doc.(type) {
	case Estimate:
		cl := d.Client
		to = append(to, entry{text: or(cl.Name, "Client Name")})
		if cl.ContactPerson != "" {
			to = append(to, entry{text: "Attn: " + cl.ContactPerson})
		}
		if cl.Address != "" {
			to = append(to, entry{text: cl.Address, wrap: w/2 - m*1.5})
		}
		to = append(to, entry{text: "Phone: " + cl.Phone}, entry{text: "Email: " + cl.Email})
	case Transaction:
		to = append(to,
			entry{text: or(d.Customer.Name, "Customer Name")},
			entry{text: "Contact: " + d.Customer.Phone},
		)
	}

	fromY := drawColumn(c, m, cur.Y, t.LineHeight, from)
	toY := drawColumn(c, w/2+20, cur.Y, t.LineHeight, to)
	return math.Max(fromY, toY) + 30
}

// drawSectionHeader draws a bold title with a full-width rule just below it.
func drawSectionHeader(c canvas.Canvas, s Sheet, text string, y, size float64, col canvas.Color) float64 {
	c.SetFont(canvas.Bold, size)
	c.SetTextColor(col)
	c.Text(s.Margin, y, text, canvas.AlignLeft)
	c.SetDrawColor(col)
	c.Line(s.Margin, y+2, s.Width-s.Margin, y+2)
	return y + 15
}

const sectionHeaderHeight = 15.0

// descriptionLines wraps the project description, or returns nil when the
// document has none.
func descriptionLines(c canvas.Canvas, s Sheet, v *View) []string {
	d, ok := v.Doc.(Estimate)
	if !ok || d.ProjectDescription == "" {
		return nil
	}
	c.SetFont(canvas.Regular, bodySize)
	return c.WrapText(d.ProjectDescription, s.ContentWidth())
}

func descriptionHeight(lines []string, t *Theme) float64 {
	return sectionHeaderHeight + float64(len(lines))*t.LineHeight + 20
}

func drawDescription(c canvas.Canvas, cur *Cursor, lines []string, t *Theme) float64 {
	s := cur.Sheet()
	y := drawSectionHeader(c, s, "Project Description / Purpose", cur.Y, 12, t.Primary)
	c.SetFont(canvas.Regular, bodySize)
	c.SetTextColor(t.Text)
	drawLines(c, lines, s.Margin, y, t.LineHeight, canvas.AlignLeft)
	return y + float64(len(lines))*t.LineHeight + 20
}

func tableTitle(v *View) string {
	switch v.Doc.(type) {
	case Estimate:
		return "Cost Estimate"
	}
	return "Details"
}

// tableLeadHeight keeps the title, the head and the first row together.
func tableLeadHeight(t *Theme) float64 {
	row := math.Max(minRowHeight, t.LineHeight+2*cellPadding)
	return sectionHeaderHeight + 2*row
}

func itemTable(cur *Cursor, v *View, t *Theme, y float64) canvas.Table {
	s := cur.Sheet()
	rows := make([][]string, len(v.Items))
	for i, it := range v.Items {
		rows[i] = []string{
			fmt.Sprint(i + 1),
			or(it.Description, "-"),
			fmt.Sprint(it.Quantity),
			v.Money(it.Price),
			v.Money(it.Total()),
		}
	}
	return canvas.Table{
		X:       s.Margin,
		Y:       y,
		Width:   s.ContentWidth(),
		Bottom:  s.Bottom(),
		Head:    itemHead,
		Rows:    rows,
		Columns: itemColumns,
		Style:   tableStyle(t),
	}
}

type summaryRow struct {
	label, value string
}

func summaryRows(v *View) (rows []summaryRow, total summaryRow) {
	tt := v.Totals
	rows = append(rows, summaryRow{"Subtotal", v.Money(tt.Subtotal)})
	if tt.Discount > 0 {
		rows = append(rows, summaryRow{"Discount", "- " + v.Money(tt.Discount)})
	}
	switch v.Doc.(type) {
	case Estimate:
		rows = append(rows,
			summaryRow{"Discounted Subtotal", v.Money(tt.DiscountedSubtotal)},
			summaryRow{fmt.Sprintf("%s (%s%%)", v.TaxLabel, formatPercent(tt.TaxPercentage)), "+ " + v.Money(tt.Tax)},
		)
		total = summaryRow{"Total Payable", v.Money(tt.GrandTotal)}
	case Transaction:
		total = summaryRow{"Total", v.Money(tt.GrandTotal)}
	}
	return rows, total
}

func wordsLines(c canvas.Canvas, s Sheet, v *View) []string {
	c.SetFont(canvas.Regular, 9)
	return c.WrapText(v.AmountInWords, s.Width/2-s.Margin)
}

func totalsHeight(v *View, words []string, t *Theme) float64 {
	rows, _ := summaryRows(v)
	return float64(len(rows))*summaryStep + 5 + 10 + summaryStep + float64(len(words))*t.LineHeight + 20
}

// drawTotals draws the summary rows on the right half, the rule, the bold
// grand total and the amount in words.
func drawTotals(c canvas.Canvas, cur *Cursor, v *View, words []string, t *Theme) float64 {
	s := cur.Sheet()
	x, right := s.Width/2, s.Width-s.Margin
	y := cur.Y

	row := func(r summaryRow) {
		c.Text(x, y, r.label, canvas.AlignLeft)
		c.Text(right, y, r.value, canvas.AlignRight)
		y += summaryStep
	}

	rows, total := summaryRows(v)
	c.SetFont(canvas.Regular, bodySize)
	c.SetTextColor(t.Text)
	for _, r := range rows {
		row(r)
	}

	y += 5
	c.SetDrawColor(t.Light)
	c.Line(x, y, right, y)
	y += 10

	c.SetFont(canvas.Bold, 12)
	row(total)

	c.SetFont(canvas.Regular, 9)
	drawLines(c, words, x, y, t.LineHeight, canvas.AlignLeft)
	return y + float64(len(words))*t.LineHeight + 20
}

// drawSignature draws the signature image, or a dotted rule without one,
// and the signatory below it. The block is always SignatureHeight tall.
func drawSignature(c canvas.Canvas, x, y float64, v *View, t *Theme) float64 {
	rule := v.Signature == nil
	if v.Signature != nil {
		if err := c.Image(*v.Signature, x, y, SignatureWidth, 40); err != nil {
			v.warn(&AssetError{Asset: "signature", Err: err})
			rule = true
		}
	}
	if rule {
		c.SetDrawColor(t.Light)
		c.SetLineDash([]float64{1, 2})
		c.Line(x, y+40, x+SignatureWidth, y+40)
		c.SetLineDash(nil)
	}

	sig := v.Profile.Signatory
	c.SetTextColor(t.Text)
	c.SetFont(canvas.Bold, bodySize)
	c.Text(x+SignatureWidth/2, y+55, "("+or(sig.Name, "Authorized Signatory")+")", canvas.AlignCenter)
	c.SetFont(canvas.Regular, 8)
	c.Text(x+SignatureWidth/2, y+65, sig.Title, canvas.AlignCenter)
	return y + SignatureHeight
}

// estimateFooter is the closing note, terms and signature block measured
// up front so it moves to a new page as a whole.
type estimateFooter struct {
	closing []string
	terms   []string
}

func measureEstimateFooter(c canvas.Canvas, s Sheet, d Estimate) estimateFooter {
	var f estimateFooter
	if d.ClosingNote != "" {
		c.SetFont(canvas.Bold, bodySize)
		f.closing = c.WrapText(d.ClosingNote, s.Width*0.8)
	}
	if d.Terms != "" {
		c.SetFont(canvas.Regular, 8)
		f.terms = c.WrapText(d.Terms, s.Width/2-s.Margin)
	}
	return f
}

func (f estimateFooter) closingHeight(t *Theme) float64 {
	if len(f.closing) == 0 {
		return 0
	}
	return float64(len(f.closing))*t.LineHeight + 20
}

func (f estimateFooter) termsHeight(t *Theme) float64 {
	return float64(len(f.terms))*t.SmallLineHeight + 30
}

func (f estimateFooter) height(t *Theme) float64 {
	return f.closingHeight(t) + math.Max(f.termsHeight(t), SignatureHeight) + 30
}

// drawEstimateFooter draws the centred closing note, then the terms on the
// left beside the signature on the right.
func drawEstimateFooter(c canvas.Canvas, cur *Cursor, v *View, f estimateFooter, t *Theme) float64 {
	s := cur.Sheet()
	y := cur.Y

	if len(f.closing) > 0 {
		c.SetFont(canvas.Bold, bodySize)
		c.SetTextColor(t.Text)
		drawLines(c, f.closing, s.Width/2, y, t.LineHeight, canvas.AlignCenter)
		y += f.closingHeight(t)
	}

	if len(f.terms) > 0 {
		c.SetFont(canvas.Bold, bodySize)
		c.SetTextColor(t.Text)
		c.Text(s.Margin, y, "Terms & Conditions", canvas.AlignLeft)
		c.SetFont(canvas.Regular, 8)
		c.SetTextColor(t.Light)
		drawLines(c, f.terms, s.Margin, y+15, t.SmallLineHeight, canvas.AlignLeft)
	}

	drawSignature(c, s.Width-s.Margin-SignatureWidth, y, v, t)
	return y + math.Max(f.termsHeight(t), SignatureHeight) + 30
}

func signatureX(s Sheet) float64 { return s.Width - s.Margin - SignatureWidth }

func messageLines(c canvas.Canvas, s Sheet, d Transaction) []string {
	if d.BottomMessage == "" {
		return nil
	}
	c.SetFont(canvas.Bold, bodySize)
	return c.WrapText(d.BottomMessage, signatureX(s)-s.Margin-10)
}

func transactionFooterHeight(msg []string, t *Theme) float64 {
	return 60 + math.Max(120, float64(len(msg))*t.LineHeight)
}

func referenceLine(d Transaction) string {
	if d.PaymentReference == "" {
		return ""
	}
	if d.PaymentMode == Cash {
		return "Reference: " + d.PaymentReference
	}
	return "Transaction ID: " + d.PaymentReference
}

// upiPayload builds the upi://pay link for the grand total.
func upiPayload(v *View) string {
	q := url.Values{}
	q.Set("pa", v.Profile.UPIID)
	q.Set("pn", v.Profile.Name)
	q.Set("am", fmt.Sprintf("%.2f", round2(v.Totals.GrandTotal)))
	q.Set("cu", "INR")
	q.Set("tn", v.DocType+" "+v.Number)
	return "upi://pay?" + q.Encode()
}

// drawTransactionFooter draws the payment details, an optional payment QR,
// the bottom message on the left and the signature on the right.
func drawTransactionFooter(c canvas.Canvas, cur *Cursor, v *View, msg []string, qr bool, t *Theme) float64 {
	s := cur.Sheet()
	d := v.Doc.(Transaction)
	y := cur.Y
	footerY := y + 60

	py := drawSectionHeader(c, s, "Payment Details", y, bodySize, t.Primary)
	c.SetFont(canvas.Regular, bodySize)
	c.SetTextColor(t.Text)
	c.Text(s.Margin, py, "Payment Mode: "+string(d.PaymentMode), canvas.AlignLeft)
	py += detailStep
	if ref := referenceLine(d); ref != "" {
		c.Text(s.Margin, py, ref, canvas.AlignLeft)
	}

	if qr {
		if b, ok := c.(canvas.Barcoder); ok {
			if err := b.QRCode(upiPayload(v), s.Width/2-qrSize/2, y+6, qrSize); err != nil {
				v.warn(&AssetError{Asset: "qr", Err: err})
			}
		}
	}

	drawSignature(c, signatureX(s), footerY, v, t)

	c.SetFont(canvas.Bold, bodySize)
	c.SetTextColor(t.Text)
	drawLines(c, msg, s.Margin, footerY, t.LineHeight, canvas.AlignLeft)
	return y + transactionFooterHeight(msg, t)
}

// referencePayload is the content of the PDF417 reference code.
func referencePayload(v *View) string {
	date := ""
	switch d := v.Doc.(type) {
	case Estimate:
		date = d.Date
	case Transaction:
		date = d.Date
	}
	return fmt.Sprintf("%s|%s|%s|%.2f", v.DocType, v.Number, date, round2(v.Totals.GrandTotal))
}

const referenceHeight = referenceH + 10

func drawReference(c canvas.Canvas, cur *Cursor, v *View) float64 {
	b, ok := c.(canvas.Barcoder)
	if !ok {
		return cur.Y
	}
	if err := b.PDF417(referencePayload(v), cur.Sheet().Margin, cur.Y, referenceW, referenceH); err != nil {
		v.warn(&AssetError{Asset: "reference", Err: err})
	}
	return cur.Y + referenceHeight
}
