package picture

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/flow"
)

// TextBlob is a run of text measured with a single font face.
// Its origin is the left end of the baseline.
//
// TextBlob only measures; shaping and line breaking happen upstream.
type TextBlob struct {
	text    string
	face    font.Face
	bounds  flow.Rect
	advance float64
}

// NewTextBlob measures text with face. The bounds are the union of the ink
// bounds and the logical box (advance by ascent+descent), so trailing spaces
// and combining marks both stay inside.
//
// text is stored in NFC form. Glyphs are drawn rune by rune, so composed
// characters pick up the font's precomposed glyphs.
//
// A nil face yields a blob with empty bounds and no advance; it records
// nothing and draws nothing.
func NewTextBlob(text string, face font.Face) *TextBlob {
	text = norm.NFC.String(text)
	if face == nil {
		return &TextBlob{text: text}
	}
	ink, adv := font.BoundString(face, text)
	m := face.Metrics()

	logical := flow.RectFromLTRB(0, -fixedToFloat(m.Ascent), fixedToFloat(adv), fixedToFloat(m.Descent))
	bounds := logical
	if ink.Min.X < ink.Max.X && ink.Min.Y < ink.Max.Y {
		bounds = bounds.Union(flow.RectFromLTRB(
			fixedToFloat(ink.Min.X), fixedToFloat(ink.Min.Y),
			fixedToFloat(ink.Max.X), fixedToFloat(ink.Max.Y),
		))
	}
	return &TextBlob{text: text, face: face, bounds: bounds, advance: fixedToFloat(adv)}
}

// Text returns the blob's text.
func (b *TextBlob) Text() string { return b.text }

// Face returns the font face used for measuring and drawing.
func (b *TextBlob) Face() font.Face { return b.face }

// Bounds returns the blob bounds relative to its origin.
func (b *TextBlob) Bounds() flow.Rect { return b.bounds }

// Advance returns the horizontal advance of the whole run.
func (b *TextBlob) Advance() float64 { return b.advance }

// ShiftedBounds returns the bounds with the origin moved to (dx, dy).
func (b *TextBlob) ShiftedBounds(dx, dy float64) flow.Rect {
	return b.bounds.Shift(flow.Pt(dx, dy))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
