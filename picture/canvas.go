package picture

import (
	"github.com/gogpu/flow"
	"github.com/gogpu/flow/path"
)

// Canvas is the immediate drawing API shared by the Recorder and by
// backends that replay pictures. Each method corresponds to one DrawCmd.
type Canvas interface {
	Save()
	SaveLayer(bounds flow.Rect, paint *Paint)
	Restore()

	Translate(dx, dy float64)
	Scale(sx, sy float64)
	Rotate(radians float64, offset *flow.Point)
	Skew(sx, sy float64)
	Concat(m flow.Matrix)
	SetMatrix(m flow.Matrix)
	ResetMatrix()
	TotalMatrix() flow.Matrix

	ClipRect(r flow.Rect)
	ClipRRect(rr flow.RRect)
	ClipPath(p *path.Path)

	DrawPath(p *path.Path, paint *Paint)
	DrawImage(img Image, offset flow.Point, paint *Paint)
	DrawImageRect(img Image, src *flow.Rect, dst flow.Rect, paint *Paint)
	DrawImageNine(img Image, src *flow.Rect, center, dst flow.Rect, paint *Paint)
	DrawPicture(pic *Picture)
	DrawTextBlob(blob *TextBlob, offset flow.Point, paint *Paint)
}

// Playback replays the picture's commands in order onto c.
func (p *Picture) Playback(c Canvas) {
	for _, cmd := range p.cmds {
		apply(c, cmd)
	}
}

// apply issues a single command against a canvas. Commands of unknown type
// never reach a Picture, because the Recorder rejects them.
func apply(c Canvas, cmd DrawCmd) {
	switch cmd := cmd.(type) {
	case DrawSave:
		c.Save()
	case DrawSaveLayer:
		c.SaveLayer(cmd.Rect, cmd.Paint)
	case DrawRestore:
		c.Restore()
	case DrawTranslate:
		c.Translate(cmd.DX, cmd.DY)
	case DrawScale:
		c.Scale(cmd.SX, cmd.SY)
	case DrawRotate:
		c.Rotate(cmd.Radians, cmd.Offset)
	case DrawSkew:
		c.Skew(cmd.SX, cmd.SY)
	case DrawConcat:
		c.Concat(cmd.Matrix)
	case DrawSetMatrix:
		c.SetMatrix(cmd.Matrix)
	case DrawResetMatrix:
		c.ResetMatrix()
	case DrawClipRect:
		c.ClipRect(cmd.Rect)
	case DrawClipRRect:
		c.ClipRRect(cmd.RRect)
	case DrawClipPath:
		c.ClipPath(cmd.Path)
	case DrawPath:
		c.DrawPath(cmd.Path, cmd.Paint)
	case DrawImage:
		c.DrawImage(cmd.Image, cmd.Offset, cmd.Paint)
	case DrawImageRect:
		c.DrawImageRect(cmd.Image, cmd.Src, cmd.Dst, cmd.Paint)
	case DrawImageNine:
		c.DrawImageNine(cmd.Image, cmd.Src, cmd.Center, cmd.Dst, cmd.Paint)
	case DrawPicture:
		c.DrawPicture(cmd.Picture)
	case DrawTextBlob:
		c.DrawTextBlob(cmd.Blob, cmd.Offset, cmd.Paint)
	}
}
