package picture

import (
	"github.com/gogpu/flow"
	"github.com/gogpu/flow/path"
)

// CmdType identifies the type of a draw command.
type CmdType uint8

const (
	// State commands
	CmdSave        CmdType = iota // Push a copy of the current scope
	CmdSaveLayer                  // Push an offscreen layer scope
	CmdRestore                    // Pop the current scope
	CmdTranslate                  // Pre-translate the transform
	CmdScale                      // Pre-scale the transform
	CmdRotate                     // Pre-rotate the transform
	CmdSkew                       // Pre-skew the transform
	CmdConcat                     // Pre-concatenate a matrix
	CmdSetMatrix                  // Replace the transform
	CmdResetMatrix                // Reset the transform to identity
	CmdClipRect                   // Intersect the clip with a rectangle
	CmdClipRRect                  // Intersect the clip with a rounded rectangle
	CmdClipPath                   // Intersect the clip with a path's bounds

	// Drawing commands
	CmdDrawPath      // Fill or stroke a path
	CmdDrawImage     // Draw an image at an offset
	CmdDrawImageRect // Draw an image into a rectangle
	CmdDrawImageNine // Draw a nine-patch image
	CmdDrawPicture   // Draw a nested picture
	CmdDrawTextBlob  // Draw pre-measured text

	numCmdTypes
)

// cmdTypeNames maps CmdType values to their string representation.
var cmdTypeNames = [...]string{
	CmdSave:          "Save",
	CmdSaveLayer:     "SaveLayer",
	CmdRestore:       "Restore",
	CmdTranslate:     "Translate",
	CmdScale:         "Scale",
	CmdRotate:        "Rotate",
	CmdSkew:          "Skew",
	CmdConcat:        "Concat",
	CmdSetMatrix:     "SetMatrix",
	CmdResetMatrix:   "ResetMatrix",
	CmdClipRect:      "ClipRect",
	CmdClipRRect:     "ClipRRect",
	CmdClipPath:      "ClipPath",
	CmdDrawPath:      "DrawPath",
	CmdDrawImage:     "DrawImage",
	CmdDrawImageRect: "DrawImageRect",
	CmdDrawImageNine: "DrawImageNine",
	CmdDrawPicture:   "DrawPicture",
	CmdDrawTextBlob:  "DrawTextBlob",
}

// Every CmdType must have a name; adding a variant without one fails to compile.
var _ = [1]struct{}{}[len(cmdTypeNames)-int(numCmdTypes)]

// String returns the string representation of a CmdType.
func (c CmdType) String() string {
	if c < numCmdTypes {
		return cmdTypeNames[c]
	}
	return "Unknown"
}

// IsStateUpdate reports whether commands of this type change the
// transform, clip or layer state rather than producing geometry.
func (c CmdType) IsStateUpdate() bool {
	return c <= CmdClipPath
}

// DrawCmd is the interface implemented by all draw commands.
// Commands are immutable once appended to a Recorder.
type DrawCmd interface {
	// Type returns the CmdType for this command.
	Type() CmdType
}

// --------------------------------------------------------------------------
// State Commands
// --------------------------------------------------------------------------

// DrawSave pushes a copy of the current transform and clip.
type DrawSave struct{}

// Type implements DrawCmd.
func (DrawSave) Type() CmdType { return CmdSave }

// DrawSaveLayer pushes a layer scope whose origin is Rect's top-left corner
// and whose clip is Rect.
type DrawSaveLayer struct {
	Rect  flow.Rect
	Paint *Paint
}

// Type implements DrawCmd.
func (DrawSaveLayer) Type() CmdType { return CmdSaveLayer }

// DrawRestore pops the current scope.
type DrawRestore struct{}

// Type implements DrawCmd.
func (DrawRestore) Type() CmdType { return CmdRestore }

// DrawTranslate pre-translates the current transform.
type DrawTranslate struct {
	DX, DY float64
}

// Type implements DrawCmd.
func (DrawTranslate) Type() CmdType { return CmdTranslate }

// DrawScale pre-scales the current transform.
type DrawScale struct {
	SX, SY float64
}

// Type implements DrawCmd.
func (DrawScale) Type() CmdType { return CmdScale }

// DrawRotate pre-rotates the current transform, around Offset when set.
type DrawRotate struct {
	Radians float64
	Offset  *flow.Point
}

// Type implements DrawCmd.
func (DrawRotate) Type() CmdType { return CmdRotate }

// DrawSkew pre-skews the current transform.
type DrawSkew struct {
	SX, SY float64
}

// Type implements DrawCmd.
func (DrawSkew) Type() CmdType { return CmdSkew }

// DrawConcat pre-concatenates Matrix onto the current transform.
type DrawConcat struct {
	Matrix flow.Matrix
}

// Type implements DrawCmd.
func (DrawConcat) Type() CmdType { return CmdConcat }

// DrawSetMatrix replaces the current transform.
type DrawSetMatrix struct {
	Matrix flow.Matrix
}

// Type implements DrawCmd.
func (DrawSetMatrix) Type() CmdType { return CmdSetMatrix }

// DrawResetMatrix resets the current transform to identity.
type DrawResetMatrix struct{}

// Type implements DrawCmd.
func (DrawResetMatrix) Type() CmdType { return CmdResetMatrix }

// DrawClipRect intersects the clip with Rect.
type DrawClipRect struct {
	Rect flow.Rect
}

// Type implements DrawCmd.
func (DrawClipRect) Type() CmdType { return CmdClipRect }

// DrawClipRRect intersects the clip with the outer bounds of RRect.
type DrawClipRRect struct {
	RRect flow.RRect
}

// Type implements DrawCmd.
func (DrawClipRRect) Type() CmdType { return CmdClipRRect }

// DrawClipPath intersects the clip with the bounds of Path.
type DrawClipPath struct {
	Path *path.Path
}

// Type implements DrawCmd.
func (DrawClipPath) Type() CmdType { return CmdClipPath }

// --------------------------------------------------------------------------
// Drawing Commands
// --------------------------------------------------------------------------

// DrawPath fills or strokes Path according to Paint.
type DrawPath struct {
	Path  *path.Path
	Paint *Paint
}

// Type implements DrawCmd.
func (DrawPath) Type() CmdType { return CmdDrawPath }

// DrawImage draws Image at its natural size with its top-left at Offset.
type DrawImage struct {
	Image  Image
	Offset flow.Point
	Paint  *Paint
}

// Type implements DrawCmd.
func (DrawImage) Type() CmdType { return CmdDrawImage }

// DrawImageRect draws the Src region of Image (the whole image when nil)
// scaled into Dst.
type DrawImageRect struct {
	Image Image
	Src   *flow.Rect
	Dst   flow.Rect
	Paint *Paint
}

// Type implements DrawCmd.
func (DrawImageRect) Type() CmdType { return CmdDrawImageRect }

// DrawImageNine draws Image as a nine-patch into Dst. Center is the
// stretchable region in image coordinates.
type DrawImageNine struct {
	Image  Image
	Src    *flow.Rect
	Center flow.Rect
	Dst    flow.Rect
	Paint  *Paint
}

// Type implements DrawCmd.
func (DrawImageNine) Type() CmdType { return CmdDrawImageNine }

// DrawPicture replays a nested Picture.
type DrawPicture struct {
	Picture *Picture
}

// Type implements DrawCmd.
func (DrawPicture) Type() CmdType { return CmdDrawPicture }

// DrawTextBlob draws Blob with its origin at Offset.
type DrawTextBlob struct {
	Blob   *TextBlob
	Offset flow.Point
	Paint  *Paint
}

// Type implements DrawCmd.
func (DrawTextBlob) Type() CmdType { return CmdDrawTextBlob }
