// Package picture records drawing commands into immutable pictures.
//
// A Recorder implements Canvas. Each call appends a DrawCmd and updates a
// stack of transform and clip scopes, so that when recording ends the
// resulting Picture knows the device-space bounds of everything it paints
// and holds an R-tree over its drawing commands:
//
//	rec := picture.NewRecorder(picture.WithDevicePixelRatio(2))
//	rec.Translate(10, 10)
//	rec.DrawPath(p, picture.NewFill(color.NRGBA{R: 255, A: 255}))
//	pic, err := rec.EndRecording()
//
//	pic.PaintBounds()        // union of painted geometry
//	pic.Query(viewport)      // commands that may touch viewport
//	pic.Playback(otherCanvas)
//
// Bounds are conservative. Paths are measured through their tessellated
// fill or stroke meshes, blurred paints are inflated by three sigmas and
// indexed rectangles carry an extra margin.
package picture
