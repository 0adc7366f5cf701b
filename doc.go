// Package flow provides the geometry and logging shared by the flow
// recording and raster-caching packages.
//
// # Overview
//
// flow is the retained-mode half of a widget drawing pipeline. User code
// issues drawing calls against a canvas-like API, a recorder turns them into
// an immutable, spatially indexed Picture, and a raster cache memoizes
// pictures that are drawn repeatedly under the same transform so that
// unchanged content is not re-rendered every frame.
//
// # Architecture
//
// The module is organized into:
//   - flow: Matrix, Rect, RRect, Point and the package logger
//   - path: path building and flattening into fill/stroke meshes
//   - picture: draw commands, the Recorder and the immutable Picture
//   - render: textures, render targets and a software canvas
//   - rastercache: the per-frame raster cache and its results
//
// # Frame Lifecycle
//
//	rec := picture.NewRecorder()
//	rec.Save()
//	rec.Translate(10, 10)
//	rec.DrawPath(p, nil)
//	rec.Restore()
//	pic, err := rec.EndRecording()
//
//	rc := rastercache.New(render.NewSoftwareDevice())
//	for frame := range frames {
//	    res, err := rc.GetPrerolledImage(pic, xform, dpr, false, false)
//	    if res != nil {
//	        res.DrawAt(canvas, xform)
//	    } else {
//	        canvas.DrawPicture(pic)
//	    }
//	    rc.SweepAfterFrame()
//	}
//
// # Coordinate System
//
// Logical coordinates have their origin at the top-left with Y pointing
// down. Device pixels are logical units multiplied by the device pixel
// ratio.
//
// # Thread Safety
//
// Recorders and raster caches are single-threaded: recording, lookup,
// rasterization and sweeping run on one goroutine per frame. Pictures are
// immutable once returned by EndRecording and may be read concurrently.
package flow
