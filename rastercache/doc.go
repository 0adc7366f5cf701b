// Package rastercache memoizes rasterized pictures across frames.
//
// A rendering pass asks the Cache for a prerolled image of every picture
// it is about to draw. A picture is rasterized once it has been requested
// Threshold times for the same transform and device pixel ratio, and the
// resulting texture is reused until a frame passes without a request:
//
//	cache := rastercache.New(render.NewSoftwareDevice())
//
//	for frame := range frames {
//	    res, err := cache.GetPrerolledImage(pic, xform, dpr, false, false)
//	    switch {
//	    case err != nil:
//	        // fall back to drawing pic directly
//	    case res != nil:
//	        err = res.DrawAt(canvas, xform)
//	    default:
//	        canvas.DrawPicture(pic)
//	    }
//	    cache.SweepAfterFrame()
//	}
//
// xform is the picture's transform relative to canvas, and canvas must
// carry at most a translation when a Result is drawn onto it.
//
// Keys ignore whole device-pixel translation, so content scrolled by an
// integer number of pixels keeps hitting the same rasterization. DrawAt
// moves the texture to where the current transform puts the picture.
//
// The Cache owns every texture it produces. Results must be fetched again
// each frame rather than kept across a sweep.
package rastercache
