package main

import (
	"fmt"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/gogpu/flow"
	"github.com/gogpu/flow/path"
	"github.com/gogpu/flow/picture"
	"github.com/gogpu/flow/rastercache"
	"github.com/gogpu/flow/render"
)

const (
	tileSize = 120.0
	tileGap  = 20.0
)

// demo holds the pictures recorded once and replayed every frame.
type demo struct {
	conf       config
	background *picture.Picture
	tiles      []*picture.Picture
}

func newDemo(conf config) *demo {
	face := labelFace()
	d := &demo{
		conf:       conf,
		background: recordBackground(float64(conf.Width), float64(conf.Height)),
	}
	n := conf.Scene.Columns * conf.Scene.Rows
	for i := range n {
		label := fmt.Sprintf("%s %d", conf.Scene.Label, i+1)
		d.tiles = append(d.tiles, recordTile(i, label, face, conf.DevicePixelRatio))
	}
	return d
}

// renderFrame draws one frame into a fresh target. Tiles come from the
// cache once they are hot and are replayed directly otherwise.
func (d *demo) renderFrame(cache *rastercache.Cache, frame int) *render.PixmapTarget {
	dpr := d.conf.DevicePixelRatio
	target := render.NewPixmapTarget(
		pixelSize(float64(d.conf.Width), dpr),
		pixelSize(float64(d.conf.Height), dpr),
		dpr,
	)
	canvas := target.Canvas()
	canvas.DrawPicture(d.background)

	drift := d.conf.Scene.Drift * float64(frame)
	cached := 0
	for i, tile := range d.tiles {
		col, row := i%d.conf.Scene.Columns, i/d.conf.Scene.Columns
		x := tileGap + float64(col)*(tileSize+tileGap) + drift
		y := tileGap + float64(row)*(tileSize+tileGap)

		m := flow.Translate(x, y)
		res, err := cache.GetPrerolledImage(tile, m, dpr, true, false)
		if err != nil {
			flow.Logger().Warn("flowdemo: falling back to direct replay", "tile", i, "err", err)
		}
		if res != nil && res.DrawAt(canvas, m) == nil {
			cached++
			continue
		}
		canvas.Save()
		canvas.Translate(x, y)
		canvas.DrawPicture(tile)
		canvas.Restore()
	}

	flow.Logger().Debug("flowdemo: frame drawn", "frame", frame, "cached_tiles", cached, "tiles", len(d.tiles))
	return target
}

func labelFace() font.Face {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		flow.Logger().Warn("flowdemo: parse font", "err", err)
		return nil
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 14, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		flow.Logger().Warn("flowdemo: create face", "err", err)
		return nil
	}
	return face
}

func recordBackground(w, h float64) *picture.Picture {
	rec := picture.NewRecorder()
	steps := 32
	for i := range steps {
		t := float64(i) / float64(steps)
		c := color.NRGBA{
			R: uint8(25 + t*100),
			G: uint8(50 + t*75),
			B: uint8(100 + t*50),
			A: 255,
		}
		p := path.New()
		p.AddRect(flow.NewRect(0, h*t, w, h/float64(steps)+1))
		rec.DrawPath(p, picture.NewFill(c))
	}
	pic, err := rec.EndRecording()
	if err != nil {
		flow.Logger().Error("flowdemo: record background", "err", err)
	}
	return pic
}

// recordTile records a tile in local coordinates [0, tileSize]. Each tile
// is a rounded card holding a star, a ring of dots and a label.
func recordTile(i int, label string, face font.Face, dpr float64) *picture.Picture {
	rec := picture.NewRecorder(picture.WithDevicePixelRatio(dpr))
	hue := float64(i) * 47

	card := path.New()
	card.AddRRect(flow.NewRRect(flow.NewRect(0, 0, tileSize, tileSize), 12))
	rec.DrawPath(card, picture.NewFill(color.NRGBA{R: 245, G: 245, B: 250, A: 230}))

	rec.Save()
	rec.Translate(tileSize/2, tileSize/2-8)
	rec.Rotate(float64(i)*math.Pi/12, nil)
	rec.DrawPath(star(5, 38, 17), picture.NewFill(hsl(hue, 0.7, 0.55)))
	outline := picture.NewStroke(hsl(hue, 0.7, 0.3), 2)
	outline.StrokeJoin = path.LineJoinRound
	rec.DrawPath(star(5, 38, 17), outline)
	rec.Restore()

	for k := range 12 {
		a := float64(k) * math.Pi / 6
		dot := path.New()
		dot.AddCircle(tileSize/2+48*math.Cos(a), tileSize/2-8+48*math.Sin(a), 3)
		rec.DrawPath(dot, picture.NewFill(hsl(hue+float64(k)*10, 0.6, 0.5)))
	}

	if face != nil {
		blob := picture.NewTextBlob(label, face)
		x := (tileSize - blob.Advance()) / 2
		rec.DrawTextBlob(blob, flow.Pt(x, tileSize-8), picture.NewFill(color.NRGBA{A: 255}))
	}

	shadow := picture.NewFill(color.NRGBA{A: 60})
	shadow.MaskFilter = picture.Blur(picture.BlurNormal, 4)
	rec.SaveLayer(flow.NewRect(0, 0, tileSize, tileSize), nil)
	rec.DrawPath(card, shadow)
	rec.Restore()

	pic, err := rec.EndRecording()
	if err != nil {
		flow.Logger().Error("flowdemo: record tile", "tile", i, "err", err)
	}
	return pic
}

func star(points int, outer, inner float64) *path.Path {
	p := path.New()
	for i := range points * 2 {
		angle := float64(i) * math.Pi / float64(points)
		r := outer
		if i%2 == 1 {
			r = inner
		}
		x := r * math.Cos(angle-math.Pi/2)
		y := r * math.Sin(angle-math.Pi/2)
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	return p
}

// hsl converts hue in degrees, saturation and lightness in [0, 1] to an
// opaque color.
func hsl(h, s, l float64) color.NRGBA {
	h = math.Mod(h, 360) / 360
	if s == 0 {
		v := uint8(l * 255)
		return color.NRGBA{R: v, G: v, B: v, A: 255}
	}
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	channel := func(t float64) uint8 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		var v float64
		switch {
		case t < 1.0/6:
			v = p + (q-p)*6*t
		case t < 0.5:
			v = q
		case t < 2.0/3:
			v = p + (q-p)*(2.0/3-t)*6
		default:
			v = p
		}
		return uint8(math.Round(v * 255))
	}
	return color.NRGBA{R: channel(h + 1.0/3), G: channel(h), B: channel(h - 1.0/3), A: 255}
}
