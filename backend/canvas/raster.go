package canvas

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/vector"

	"github.com/vizgo/vizr"
	"github.com/vizgo/vizr/backend"
)

// markColor is the flat fill color for rasterized marks. Per-datum color
// encoding is resolved by the chart composition layer, which draws one
// chart per series; the core fills with a single paint.
var markColor = color.NRGBA{R: 0x42, G: 0x85, B: 0xf4, A: 0xff}

// basePointSize is the unscaled point mark extent in pixels.
const basePointSize = 4.0

// rasterize draws the chart into dst and reports submitted geometry.
// Quads count as two triangles each so canvas stats stay comparable with
// the GPU tiers.
func rasterize(dst *image.RGBA, t vizr.ChartType, spec *vizr.ChartSpec, cfg backend.RenderConfig) backend.DrawInfo {
	bounds := dst.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	r := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	src := image.NewUniform(markColor)

	var info backend.DrawInfo
	drawMark(r, t, spec, cfg, w, h, &info)

	r.Draw(dst, bounds, src, image.Point{})
	info.DrawCalls++
	return info
}

// drawMark appends the geometry of one mark kind to the rasterizer path.
func drawMark(r *vector.Rasterizer, t vizr.ChartType, spec *vizr.ChartSpec, cfg backend.RenderConfig, w, h float64, info *backend.DrawInfo) {
	// Level-of-detail bias strides over the data: bias 0 draws every
	// datum, bias 2 draws every third.
	step := 1 + int(cfg.LODBias)

	switch t {
	case vizr.ChartPoint, vizr.ChartScatter:
		for i := 0; i < len(spec.Data); i += step {
			d := spec.Data[i]
			size := basePointSize * cfg.PointScale
			if d.Size > 0 {
				size *= d.Size
			}
			cx, cy := d.X*w, (1-d.Y)*h
			quad(r, cx-size/2, cy-size/2, cx+size/2, cy+size/2)
			info.Triangles += 2
		}

	case vizr.ChartLine:
		half := cfg.PointScale / 2
		if half <= 0 {
			half = 0.5
		}
		for i := step; i < len(spec.Data); i += step {
			a, b := spec.Data[i-step], spec.Data[i]
			segment(r, a.X*w, (1-a.Y)*h, b.X*w, (1-b.Y)*h, half)
			info.Triangles += 2
		}

	case vizr.ChartBar:
		n := len(spec.Data)
		if n == 0 {
			return
		}
		barWidth := w / float64(n) * 0.8
		for i := 0; i < n; i += step {
			d := spec.Data[i]
			cx := d.X * w
			quad(r, cx-barWidth/2, (1-d.Y)*h, cx+barWidth/2, h)
			info.Triangles += 2
		}

	case vizr.ChartArea:
		for i := step; i < len(spec.Data); i += step {
			a, b := spec.Data[i-step], spec.Data[i]
			// Trapezoid from the line segment down to the baseline,
			// drawn as one closed quad.
			r.MoveTo(float32(a.X*w), float32((1-a.Y)*h))
			r.LineTo(float32(b.X*w), float32((1-b.Y)*h))
			r.LineTo(float32(b.X*w), float32(h))
			r.LineTo(float32(a.X*w), float32(h))
			r.ClosePath()
			info.Triangles += 2
		}

	case vizr.ChartRect:
		for i := 0; i < len(spec.Data); i += step {
			d := spec.Data[i]
			half := basePointSize * cfg.PointScale
			if d.Size > 0 {
				half *= d.Size
			}
			cx, cy := d.X*w, (1-d.Y)*h
			quad(r, cx-half, cy-half, cx+half, cy+half)
			info.Triangles += 2
		}

	case vizr.ChartText:
		// Glyph rendering is external to the core; the canvas tier draws
		// label extent boxes so layout remains visible at this tier.
		glyphW := 6.0 * cfg.PointScale
		glyphH := 10.0 * cfg.PointScale
		for i := 0; i < len(spec.Data); i += step {
			d := spec.Data[i]
			labelW := glyphW * float64(len([]rune(d.Label)))
			if labelW == 0 {
				continue
			}
			cx, cy := d.X*w, (1-d.Y)*h
			quad(r, cx, cy-glyphH, cx+labelW, cy)
			info.Triangles += 2
		}

	case vizr.ChartComposite:
		for _, child := range spec.Mark.Children {
			childSpec := *spec
			childSpec.Mark = child
			drawMark(r, vizr.Classify(&childSpec), &childSpec, cfg, w, h, info)
		}
	}
}

// quad appends an axis-aligned rectangle to the path.
func quad(r *vector.Rasterizer, x0, y0, x1, y1 float64) {
	r.MoveTo(float32(x0), float32(y0))
	r.LineTo(float32(x1), float32(y0))
	r.LineTo(float32(x1), float32(y1))
	r.LineTo(float32(x0), float32(y1))
	r.ClosePath()
}

// segment appends a thin quad along the line from (x0,y0) to (x1,y1).
func segment(r *vector.Rasterizer, x0, y0, x1, y1, half float64) {
	dx, dy := x1-x0, y1-y0
	length := dx*dx + dy*dy
	if length == 0 {
		return
	}
	// Perpendicular offset normalized to half the stroke width.
	inv := half / math.Sqrt(length)
	ox, oy := -dy*inv, dx*inv

	r.MoveTo(float32(x0+ox), float32(y0+oy))
	r.LineTo(float32(x1+ox), float32(y1+oy))
	r.LineTo(float32(x1-ox), float32(y1-oy))
	r.LineTo(float32(x0-ox), float32(y0-oy))
	r.ClosePath()
}
