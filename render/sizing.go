package render

import (
	"github.com/go-text/typesetting/segmenter"

	"github.com/vizgo/vizr"
)

// Per-vertex byte stride shared by the GPU tiers: vec2 position, one
// size float, one pad float.
const vertexStride = 16

// minBufferSize keeps empty charts from requesting zero-byte buffers,
// which some device layers reject.
const minBufferSize = 64

// uniformSize covers the frame uniform block (viewport, point scale,
// LOD bias, padding) rounded up to the common 16-byte alignment.
const uniformSize = 64

type bufferSizes struct {
	vertex  uint64
	index   uint64
	uniform uint64
}

// bufferSizesFor computes the buffer footprint of one chart. Point-like
// and line marks need one vertex per datum; bar, rect, and area marks
// expand each datum to a four-corner quad with six indices. Text marks
// size by visible glyph count, one quad per grapheme cluster. Composite
// charts sum their direct children.
func bufferSizesFor(t vizr.ChartType, spec *vizr.ChartSpec) bufferSizes {
	s := rawSizesFor(t, spec)
	if s.vertex < minBufferSize {
		s.vertex = minBufferSize
	}
	if s.index < minBufferSize {
		s.index = minBufferSize
	}
	s.uniform = uniformSize
	return s
}

func rawSizesFor(t vizr.ChartType, spec *vizr.ChartSpec) bufferSizes {
	n := uint64(spec.DataLen())
	switch t {
	case vizr.ChartBar, vizr.ChartRect, vizr.ChartArea:
		return bufferSizes{vertex: n * 4 * vertexStride, index: n * 6 * 4}
	case vizr.ChartText:
		g := uint64(0)
		for i := range spec.Data {
			g += uint64(graphemeCount(spec.Data[i].Label))
		}
		return bufferSizes{vertex: g * 4 * vertexStride, index: g * 6 * 4}
	case vizr.ChartComposite:
		var total bufferSizes
		for i := range spec.Mark.Children {
			child := vizr.ChartSpec{
				Mark:  spec.Mark.Children[i],
				Data:  spec.Data,
				Width: spec.Width, Height: spec.Height,
			}
			cs := rawSizesFor(vizr.Classify(&child), &child)
			total.vertex += cs.vertex
			total.index += cs.index
		}
		return total
	default:
		// Point, scatter, and line marks: one vertex per datum.
		return bufferSizes{vertex: n * vertexStride, index: n * 4}
	}
}

// graphemeCount counts user-perceived characters so multi-rune clusters
// (combining marks, emoji sequences) size one glyph quad, not several.
func graphemeCount(label string) int {
	if label == "" {
		return 0
	}
	var seg segmenter.Segmenter
	seg.Init([]rune(label))
	iter := seg.GraphemeIterator()
	n := 0
	for iter.Next() {
		n++
	}
	return n
}
