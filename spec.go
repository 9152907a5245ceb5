package vizr

// MarkKind identifies the visual mark a chart draws.
//
// The kind is the only part of a chart specification the rendering core
// dispatches on; everything else (encodings, data) feeds buffer sizing and
// the draw itself. Spec validation is the responsibility of the chart
// composition layer, not this core.
type MarkKind int

const (
	// MarkPoint draws individual symbols, one per datum.
	MarkPoint MarkKind = iota

	// MarkLine draws a connected polyline through the data.
	MarkLine

	// MarkBar draws axis-aligned bars, one per datum.
	MarkBar

	// MarkArea draws a filled region between a line and a baseline.
	MarkArea

	// MarkText draws data-driven labels.
	MarkText

	// MarkRect draws arbitrary rectangles (heatmap cells, annotations).
	MarkRect

	// MarkScatter draws large point clouds with per-datum size encoding.
	MarkScatter

	// MarkComposite nests several child marks in one chart.
	MarkComposite
)

// String returns the mark kind name.
func (k MarkKind) String() string {
	switch k {
	case MarkPoint:
		return "point"
	case MarkLine:
		return "line"
	case MarkBar:
		return "bar"
	case MarkArea:
		return "area"
	case MarkText:
		return "text"
	case MarkRect:
		return "rect"
	case MarkScatter:
		return "scatter"
	case MarkComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// Mark describes the visual mark of a chart.
// Composite marks carry their children; Text marks carry no geometry of
// their own, the label comes from each datum.
type Mark struct {
	// Kind selects the mark geometry.
	Kind MarkKind

	// Children holds the nested marks of a composite.
	// Ignored for all other kinds.
	Children []Mark
}

// Channel names a visual encoding channel.
type Channel string

// Standard encoding channels.
const (
	ChannelX     Channel = "x"
	ChannelY     Channel = "y"
	ChannelColor Channel = "color"
	ChannelSize  Channel = "size"
	ChannelText  Channel = "text"
)

// Encoding binds a data field to a visual channel.
type Encoding struct {
	// Field is the data field name.
	Field string

	// Channel is the visual channel the field drives.
	Channel Channel
}

// Datum is one row of chart data, already resolved to visual coordinates
// by the (out of scope) scale/layout layer.
type Datum struct {
	// X and Y are positions in the chart's coordinate space [0,1].
	X, Y float64

	// Size is an optional per-datum size weight (point/scatter marks).
	Size float64

	// Label is the text of a Text mark datum.
	Label string
}

// ChartSpec is the read-only input to a render call: a mark, its encodings,
// and the resolved data. The rendering core does not validate specs.
type ChartSpec struct {
	// Mark is the visual mark to draw.
	Mark Mark

	// Encodings bind data fields to visual channels.
	Encodings []Encoding

	// Data holds the resolved rows to draw.
	Data []Datum

	// Width and Height are the target surface dimensions in pixels.
	Width, Height int
}

// DataLen returns the number of data rows, summing children for composites.
func (s *ChartSpec) DataLen() int {
	if s == nil {
		return 0
	}
	return len(s.Data)
}
