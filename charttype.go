package vizr

// ChartType is the coarse mark classification used to select and cache a
// render pipeline. Pipelines are compiled once per ChartType and reused for
// every chart of that type, so the cardinality here is deliberately small
// and fixed.
type ChartType int

const (
	// ChartPoint renders discrete point symbols.
	ChartPoint ChartType = iota

	// ChartLine renders polylines.
	ChartLine

	// ChartBar renders bars.
	ChartBar

	// ChartArea renders filled areas.
	ChartArea

	// ChartText renders glyph quads.
	ChartText

	// ChartRect renders rectangles.
	ChartRect

	// ChartComposite renders nested marks with a single combined pipeline.
	ChartComposite

	// ChartScatter renders large point clouds.
	ChartScatter

	// chartTypeCount bounds iteration over all chart types.
	chartTypeCount
)

// String returns the chart type name.
func (t ChartType) String() string {
	switch t {
	case ChartPoint:
		return "point"
	case ChartLine:
		return "line"
	case ChartBar:
		return "bar"
	case ChartArea:
		return "area"
	case ChartText:
		return "text"
	case ChartRect:
		return "rect"
	case ChartComposite:
		return "composite"
	case ChartScatter:
		return "scatter"
	default:
		return "unknown"
	}
}

// ChartTypes returns all chart types, in pipeline-compilation order.
func ChartTypes() []ChartType {
	types := make([]ChartType, 0, chartTypeCount)
	for t := ChartType(0); t < chartTypeCount; t++ {
		types = append(types, t)
	}
	return types
}

// Classify maps a chart specification's mark to its ChartType.
//
// Classification is a pure function of the top-level mark kind. Composite
// marks classify as ChartComposite regardless of their children; dispatch
// does not recurse.
func Classify(spec *ChartSpec) ChartType {
	if spec == nil {
		return ChartPoint
	}
	switch spec.Mark.Kind {
	case MarkLine:
		return ChartLine
	case MarkBar:
		return ChartBar
	case MarkArea:
		return ChartArea
	case MarkText:
		return ChartText
	case MarkRect:
		return ChartRect
	case MarkScatter:
		return ChartScatter
	case MarkComposite:
		return ChartComposite
	default:
		return ChartPoint
	}
}
