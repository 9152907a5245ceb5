package vizr

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		spec *ChartSpec
		want ChartType
	}{
		{"nil spec", nil, ChartPoint},
		{"zero value", &ChartSpec{}, ChartPoint},
		{"point", &ChartSpec{Mark: Mark{Kind: MarkPoint}}, ChartPoint},
		{"line", &ChartSpec{Mark: Mark{Kind: MarkLine}}, ChartLine},
		{"bar", &ChartSpec{Mark: Mark{Kind: MarkBar}}, ChartBar},
		{"area", &ChartSpec{Mark: Mark{Kind: MarkArea}}, ChartArea},
		{"text", &ChartSpec{Mark: Mark{Kind: MarkText}}, ChartText},
		{"rect", &ChartSpec{Mark: Mark{Kind: MarkRect}}, ChartRect},
		{"scatter", &ChartSpec{Mark: Mark{Kind: MarkScatter}}, ChartScatter},
		{
			"composite does not recurse",
			&ChartSpec{Mark: Mark{
				Kind:     MarkComposite,
				Children: []Mark{{Kind: MarkLine}},
			}},
			ChartComposite,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.spec); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	spec := &ChartSpec{Mark: Mark{Kind: MarkBar}}
	for i := 0; i < 3; i++ {
		if got := Classify(spec); got != ChartBar {
			t.Fatalf("call %d: Classify() = %v, want ChartBar", i, got)
		}
	}
}

func TestChartTypeString(t *testing.T) {
	for _, ct := range ChartTypes() {
		if ct.String() == "unknown" {
			t.Errorf("ChartType(%d) has no name", int(ct))
		}
	}
	if got := ChartType(99).String(); got != "unknown" {
		t.Errorf("out-of-range String() = %q", got)
	}
}

func TestChartTypesCount(t *testing.T) {
	if got := len(ChartTypes()); got != int(chartTypeCount) {
		t.Errorf("ChartTypes() length = %d, want %d", got, chartTypeCount)
	}
}
