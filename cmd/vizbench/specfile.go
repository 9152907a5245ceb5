package main

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vizgo/vizr"
)

// specFile is the YAML shape of a chart spec.
type specFile struct {
	Mark     string      `yaml:"mark"`
	Children []string    `yaml:"children"`
	Width    int         `yaml:"width"`
	Height   int         `yaml:"height"`
	Points   int         `yaml:"points"`
	Data     []datumFile `yaml:"data"`
}

type datumFile struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	Size  float64 `yaml:"size"`
	Label string  `yaml:"label"`
}

// loadSpec reads a chart spec from YAML. When the file lists no data
// rows, `points` synthetic rows are generated so a spec can describe a
// pure throughput benchmark.
func loadSpec(path string) (*vizr.ChartSpec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sf specFile
	if err := yaml.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return sf.toChartSpec()
}

func (sf *specFile) toChartSpec() (*vizr.ChartSpec, error) {
	kind, err := parseMark(sf.Mark)
	if err != nil {
		return nil, err
	}

	mark := vizr.Mark{Kind: kind}
	if kind == vizr.MarkComposite {
		if len(sf.Children) == 0 {
			return nil, fmt.Errorf("composite mark needs children")
		}
		for _, c := range sf.Children {
			ck, err := parseMark(c)
			if err != nil {
				return nil, err
			}
			mark.Children = append(mark.Children, vizr.Mark{Kind: ck})
		}
	}

	spec := &vizr.ChartSpec{Mark: mark, Width: sf.Width, Height: sf.Height}
	if spec.Width <= 0 {
		spec.Width = 800
	}
	if spec.Height <= 0 {
		spec.Height = 600
	}

	for _, d := range sf.Data {
		spec.Data = append(spec.Data, vizr.Datum{X: d.X, Y: d.Y, Size: d.Size, Label: d.Label})
	}
	if len(spec.Data) == 0 {
		n := sf.Points
		if n <= 0 {
			n = 1000
		}
		spec.Data = syntheticData(n)
	}
	return spec, nil
}

// syntheticData spreads n rows across the unit square.
func syntheticData(n int) []vizr.Datum {
	data := make([]vizr.Datum, n)
	for i := range data {
		fi := float64(i)
		data[i] = vizr.Datum{
			X:    fi / float64(n),
			Y:    0.3 + 0.4*math.Mod(fi*0.37, 1),
			Size: 1,
		}
	}
	return data
}

func parseMark(name string) (vizr.MarkKind, error) {
	switch name {
	case "point", "":
		return vizr.MarkPoint, nil
	case "line":
		return vizr.MarkLine, nil
	case "bar":
		return vizr.MarkBar, nil
	case "area":
		return vizr.MarkArea, nil
	case "text":
		return vizr.MarkText, nil
	case "rect":
		return vizr.MarkRect, nil
	case "scatter":
		return vizr.MarkScatter, nil
	case "composite":
		return vizr.MarkComposite, nil
	default:
		return 0, fmt.Errorf("unknown mark %q", name)
	}
}
