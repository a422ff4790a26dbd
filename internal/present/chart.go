package present

import (
	"fmt"
	"slices"

	"github.com/sells-group/robot-exposure/internal/model"
)

// Opacity of highlighted and dimmed series.
const (
	OpacityFull   = 1.0
	OpacityDimmed = 0.25
)

// palette holds one color per allow-listed IFR class, in class order.
var palette = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
	"#14B8A6", "#A855F7", "#64748B",
}

// ChartPoint is one (year, installations) pair.
type ChartPoint struct {
	Year  int     `json:"year"`
	Count float64 `json:"installations"`
}

// ChartSeries is the installation series of one IFR class.
type ChartSeries struct {
	Class   int          `json:"ifr_class"`
	Label   string       `json:"label"`
	Color   string       `json:"color"`
	Opacity float64      `json:"opacity"`
	Points  []ChartPoint `json:"points"`
}

// ChartConfig describes the installation line chart.
type ChartConfig struct {
	Title     string              `json:"title"`
	XAxis     string              `json:"x_axis"`
	YAxis     string              `json:"y_axis"`
	Highlight model.Optional[int] `json:"highlight"`
	Series    []ChartSeries       `json:"series"`
}

// ColorFor returns the stable palette color of an IFR class.
func ColorFor(class int) string {
	i := slices.Index(model.ValidIFRClasses(), class)
	if i < 0 {
		return palette[len(palette)-1]
	}
	return palette[i%len(palette)]
}

// BuildChart groups installations into one series per IFR class. Only
// allow-listed classes are plotted and points without a count are skipped.
// The highlighted class is drawn at full opacity and the others dimmed;
// without a highlight every series is at full opacity.
func BuildChart(installs []model.InstallationRecord, labels map[int]string, highlight model.Optional[int]) *ChartConfig {
	byClass := make(map[int][]ChartPoint)
	for _, rec := range installs {
		if !model.IsValidIFRClass(rec.Class) {
			continue
		}
		count, ok := rec.Count.Get()
		if !ok {
			continue
		}
		byClass[rec.Class] = append(byClass[rec.Class], ChartPoint{Year: rec.Year, Count: count})
	}

	classes := make([]int, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	slices.Sort(classes)

	hl, hasHighlight := highlight.Get()
	cfg := &ChartConfig{
		Title:     "Installazioni di robot per applicazione",
		XAxis:     "Anno",
		YAxis:     "Robot installati",
		Highlight: highlight,
		Series:    make([]ChartSeries, 0, len(classes)),
	}
	for _, c := range classes {
		points := byClass[c]
		slices.SortStableFunc(points, func(a, b ChartPoint) int { return a.Year - b.Year })

		opacity := OpacityFull
		if hasHighlight && c != hl {
			opacity = OpacityDimmed
		}
		label, ok := labels[c]
		if !ok || label == "" {
			label = fmt.Sprintf("IFR %d", c)
		}
		cfg.Series = append(cfg.Series, ChartSeries{
			Class:   c,
			Label:   label,
			Color:   ColorFor(c),
			Opacity: opacity,
			Points:  points,
		})
	}
	return cfg
}

// SeriesFor returns the series of class, if plotted.
func (c *ChartConfig) SeriesFor(class int) (ChartSeries, bool) {
	for _, s := range c.Series {
		if s.Class == class {
			return s, true
		}
	}
	return ChartSeries{}, false
}

// VegaLite renders the chart as a Vega-Lite v5 line specification with
// per-class colors, conditional opacity and a year/count tooltip.
func (c *ChartConfig) VegaLite() map[string]any {
	values := make([]map[string]any, 0)
	domain := make([]int, 0, len(c.Series))
	colors := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		domain = append(domain, s.Class)
		colors = append(colors, s.Color)
		for _, p := range s.Points {
			values = append(values, map[string]any{
				"year":          p.Year,
				"ifr_class":     s.Class,
				"application":   s.Label,
				"installations": p.Count,
			})
		}
	}

	opacity := map[string]any{"value": OpacityFull}
	if hl, ok := c.Highlight.Get(); ok {
		opacity = map[string]any{
			"condition": map[string]any{
				"test":  fmt.Sprintf("datum.ifr_class == %d", hl),
				"value": OpacityFull,
			},
			"value": OpacityDimmed,
		}
	}

	return map[string]any{
		"$schema": "https://vega.github.io/schema/vega-lite/v5.json",
		"title":   c.Title,
		"width":   "container",
		"height":  360,
		"data":    map[string]any{"values": values},
		"mark":    map[string]any{"type": "line", "point": true},
		"encoding": map[string]any{
			"x": map[string]any{"field": "year", "type": "ordinal", "title": c.XAxis},
			"y": map[string]any{"field": "installations", "type": "quantitative", "title": c.YAxis},
			"color": map[string]any{
				"field": "ifr_class",
				"type":  "nominal",
				"title": "Classe IFR",
				"scale": map[string]any{"domain": domain, "range": colors},
			},
			"opacity": opacity,
			"tooltip": []map[string]any{
				{"field": "year", "type": "ordinal", "title": c.XAxis},
				{"field": "installations", "type": "quantitative", "title": c.YAxis},
				{"field": "application", "type": "nominal", "title": "Applicazione"},
			},
		},
	}
}
