package api

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/stat"

	"github.com/omega-data/perception.report/internal/perception"
)

// handleClassReport renders an HTML bar chart of the final object-class
// distribution across stored objects. Query params:
//   - recording_id (optional; defaults to all recordings)
func (s *Server) handleClassReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed; use GET")
		return
	}

	recordingID := r.URL.Query().Get("recording_id")
	sums, err := s.db.ObjectSummaries(recordingID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "failed to load summaries: "+err.Error())
		return
	}
	if len(sums) == 0 {
		s.writeJSONError(w, http.StatusNotFound, "no stored objects to report on")
		return
	}
	if max := s.cfg.GetReportMaxObjects(); len(sums) > max {
		sums = sums[:max]
	}

	counts := map[perception.ObjectClassification]int{}
	confidences := map[perception.ObjectClassification][]float64{}
	for _, sum := range sums {
		counts[sum.Class]++
		confidences[sum.Class] = append(confidences[sum.Class], sum.Confidence)
	}

	classes := make([]perception.ObjectClassification, 0, len(counts))
	for class := range counts {
		classes = append(classes, class)
	}
	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })

	x := make([]string, 0, len(classes))
	y := make([]opts.BarData, 0, len(classes))
	for _, class := range classes {
		conf := confidences[class]
		meanConf := stat.Mean(conf, nil)
		x = append(x, class.String())
		y = append(y, opts.BarData{
			Value:   counts[class],
			Tooltip: &opts.Tooltip{Show: opts.Bool(true)},
			Name:    fmt.Sprintf("%s (mean conf %.2f)", class, meanConf),
		})
	}

	subtitle := fmt.Sprintf("%d objects, format %s", len(sums), perception.FormatVersion)
	if recordingID != "" {
		subtitle += ", recording " + recordingID
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "720px"}),
		charts.WithTitleOpts(opts.Title{Title: "Object class distribution", Subtitle: subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(x).
		AddSeries("objects", y,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	page := components.NewPage()
	page.AddCharts(bar)

	var buf bytes.Buffer
	if err := page.Render(&buf); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
