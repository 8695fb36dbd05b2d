package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/parquet"
	"github.com/burnrate-dev/burnrate/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

// testChartView returns a chart with a gap in the short series and a failed long query.
func testChartView() schema.PanelView {
	mask := &schema.GapMaskSpec{From: 0, To: 600, MaxDelta: 90}
	return schema.PanelView{
		Title: "Burnrate",
		Chart: &schema.Chart{
			Options: schema.ChartOptions{
				Title:   "Burnrate",
				Width:   450,
				Height:  150,
				Padding: [4]int{15, 0, 0, 0},
				Series: []schema.SeriesOptions{
					{},
					{Role: schema.ShortRole, Label: "short", Stroke: "#d32f2f", Min: ptr(0), GapMask: mask},
					{Role: schema.ThresholdRole, Label: "threshold", Stroke: "#1565c0"},
				},
				Scales: map[string]schema.Scale{"x": {Min: ptr(0), Max: ptr(600)}},
			},
			Data: [][]*float64{
				{ptr(0), ptr(60), ptr(300), ptr(360)},
				{ptr(0.5), ptr(2), ptr(20), nil},
				{ptr(14.4), ptr(14.4), ptr(14.4), ptr(14.4)},
			},
			StepSeconds: 60,
			Queries: []schema.QueryState{
				{Role: schema.ShortRole, Query: "rate(a[5m])", Status: schema.SuccessStatus},
				{Role: schema.LongRole, Query: "rate(a[1h])", Status: schema.ErrorStatus, Error: "timeout"},
			},
		},
	}
}

func testEmptyView() schema.PanelView {
	return schema.PanelView{
		Title: "Burnrate",
		Chart: &schema.Chart{
			Options: schema.ChartOptions{
				Width:  450,
				Height: 150,
				Series: []schema.SeriesOptions{
					{},
					{Role: schema.ShortRole, Label: "short", Stroke: "#d32f2f"},
					{Role: schema.LongRole, Label: "long", Stroke: "#f44336"},
					{Role: schema.ThresholdRole, Label: "threshold", Stroke: "#1565c0"},
				},
				Scales: map[string]schema.Scale{"x": {Min: ptr(0), Max: ptr(60)}},
			},
			Data: [][]*float64{{}, {}, {}, {}},
			Queries: []schema.QueryState{
				{Role: schema.ShortRole, Status: schema.SuccessStatus},
				{Role: schema.LongRole, Status: schema.SuccessStatus},
			},
		},
	}
}

func testLoadingView() schema.PanelView {
	return schema.PanelView{Title: "Burnrate", Loading: true, Pending: []schema.QueryRole{schema.LongRole}}
}

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{Output: output, Precision: 2, PrometheusURL: "http://prom:9090"}
}

func TestWritePanelText(t *testing.T) {
	var buf bytes.Buffer
	err := WritePanel(&buf, testChartView(), testConfig(schema.TextOut), 100*time.Millisecond)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Burnrate (step 1m0s)")
	assert.Contains(t, output, "long query failed: timeout")
	assert.Contains(t, output, "rate(a[5m])")
	assert.Contains(t, output, "20.00")
	assert.Contains(t, output, string(schema.BurningLabel))
	assert.Contains(t, output, "14.40")
	assert.Contains(t, output, "Panel rendered in 100ms")
}

func TestWritePanelTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePanel(&buf, testEmptyView(), testConfig(schema.TextOut), time.Millisecond))

	output := buf.String()
	assert.Contains(t, output, "No data in range")
	assert.Contains(t, output, string(schema.NoDataLabel))
}

func TestWritePanelTextLoading(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePanel(&buf, testLoadingView(), testConfig(schema.TextOut), 0))
	assert.Contains(t, buf.String(), "waiting for [long]")
}

func TestWritePanelJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePanel(&buf, testEmptyView(), testConfig(schema.JSONOut), 0))

	var decoded struct {
		Loading bool `json:"loading"`
		Chart   struct {
			Data [][]*float64 `json:"data"`
		} `json:"chart"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.False(t, decoded.Loading)
	assert.Equal(t, [][]*float64{{}, {}, {}, {}}, decoded.Chart.Data)
	assert.Contains(t, buf.String(), `"data": [
      [],
      [],
      [],
      []
    ]`)
}

func TestWritePanelCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePanel(&buf, testChartView(), testConfig(schema.CSVOut), 0))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, []string{"time", "short", "threshold"}, records[0])
	assert.Equal(t, "1970-01-01T00:00:00Z", records[1][0])
	assert.Equal(t, "0.50", records[1][1])
	assert.Equal(t, "", records[4][1])
	assert.Equal(t, "14.40", records[4][2])
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritePanelCSVWriteError(t *testing.T) {
	err := WritePanel(failingWriter{}, testChartView(), testConfig(schema.CSVOut), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestWritePanelCSVLoading(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WritePanel(&buf, testLoadingView(), testConfig(schema.CSVOut), 0))
}

func TestWritePanelParquet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePanel(&buf, testChartView(), testConfig(schema.ParquetOut), 0))

	reader := pq.NewGenericReader[parquet.Sample](bytes.NewReader(buf.Bytes()))
	defer func() { _ = reader.Close() }()
	assert.Equal(t, int64(8), reader.NumRows())
}

func TestWritePanelHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePanel(&buf, testChartView(), testConfig(schema.HTMLOut), 0))

	output := buf.String()
	assert.Contains(t, output, "<title>Burnrate</title>")
	assert.Contains(t, output, "uPlot.iife.min.js")
	assert.Contains(t, output, `addEventListener("resize", onResize)`)
	assert.Contains(t, output, `removeEventListener("resize", onResize)`)
	assert.Contains(t, output, "long query failed: timeout")
	assert.Regexp(t, `var inset =\s*50\s*;`, output)
}

func TestWritePanelHTMLLoading(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTMLPanel(&buf, testLoadingView()))
	output := buf.String()
	assert.Contains(t, output, `class="spinner"`)
	assert.NotContains(t, output, "new uPlot")
}

func TestWritePanelPNG(t *testing.T) {
	for _, view := range []schema.PanelView{testChartView(), testEmptyView()} {
		var buf bytes.Buffer
		require.NoError(t, WritePanel(&buf, view, testConfig(schema.PNGOut), 0))

		img, err := png.Decode(&buf)
		require.NoError(t, err)
		assert.Equal(t, 450, img.Bounds().Dx())
	}
}

func TestWritePanelSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePanel(&buf, testChartView(), testConfig(schema.SVGOut), 0))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "<?xml"))
	assert.Contains(t, output, "<polyline")
	assert.Contains(t, output, "stroke:#d32f2f")
	assert.Contains(t, output, "stroke-dasharray:5,5")
	// The short series breaks at the 60s -> 300s gap.
	assert.Contains(t, output, "<circle")
	assert.Contains(t, output, "</svg>")
}

func TestPrintPanelToFile(t *testing.T) {
	cfg := testConfig(schema.JSONOut)
	cfg.OutputFile = filepath.Join(t.TempDir(), "panel.json")

	require.NoError(t, PrintPanel(testChartView(), cfg, 0))

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title": "Burnrate"`)
}

func TestSampleRecords(t *testing.T) {
	records := SampleRecords(testChartView().Chart, 7)
	require.Len(t, records, 8)
	assert.Equal(t, int64(7), records[0].RenderID)
	assert.Equal(t, "short", records[0].Series)
	assert.Equal(t, "threshold", records[1].Series)
	assert.Nil(t, records[6].Value)
	assert.Equal(t, time.Unix(360, 0).UTC(), records[7].Timestamp)

	assert.Nil(t, SampleRecords(testEmptyView().Chart, 1))
}

func TestDenseColumn(t *testing.T) {
	mask := &schema.GapMaskSpec{MaxDelta: 90}
	times := []float64{0, 30, 60, 300}
	col := []*float64{ptr(1), nil, ptr(2), ptr(3)}

	out := denseColumn(times, col, mask)
	assert.Equal(t, 1.0, out[1])
	assert.Equal(t, 3.0, out[3])

	col = []*float64{ptr(1), nil, nil, ptr(3)}
	out = denseColumn(times, col, mask)
	assert.True(t, out[1] != out[1], "gap must stay NaN")
}

func TestWriteHistoryStatus(t *testing.T) {
	status := schema.HistoryStatus{
		Backend:      "sqlite",
		Connected:    true,
		TotalRenders: 2,
		TotalSamples: 10,
		TableSizes:   map[string]int64{"burnrate_samples": 10, "burnrate_renders": 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteHistoryStatus(&buf, status, testConfig(schema.TextOut)))
	output := buf.String()
	assert.Contains(t, output, "History Backend: sqlite")
	assert.Contains(t, output, "Total Renders: 2")
	assert.Less(t, strings.Index(output, "burnrate_renders"), strings.Index(output, "burnrate_samples"))

	buf.Reset()
	require.NoError(t, WriteHistoryStatus(&buf, status, testConfig(schema.JSONOut)))
	assert.Contains(t, buf.String(), `"total_renders": 2`)
}

func TestWritePanelDefinitions(t *testing.T) {
	cfg := testConfig(schema.TextOut)
	var buf bytes.Buffer
	require.NoError(t, WritePanelDefinitions(&buf, cfg))
	assert.Contains(t, buf.String(), "No panels configured")

	cfg.Panels = map[string]contract.PanelDefinition{
		"checkout": {Name: "checkout", Short: "s", Long: "l", Threshold: 14.4},
	}
	buf.Reset()
	require.NoError(t, WritePanelDefinitions(&buf, cfg))
	assert.Contains(t, buf.String(), "checkout")
	assert.Contains(t, buf.String(), "14.40")
}

func TestCreateFormatters(t *testing.T) {
	fmtFloat, fmtCell := createFormatters(3)
	assert.Equal(t, "3.142", fmtFloat(3.14159))
	assert.Equal(t, "", fmtCell(nil))
	assert.Equal(t, "1.000", fmtCell(ptr(1)))
}

func TestWriteJSONIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestWriteWithFileStdout(t *testing.T) {
	called := false
	err := writeWithFile("", func(w io.Writer) error {
		called = true
		assert.Equal(t, os.Stdout, w)
		return nil
	}, "noop")
	require.NoError(t, err)
	assert.True(t, called)
}
