package outwriter

import (
	"encoding/csv"
	"io"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/parquet"
	"github.com/burnrate-dev/burnrate/schema"
)

// writeCSVPanel writes the data matrix one timestamp per row.
func writeCSVPanel(w io.Writer, view schema.PanelView, fmtCell func(*float64) string) error {
	if view.Loading {
		return errStillLoading(view)
	}
	chart := view.Chart
	header := append([]string{"time"}, seriesLabels(chart)...)

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if chart.Empty() {
			return nil
		}
		for row := range chart.Data[0] {
			record := make([]string, 0, len(chart.Data))
			record = append(record, unixTime(*chart.Data[0][row]).Format(contract.DateTimeFormat))
			for col := 1; col < len(chart.Data); col++ {
				record = append(record, fmtCell(chart.Data[col][row]))
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeParquetPanel writes the data matrix as long-format samples.
func writeParquetPanel(w io.Writer, view schema.PanelView) error {
	if view.Loading {
		return errStillLoading(view)
	}
	return parquet.WriteSamples(w, parquet.ConvertSampleRecords(SampleRecords(view.Chart, 0)))
}

// SampleRecords flattens the data matrix into one record per cell.
func SampleRecords(chart *schema.Chart, renderID int64) []schema.SampleRecord {
	if chart == nil || chart.Empty() {
		return nil
	}
	labels := seriesLabels(chart)
	records := make([]schema.SampleRecord, 0, len(chart.Data[0])*len(labels))
	for row, t := range chart.Data[0] {
		ts := unixTime(*t)
		for col := 1; col < len(chart.Data) && col-1 < len(labels); col++ {
			records = append(records, schema.SampleRecord{
				RenderID:  renderID,
				Timestamp: ts,
				Series:    labels[col-1],
				Value:     chart.Data[col][row],
			})
		}
	}
	return records
}
