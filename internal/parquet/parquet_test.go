package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/burnrate-dev/burnrate/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRenders() []schema.RenderRecord {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []schema.RenderRecord{
		{
			RenderID:    1,
			Panel:       "checkout",
			Short:       "rate(errors[5m])",
			Long:        "rate(errors[1h])",
			Threshold:   14.4,
			RangeStart:  now.Add(-24 * time.Hour),
			RangeEnd:    now,
			StepSeconds: 87,
			ShortStatus: schema.SuccessStatus,
			LongStatus:  schema.ErrorStatus,
			Points:      3,
			RenderedAt:  now,
		},
	}
}

func sampleSamples() []schema.SampleRecord {
	ts := time.Unix(1700000000, 0).UTC()
	return []schema.SampleRecord{
		{RenderID: 1, Timestamp: ts, Series: "short", Value: schema.Float64Ptr(0.5)},
		{RenderID: 1, Timestamp: ts, Series: "long", Value: nil},
		{RenderID: 1, Timestamp: ts, Series: "threshold", Value: schema.Float64Ptr(14.4)},
	}
}

func TestRenderStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	s := parquet.SchemaOf(new(Render))
	require.NotNil(t, s)

	expectedColumns := []string{
		"render_id", "panel", "short_query", "long_query", "threshold",
		"range_start", "range_end", "step_seconds", "short_status",
		"long_status", "points", "rendered_at",
	}
	for _, colName := range expectedColumns {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestSampleStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(Sample))
	require.NotNil(t, s)

	for _, colName := range []string{"render_id", "timestamp", "series", "value"} {
		_, ok := s.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
	}
}

func TestWriteRendersParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "renders.parquet")
	data := ConvertRenderRecords(sampleRenders())

	require.NoError(t, WriteRendersParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[Render](file)
	defer func() { _ = reader.Close() }()

	readData := make([]Render, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, len(data), n)
	assert.Equal(t, data[0].RenderID, readData[0].RenderID)
	assert.Equal(t, "checkout", readData[0].Panel)
	assert.Equal(t, "error", readData[0].LongStatus)
	assert.InDelta(t, 14.4, readData[0].Threshold, 0.0001)
	assert.Equal(t, int32(3), readData[0].Points)
}

func TestWriteSamplesNullable(t *testing.T) {
	data := ConvertSampleRecords(sampleSamples())

	var buf bytes.Buffer
	require.NoError(t, WriteSamples(&buf, data))

	reader := parquet.NewGenericReader[Sample](bytes.NewReader(buf.Bytes()))
	defer func() { _ = reader.Close() }()

	readData := make([]Sample, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 3, n)
	require.NotNil(t, readData[0].Value)
	assert.InDelta(t, 0.5, *readData[0].Value, 0.0001)
	assert.Nil(t, readData[1].Value)
	assert.Equal(t, "threshold", readData[2].Series)
}

func TestWriteSamplesParquet_EmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteSamplesParquet([]Sample{}, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
