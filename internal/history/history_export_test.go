package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/burnrate-dev/burnrate/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteHistoryExport(t *testing.T) {
	store := newSQLiteStore(t)
	id, err := store.RecordRender(testRender("checkout", time.Now()))
	require.NoError(t, err)
	require.NoError(t, store.RecordSamples(id, []schema.SampleRecord{
		{RenderID: id, Timestamp: time.Unix(0, 0), Series: "short", Value: schema.Float64Ptr(1)},
	}))

	mgr := &StoreManager{store: store}
	output := filepath.Join(t.TempDir(), "history")
	require.NoError(t, ExecuteHistoryExport(mgr, output))

	for _, suffix := range []string{".renders.parquet", ".samples.parquet"} {
		info, err := os.Stat(output + suffix)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
}

func TestExecuteHistoryExportErrors(t *testing.T) {
	assert.Error(t, ExecuteHistoryExport(&StoreManager{}, ""))
	assert.Error(t, ExecuteHistoryExport(&StoreManager{}, "out"))

	empty := &StoreManager{store: newSQLiteStore(t)}
	err := ExecuteHistoryExport(empty, filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no render history")
}
