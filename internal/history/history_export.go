package history

import (
	"errors"
	"fmt"

	"github.com/burnrate-dev/burnrate/internal/contract"
	"github.com/burnrate-dev/burnrate/internal/parquet"
	"github.com/burnrate-dev/burnrate/schema"
	"golang.org/x/sync/errgroup"
)

// ExecuteHistoryExport writes the recorded history to two Parquet files next to outputFile.
func ExecuteHistoryExport(mgr contract.HistoryManager, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := mgr.GetHistoryStore()
	if store == nil {
		return errors.New("render history is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRenders == 0 {
		return errors.New("no render history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total renders: %d\n", status.TotalRenders)
	fmt.Printf("Total samples: %d\n", status.TotalSamples)

	var (
		renders []schema.RenderRecord
		samples []schema.SampleRecord
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if renders, err = store.GetAllRenders(); err != nil {
			return fmt.Errorf("failed to retrieve renders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if samples, err = store.GetAllSamples(); err != nil {
			return fmt.Errorf("failed to retrieve samples: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	rendersFile := outputFile + ".renders.parquet"
	samplesFile := outputFile + ".samples.parquet"
	parquetRenders := parquet.ConvertRenderRecords(renders)
	parquetSamples := parquet.ConvertSampleRecords(samples)
	g.Go(func() error {
		if err := parquet.WriteRendersParquet(parquetRenders, rendersFile); err != nil {
			return fmt.Errorf("failed to write renders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := parquet.WriteSamplesParquet(parquetSamples, samplesFile); err != nil {
			return fmt.Errorf("failed to write samples: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Exported %d renders to: %s\n", len(parquetRenders), rendersFile)
	fmt.Printf("Exported %d samples to: %s\n", len(parquetSamples), samplesFile)
	return nil
}

// ClearHistory removes every recorded render and sample.
func ClearHistory(mgr contract.HistoryManager) error {
	store := mgr.GetHistoryStore()
	if store == nil {
		return errors.New("render history is not initialized")
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
