// Package main provides a performance benchmarking tool for the Burnrate CLI.
// It measures panel render times across range windows and output formats against a live Prometheus,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - burnrate binary installed and available in PATH
// - A reachable Prometheus that scrapes itself (the default queries use prometheus_http_requests_total)
//
// Usage: go run benchmark/main.go [prometheus-url]
//
//	prometheus-url: Base URL of the Prometheus HTTP API
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-record average, cold run and average of warm runs).
type BenchmarkResult struct {
	Window       string
	Output       string
	NoRecordTime string
	ColdTime     string
	WarmTime     string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	PrometheusURL string
	Timeout       time.Duration
	NoRecordRuns  int
	RecordRuns    int
	Short         string
	Long          string
	Threshold     string
	Windows       []string
	Outputs       []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [prometheus-url]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		PrometheusURL: os.Args[1],
		Timeout:       2 * time.Minute,
		NoRecordRuns:  3,
		RecordRuns:    4,
		Short:         `sum(rate(prometheus_http_requests_total{code=~"5.."}[5m])) / sum(rate(prometheus_http_requests_total[5m]))`,
		Long:          `sum(rate(prometheus_http_requests_total{code=~"5.."}[1h])) / sum(rate(prometheus_http_requests_total[1h]))`,
		Threshold:     "0.01",
		Windows:       []string{"1 hour", "1 day", "7 days", "30 days"},
		Outputs:       []string{"json", "png"},
	}

	if err := checkPrerequisites(); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing history...\n")
	clearCmd := exec.Command("burnrate", "history", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear history: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("History cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results, config)
}

// checkPrerequisites verifies that the burnrate binary exists
func checkPrerequisites() error {
	if _, err := exec.LookPath("burnrate"); err != nil {
		return fmt.Errorf("burnrate binary not found in PATH")
	}
	return nil
}

// runBenchmarks executes all benchmark tests across configured windows and outputs
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d windows, %d outputs, %v timeout, no-record: %d runs, record: %d runs\n",
		len(config.Windows), len(config.Outputs), config.Timeout, config.NoRecordRuns, config.RecordRuns)

	for _, window := range config.Windows {
		for _, output := range config.Outputs {
			results = append(results, runBenchmarkSuite(config, window, output))
		}
	}

	return results
}

// runBenchmarkSuite runs both no-record and record benchmarks for one window and output
func runBenchmarkSuite(config BenchmarkConfig, window, output string) BenchmarkResult {
	fmt.Printf("Running %s panel over %s\n", output, window)

	runPhase := func(record bool, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, window, output, record, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noRecordAvg := runPhase(false, config.NoRecordRuns, "No-record")
	coldTime, warmAvg := runPhase(true, config.RecordRuns, "Record")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-record average: %s, Cold time: %s, Warm average: %s\n", noRecordAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Window:       window,
		Output:       output,
		NoRecordTime: noRecordAvg,
		ColdTime:     coldTimeStr,
		WarmTime:     warmAvg,
	}
}

// runBenchmark renders a panel multiple times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, window, output string, record bool, numRuns int) (coldTime float64, warmTimes []float64) {
	outputFile := fmt.Sprintf("/tmp/burnrate_benchmark.%s", output)
	args := []string{
		"panel",
		"--prometheus-url", config.PrometheusURL,
		"--short", config.Short,
		"--long", config.Long,
		"--threshold", config.Threshold,
		"--window", window,
		"--output", output,
		"--output-file", outputFile,
		"--timeout", config.Timeout.String(),
	}
	if record {
		args = append(args, "--record")
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("burnrate", args...)

		done := make(chan bool)
		var out []byte
		var cmdErr error

		go func() {
			out, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(out, outputFile) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout + 10*time.Second):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks that the command reported writing its output file
func isSuccess(output []byte, outputFile string) bool {
	outputStr := string(output)
	if !strings.Contains(outputStr, outputFile) {
		return false
	}
	info, err := os.Stat(outputFile)
	return err == nil && info.Size() > 0
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/burnrate_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"window", "output", "no_record_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Window, result.Output, result.NoRecordTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult, config BenchmarkConfig) {
	fmt.Printf("Benchmark complete\n")

	for _, output := range config.Outputs {
		fmt.Printf("%s panels:\n", strings.ToUpper(output))
		for _, result := range results {
			if result.Output == output {
				fmt.Printf("  %-8s: No-record: %s, Cold: %s, Warm: %s\n", result.Window, result.NoRecordTime, result.ColdTime, result.WarmTime)
			}
		}
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
