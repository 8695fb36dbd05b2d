package core

import (
	"math"
	"time"
)

const (
	// targetPoints is how many evaluations a range query aims for.
	targetPoints = 1000

	// minStep is the smallest resolution a range query uses.
	minStep = 5 * time.Second

	// gapFactor scales the step into the largest delta still drawn connected.
	gapFactor = 1.5
)

// Step returns the query resolution for the range [from, to].
// It targets a fixed number of points, rounded up to whole seconds, never below minStep.
func Step(from, to time.Time) time.Duration {
	span := to.Sub(from)
	if span <= 0 {
		return minStep
	}
	secs := math.Ceil(span.Seconds() / targetPoints)
	step := time.Duration(secs) * time.Second
	if step < minStep {
		return minStep
	}
	return step
}

// stepSeconds is Step over a range given in unix seconds.
func stepSeconds(from, to float64) float64 {
	return Step(secondsToTime(from), secondsToTime(to)).Seconds()
}

// secondsToTime converts fractional unix seconds to a time.Time.
func secondsToTime(s float64) time.Time {
	return time.UnixMilli(int64(math.Round(s * 1000)))
}
