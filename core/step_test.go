package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStep(t *testing.T) {
	base := time.Unix(1700000000, 0)
	tests := []struct {
		name     string
		span     time.Duration
		expected time.Duration
	}{
		{"one minute uses the floor", time.Minute, 5 * time.Second},
		{"zero span", 0, 5 * time.Second},
		{"negative span", -time.Hour, 5 * time.Second},
		{"one hour", time.Hour, 5 * time.Second},
		{"six hours", 6 * time.Hour, 22 * time.Second},
		{"one day", 24 * time.Hour, 87 * time.Second},
		{"seven days", 7 * 24 * time.Hour, 605 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Step(base, base.Add(tt.span)))
		})
	}
}

func TestStepSeconds(t *testing.T) {
	assert.Equal(t, 87.0, stepSeconds(0, 86400))
	assert.Equal(t, 5.0, stepSeconds(0, 60))
}
