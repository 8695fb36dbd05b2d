package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteVersion(t *testing.T) {
	var buf bytes.Buffer
	writeVersion(&buf, "v1.22.0")

	out := buf.String()
	assert.Contains(t, out, "burnrate CLI")
	assert.Contains(t, out, "Version:    dev")
	assert.Contains(t, out, "Prometheus: client_golang v1.22.0")
	assert.Contains(t, out, "Outputs:    csv, html, json, parquet, png, svg, text")
	assert.Contains(t, out, "History:    mysql, none, postgresql, sqlite")
}

func TestPromClientVersion(t *testing.T) {
	assert.NotEmpty(t, promClientVersion())
}
