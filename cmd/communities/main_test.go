package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/graphio"
)

const twoTriangles = `{
  "nodes": ["a", "b", "c", "x", "y", "z"],
  "edges": [
    {"source": "a", "target": "b"}, {"source": "b", "target": "c"}, {"source": "a", "target": "c"},
    {"source": "x", "target": "y"}, {"source": "y", "target": "z"}, {"source": "x", "target": "z"}
  ]
}`

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"COMMUNITIES_LOG_LEVEL", "COMMUNITIES_METRICS_FILE", "COMMUNITIES_WORKERS", "COMMUNITIES_SEED"} {
		t.Setenv(key, "")
	}
}

func writeInput(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRun_WritesResultAndMetrics(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.json", twoTriangles)
	output := filepath.Join(dir, "result.json")
	metricsFile := filepath.Join(dir, "communities.prom")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-input", input,
		"-output", output,
		"-restarts", "3",
		"-workers", "2",
		"-metrics-file", metricsFile,
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc graphio.ResultDocument
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Len(t, doc.Communities, 2)
	assert.Equal(t, doc.Assignment["a"], doc.Assignment["c"])
	assert.Equal(t, doc.Assignment["x"], doc.Assignment["z"])
	assert.NotEqual(t, doc.Assignment["a"], doc.Assignment["x"])
	assert.Equal(t, int64(1), doc.Seed, "ties go to the first seed")

	assert.Contains(t, stdout.String(), "Community detection")
	assert.Contains(t, stdout.String(), "Largest communities")
	assert.Contains(t, stderr.String(), "graph loaded")
	assert.Contains(t, stderr.String(), "result written")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `communities_detection_runs_total{status="success"} 3`)
	assert.Contains(t, string(prom), `communities_input_loads_total{format="json",status="success"} 1`)
	assert.Contains(t, string(prom), "communities_detection_restarts_total 3")
}

func TestRun_StdoutOutput(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeInput(t, dir, "graph", twoTriangles)

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"-input", input, "-log-level", "error"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.True(t, json.Valid(stdout.Bytes()), stdout.String())
	assert.Contains(t, stderr.String(), "Community detection")
	assert.NotContains(t, stderr.String(), "graph loaded")
}

func TestRun_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.json", twoTriangles)
	cfgPath := writeInput(t, dir, "config.yaml", `detection:
  seed: 5
  restarts: 2
  workers: 1
output:
  format: yaml
  indent: false
`)
	output := filepath.Join(dir, "result.out")

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{
		"-input", input, "-config", cfgPath, "-output", output, "-seed", "9", "-no-summary",
	}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var doc graphio.ResultDocument
	require.NoError(t, yaml.Unmarshal(data, &doc))
	assert.Equal(t, int64(9), doc.Seed, "flags override the config file")
	assert.Len(t, doc.Assignment, 6)
}

func TestRun_Errors(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	input := writeInput(t, dir, "graph.json", twoTriangles)
	invalid := writeInput(t, dir, "invalid.json", `{"nodes": ["a"], "edges": [{"source": "a", "target": "b"}]}`)
	badConfig := writeInput(t, dir, "bad.yaml", "detection:\n  restarts: 0\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input", nil, "-input is required"},
		{"unknown flag", []string{"-input", input, "-bogus"}, "flag provided but not defined"},
		{"extra argument", []string{"-input", input, "extra"}, "unexpected arguments"},
		{"missing file", []string{"-input", filepath.Join(dir, "nope.json")}, "nope.json"},
		{"undeclared node", []string{"-input", invalid}, "invalid input"},
		{"restarts out of range", []string{"-input", input, "-restarts", "0"}, "Detection.Restarts"},
		{"config out of range", []string{"-input", input, "-config", badConfig}, "Detection.Restarts"},
		{"bad log level", []string{"-input", input, "-log-level", "loud"}, "Logging"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tt.args, &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	clearEnv(t)
	input := writeInput(t, t.TempDir(), "graph.json", twoTriangles)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	err := run(ctx, []string{"-input", input}, &stdout, &stderr)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, stdout.String())
}

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		path       string
		configured graphio.Format
		want       graphio.Format
	}{
		{"", graphio.FormatJSON, graphio.FormatJSON},
		{"out.yaml", graphio.FormatJSON, graphio.FormatYAML},
		{"out.YML.sz", graphio.FormatJSON, graphio.FormatYAML},
		{"out.json.sz", graphio.FormatYAML, graphio.FormatJSON},
		{"out.txt", graphio.FormatYAML, graphio.FormatYAML},
	}

	for _, tt := range tests {
		if got := outputFormat(tt.path, tt.configured); got != tt.want {
			t.Errorf("outputFormat(%q, %q) = %q, want %q", tt.path, tt.configured, got, tt.want)
		}
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a, b", preview([]string{"a", "b"}))
	got := preview(strings.Split("a b c d e f g", " "))
	assert.Equal(t, "a, b, c, d, e, …", got)
}
