package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/limaJavier/cttfeatures/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instance = "Name: S\nDays: 5\nPeriods_per_day: 6\n\nCOURSES:\nc1 t1 3 2 50\nc2 t2 2 1 10\nc3 t3 1 1 200\n\nROOMS:\nr1 30\n\nCURRICULA:\nk1 3 c1 c2 c3\n"

func setupInstances(t *testing.T, names ...string) string {
	t.Helper()
	t.Setenv("ENGINE_CONFIG", "")
	t.Setenv("WORKERS", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	dir := t.TempDir()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(instance), 0o644))
	}
	return dir
}

func TestRunWritesCsv(t *testing.T) {
	//** Arrange
	dir := setupInstances(t, "s1.ctt", "s2.ctt")
	var stdout, stderr bytes.Buffer

	//** Act
	code := run([]string{"-dir", dir, "-log-level", "error"}, &stdout, &stderr)

	//** Assert
	require.Equal(t, exitOk, code, stderr.String())
	rows, err := csv.NewReader(&stdout).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "instance", rows[0][0])
	assert.Equal(t, []string{"s1", "c1"}, rows[1][:2])
	assert.Equal(t, []string{"s2", "c3"}, rows[6][:2])
}

func TestRunWritesJsonFile(t *testing.T) {
	//** Arrange
	dir := setupInstances(t, "s1.ctt")
	out := filepath.Join(t.TempDir(), "features.json")
	var stdout, stderr bytes.Buffer

	//** Act
	code := run([]string{"-format", "JSON", "-out", out, "-workers", "2", "-summary", filepath.Join(dir, "s1.ctt")}, &stdout, &stderr)

	//** Assert
	require.Equal(t, exitOk, code, stderr.String())
	assert.Zero(t, stdout.Len())
	content, err := os.ReadFile(out)
	require.NoError(t, err)
	var records []model.CourseFeatures
	require.NoError(t, json.Unmarshal(content, &records))
	require.Len(t, records, 3)
	assert.InDelta(t, 0.8925, records[0].DifficultyScore, 1e-9)
	assert.Contains(t, stderr.String(), "batch summary")
}

func TestRunMissingFileIsReported(t *testing.T) {
	//** Arrange
	dir := setupInstances(t, "s1.ctt")
	var stdout, stderr bytes.Buffer
	files := strings.Join([]string{filepath.Join(dir, "s1.ctt"), filepath.Join(dir, "absent.ctt")}, ",")

	//** Act
	code := run([]string{"-file", files, "-log-level", "warn"}, &stdout, &stderr)

	//** Assert
	assert.Equal(t, exitOk, code)
	assert.Contains(t, stderr.String(), "absent")
	rows, err := csv.NewReader(&stdout).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestRunExitCodes(t *testing.T) {
	scenarios := map[string]struct {
		args []string
		code int
	}{
		"No input":          {args: []string{}, code: exitInvalidArgs},
		"Unknown format":    {args: []string{"-file", "x.ctt", "-format", "xml"}, code: exitInvalidArgs},
		"Negative workers":  {args: []string{"-file", "x.ctt", "-workers", "-1"}, code: exitInvalidArgs},
		"Unknown flag":      {args: []string{"-verbose"}, code: exitInvalidArgs},
		"Help":              {args: []string{"-h"}, code: exitOk},
		"Missing directory": {args: []string{"-dir", "/nonexistent/instances"}, code: exitFailure},
	}

	for name, scenario := range scenarios {
		t.Run(name, func(t *testing.T) {
			setupInstances(t)
			var stdout, stderr bytes.Buffer

			code := run(scenario.args, &stdout, &stderr)

			assert.Equal(t, scenario.code, code, stderr.String())
		})
	}

	t.Run("Empty directory", func(t *testing.T) {
		dir := setupInstances(t)
		var stdout, stderr bytes.Buffer

		code := run([]string{"-dir", dir}, &stdout, &stderr)

		assert.Equal(t, exitNoDocuments, code)
	})

	t.Run("Invalid engine configuration", func(t *testing.T) {
		dir := setupInstances(t, "s1.ctt")
		config := filepath.Join(t.TempDir(), "engine.json")
		require.NoError(t, os.WriteFile(config, []byte(`{"defaultDays": -2}`), 0o644))
		var stdout, stderr bytes.Buffer

		code := run([]string{"-dir", dir, "-config", config}, &stdout, &stderr)

		assert.Equal(t, exitInvalidArgs, code)
	})
}
