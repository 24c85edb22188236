package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goeda/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c\n1,4,x\n2,5,y\n3,6,z\n"), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInfoText(t *testing.T) {
	out, err := run(t, "info", writeScenario(t))
	require.NoError(t, err)
	assert.Contains(t, out, "## Basic Information")
	assert.Contains(t, out, "**Shape:** 3 rows × 3 columns")
	assert.Contains(t, out, "| c | object |")
}

func TestViewJSON(t *testing.T) {
	out, err := run(t, "view", writeScenario(t), "summary_statistics", "--format", "json")
	require.NoError(t, err)

	var res struct {
		View    string `json:"view"`
		Summary struct {
			Numeric []struct {
				Column string  `json:"column"`
				Mean   float64 `json:"mean"`
			} `json:"numeric"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "summary_statistics", res.View)
	require.Len(t, res.Summary.Numeric, 2)
	assert.Equal(t, 2.0, res.Summary.Numeric[0].Mean)
}

func TestViewYAML(t *testing.T) {
	out, err := run(t, "view", writeScenario(t), "Correlation Matrix", "--format", "yaml")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "correlation_matrix", doc["view"])
}

func TestViewWritesCharts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")
	out, err := run(t, "view", writeScenario(t), "outlier_detection", "--columns", "a,b", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Chart written to")

	for _, name := range []string{"outlier_detection-0.svg", "outlier_detection-1.svg"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "<svg")
	}
}

func TestViewEmptyColumnsSelection(t *testing.T) {
	out, err := run(t, "view", writeScenario(t), "pairplot", "--columns", "")
	require.NoError(t, err)
	assert.Contains(t, out, "Please select at least one numerical column for the pairplot.")
}

func TestReportToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.md")
	_, err := run(t, "report", writeScenario(t), "--markdown", "--out", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# EDA report: scenario.csv"))
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "view", writeScenario(t), "violin")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = run(t, "info", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = run(t, "info", writeScenario(t), "--format", "xml")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
