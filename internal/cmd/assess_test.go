package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/heartcheck/internal/health"
)

var shippedModel = filepath.Join("..", "..", "models", "heart_disease_model.yaml")

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAssessHighRiskWithDietAndReport(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "report.pdf")

	out, err := runCommand(t, "assess",
		"--name", "Bob", "--age", "60", "--gender", "Male",
		"--blood-pressure", "150", "--cholesterol", "280", "--chest-pain", "1",
		"--model", shippedModel, "--diet", "--report", reportPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Heart Disease Detected")
	assert.Contains(t, out, "Typical Angina (1)")
	assert.Contains(t, out, "Diet Recommendations for Heart Health Improvement")
	assert.Contains(t, out, "Foods to Avoid")
	assert.Contains(t, out, "Report written to")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestAssessLowRisk(t *testing.T) {
	out, err := runCommand(t, "assess",
		"--name", "Alice", "--age", "45", "--gender", "Female",
		"--blood-pressure", "130", "--cholesterol", "210", "--chest-pain", "2",
		"--model", shippedModel)
	require.NoError(t, err)

	assert.Contains(t, out, "No Heart Disease Detected")
	assert.NotContains(t, out, "Diet Recommendations")
}

func TestAssessRejectsInvalidInput(t *testing.T) {
	_, err := runCommand(t, "assess", "--age", "17", "--model", shippedModel)

	var verr *health.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestAssessMissingModel(t *testing.T) {
	_, err := runCommand(t, "assess",
		"--name", "Alice", "--age", "45", "--gender", "Female",
		"--blood-pressure", "130", "--cholesterol", "210",
		"--model", filepath.Join(t.TempDir(), "none.yaml"))
	assert.ErrorIs(t, err, health.ErrConfiguration)
}
