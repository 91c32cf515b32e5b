package prediction

import (
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/Skufu/heartcheck/internal/health"
)

// LogisticModel is a fitted logistic regression serialized as YAML:
//
//	columns: [age, sex, cp, trestbps, chol]
//	intercept: -6.1
//	coefficients: [0.05, 1.2, 0.6, 0.012, 0.006]
//	threshold: 0.5
type LogisticModel struct {
	Columns      []string  `yaml:"columns"`
	Intercept    float64   `yaml:"intercept"`
	Coefficients []float64 `yaml:"coefficients"`
	Threshold    float64   `yaml:"threshold"`
}

// LoadModel reads and checks a model file. The model is never modified afterwards.
func LoadModel(path string) (*LogisticModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read model: %v", health.ErrConfiguration, err)
	}

	var m LogisticModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parse model %s: %v", health.ErrConfiguration, path, err)
	}
	if err := m.check(); err != nil {
		return nil, fmt.Errorf("%w: model %s: %v", health.ErrConfiguration, path, err)
	}
	return &m, nil
}

func (m *LogisticModel) check() error {
	if !slices.Equal(m.Columns, Columns) {
		return fmt.Errorf("columns %v do not match feature order %v", m.Columns, Columns)
	}
	if len(m.Coefficients) != len(Columns) {
		return fmt.Errorf("expected %d coefficients, got %d", len(Columns), len(m.Coefficients))
	}
	if !finite(m.Intercept) {
		return fmt.Errorf("intercept %v is not a finite number", m.Intercept)
	}
	for i, c := range m.Coefficients {
		if !finite(c) {
			return fmt.Errorf("coefficient for %s is %v, not a finite number", Columns[i], c)
		}
	}
	if !finite(m.Threshold) {
		return fmt.Errorf("threshold %v is not a finite number", m.Threshold)
	}
	if m.Threshold <= 0 || m.Threshold >= 1 {
		m.Threshold = 0.5
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Probability returns the positive-class probability for a feature vector.
func (m *LogisticModel) Probability(features []float64) (float64, error) {
	if len(features) != len(m.Coefficients) {
		return 0, fmt.Errorf("expected %d features, got %d", len(m.Coefficients), len(features))
	}
	z := m.Intercept
	for i, x := range features {
		z += m.Coefficients[i] * x
	}
	p := 1 / (1 + math.Exp(-z))
	if math.IsNaN(p) {
		return 0, fmt.Errorf("probability is not a number for features %v", features)
	}
	return p, nil
}

func (m *LogisticModel) Predict(features []float64) (bool, error) {
	p, err := m.Probability(features)
	if err != nil {
		return false, err
	}
	return p >= m.Threshold, nil
}
