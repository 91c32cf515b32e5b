package prediction

import (
	"fmt"

	"github.com/Skufu/heartcheck/internal/health"
)

// Classifier is a pre-trained binary classifier over a feature vector in Columns order.
type Classifier interface {
	Predict(features []float64) (bool, error)
}

// Service turns profiles into risk flags. It holds no per-call state and may be
// shared by any number of sessions.
type Service struct {
	clf Classifier
}

func NewService(clf Classifier) *Service {
	return &Service{clf: clf}
}

// Open loads the model at path and wraps it in a Service.
func Open(path string) (*Service, error) {
	model, err := LoadModel(path)
	if err != nil {
		return nil, err
	}
	return NewService(model), nil
}

// Predict runs one fresh inference. Failures are configuration errors and are not
// retried.
func (s *Service) Predict(p health.Profile) (health.RiskFlag, error) {
	if s == nil || s.clf == nil {
		return false, fmt.Errorf("%w: no classifier loaded", health.ErrConfiguration)
	}

	features, err := BuildFeatures(p)
	if err != nil {
		return false, err
	}

	positive, err := s.clf.Predict(features.Vector())
	if err != nil {
		return false, fmt.Errorf("%w: classify: %v", health.ErrConfiguration, err)
	}
	return health.RiskFlag(positive), nil
}
