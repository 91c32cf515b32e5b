package prediction

import (
	"fmt"
	"strconv"

	"github.com/Skufu/heartcheck/internal/health"
)

// Columns is the feature order the heart-disease model was fit on. Reordering it
// silently corrupts every prediction.
var Columns = []string{"age", "sex", "cp", "trestbps", "chol"}

// Features is the encoded form of a Profile.
type Features struct {
	Age         float64
	Sex         float64
	ChestPain   float64
	RestingBP   float64
	Cholesterol float64
}

// BuildFeatures encodes a profile: sex is 1 for Male and 0 for Female, the chest-pain
// code is parsed to its integer value and the vitals pass through unchanged.
func BuildFeatures(p health.Profile) (Features, error) {
	var sex float64
	switch p.Gender {
	case health.Male:
		sex = 1
	case health.Female:
		sex = 0
	default:
		return Features{}, fmt.Errorf("%w: unknown gender %q", health.ErrConfiguration, p.Gender)
	}

	cp, err := strconv.Atoi(p.ChestPainType)
	if err != nil || cp < 0 || cp > 3 {
		return Features{}, fmt.Errorf("%w: chest pain type %q is not a code in 0-3", health.ErrConfiguration, p.ChestPainType)
	}

	return Features{
		Age:         float64(p.Age),
		Sex:         sex,
		ChestPain:   float64(cp),
		RestingBP:   float64(p.BloodPressure),
		Cholesterol: float64(p.Cholesterol),
	}, nil
}

// Vector returns the features in Columns order.
func (f Features) Vector() []float64 {
	return []float64{f.Age, f.Sex, f.ChestPain, f.RestingBP, f.Cholesterol}
}
