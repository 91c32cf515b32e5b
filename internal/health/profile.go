package health

import (
	"fmt"
	"strings"
)

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

const (
	MinAge           = 18
	MaxAge           = 100
	MinBloodPressure = 90
	MaxBloodPressure = 200
	MinCholesterol   = 100
	MaxCholesterol   = 500
)

// ChestPainLabels maps the chest-pain codes offered by the intake form to their labels.
var ChestPainLabels = map[string]string{
	"0": "No Pain",
	"1": "Typical Angina",
	"2": "Atypical Angina",
	"3": "Non-anginal Pain",
}

// Profile is the clinical intake submitted on the home page.
type Profile struct {
	Name          string `json:"name"`
	Age           int    `json:"age"`
	Gender        Gender `json:"gender"`
	BloodPressure int    `json:"bloodPressure"`
	Cholesterol   int    `json:"cholesterol"`
	ChestPainType string `json:"chestPainType"`
}

// Validate applies the business rules a submission must pass before a prediction
// may be requested. Widget-level ranges are checked by CheckRanges.
func (p Profile) Validate() error {
	var problems []string
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "name is required")
	}
	if p.Age < MinAge {
		problems = append(problems, fmt.Sprintf("age must be at least %d", MinAge))
	}
	if p.BloodPressure <= 0 {
		problems = append(problems, "blood pressure is required")
	}
	if p.Cholesterol <= 0 {
		problems = append(problems, "cholesterol is required")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// CheckRanges enforces the numeric ranges and enum membership the intake form offers.
func (p Profile) CheckRanges() error {
	var problems []string
	if p.Age < MinAge || p.Age > MaxAge {
		problems = append(problems, fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge))
	}
	if p.Gender != Male && p.Gender != Female {
		problems = append(problems, "gender must be Male or Female")
	}
	if p.BloodPressure < MinBloodPressure || p.BloodPressure > MaxBloodPressure {
		problems = append(problems, fmt.Sprintf("blood pressure must be between %d and %d mmHg", MinBloodPressure, MaxBloodPressure))
	}
	if p.Cholesterol < MinCholesterol || p.Cholesterol > MaxCholesterol {
		problems = append(problems, fmt.Sprintf("cholesterol must be between %d and %d mg/dL", MinCholesterol, MaxCholesterol))
	}
	if _, ok := ChestPainLabels[p.ChestPainType]; !ok {
		problems = append(problems, "chest pain type must be one of 0, 1, 2, 3")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ChestPainLabel returns e.g. "Atypical Angina (2)", or the raw code when unknown.
func (p Profile) ChestPainLabel() string {
	label, ok := ChestPainLabels[p.ChestPainType]
	if !ok {
		return p.ChestPainType
	}
	return fmt.Sprintf("%s (%s)", label, p.ChestPainType)
}

// RiskFlag is the classifier outcome: true when heart disease is predicted.
type RiskFlag bool

func (r RiskFlag) Verdict() string {
	if r {
		return "Heart Disease Detected"
	}
	return "No Heart Disease Detected"
}
