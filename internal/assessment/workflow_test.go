package assessment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/heartcheck/internal/diet"
	"github.com/Skufu/heartcheck/internal/health"
	"github.com/Skufu/heartcheck/internal/prediction"
	"github.com/Skufu/heartcheck/internal/report"
)

type constantClassifier bool

func (c constantClassifier) Predict([]float64) (bool, error) {
	return bool(c), nil
}

type failingPredictor struct{}

func (failingPredictor) Predict(health.Profile) (health.RiskFlag, error) {
	return false, health.ErrConfiguration
}

type captureRenderer struct {
	views []View
}

func (c *captureRenderer) Render(v View) error {
	c.views = append(c.views, v)
	return nil
}

func alice() health.Profile {
	return health.Profile{
		Name:          "Alice",
		Age:           45,
		Gender:        health.Female,
		BloodPressure: 130,
		Cholesterol:   210,
		ChestPainType: "2",
	}
}

func newWorkflow(result bool) *Workflow {
	return New(prediction.NewService(constantClassifier(result)), report.NewCompiler())
}

func TestNewWorkflowStartsAtHome(t *testing.T) {
	w := newWorkflow(false)
	s := w.State()
	assert.Equal(t, PageHome, s.Page)
	assert.Nil(t, s.Profile)
	assert.Nil(t, s.Risk)
}

func TestSubmitInvalidFormStaysHome(t *testing.T) {
	w := newWorkflow(true)

	err := w.Submit(health.Profile{Name: "", Age: 17, Gender: health.Female, BloodPressure: 130, Cholesterol: 210, ChestPainType: "2"})

	var verr *health.ValidationError
	require.True(t, errors.As(err, &verr), "got %v", err)
	s := w.State()
	assert.Equal(t, PageHome, s.Page)
	assert.Nil(t, s.Profile)
	assert.Nil(t, s.Risk)
}

func TestSubmitValidFormReachesResults(t *testing.T) {
	w := newWorkflow(false)

	require.NoError(t, w.Submit(alice()))

	s := w.State()
	assert.Equal(t, PageResults, s.Page)
	require.NotNil(t, s.Profile)
	assert.Equal(t, "Alice", s.Profile.Name)
	require.NotNil(t, s.Risk)
	assert.False(t, bool(*s.Risk))
}

func TestSubmitPredictionFailureLeavesStateUntouched(t *testing.T) {
	w := New(failingPredictor{}, report.NewCompiler())

	err := w.Submit(alice())
	assert.ErrorIs(t, err, health.ErrConfiguration)
	assert.Equal(t, PageHome, w.Page())
	assert.Nil(t, w.State().Profile)

	err = New(nil, nil).Submit(alice())
	assert.ErrorIs(t, err, health.ErrConfiguration)
}

func TestDietRoundTripKeepsRisk(t *testing.T) {
	w := newWorkflow(true)
	require.NoError(t, w.Submit(alice()))
	before := *w.State().Risk

	require.NoError(t, w.ViewDiet())
	assert.Equal(t, PageDiet, w.Page())
	require.NoError(t, w.Back())

	assert.Equal(t, PageResults, w.Page())
	assert.Equal(t, before, *w.State().Risk)
}

func TestStartOverClearsSession(t *testing.T) {
	w := newWorkflow(true)
	require.NoError(t, w.Submit(alice()))

	require.NoError(t, w.StartOver())

	s := w.State()
	assert.Equal(t, PageHome, s.Page)
	assert.Nil(t, s.Profile)
	assert.Nil(t, s.Risk)

	_, err := w.Download()
	assert.ErrorIs(t, err, health.ErrPrecondition)
	_, err = w.DietPlan()
	assert.ErrorIs(t, err, health.ErrPrecondition)
}

func TestDownloadIsSelfTransition(t *testing.T) {
	w := newWorkflow(false)
	require.NoError(t, w.Submit(alice()))

	r, err := w.Download()
	require.NoError(t, err)
	assert.NotEmpty(t, r.Data)
	assert.Equal(t, PageResults, w.Page())

	require.NoError(t, w.ViewDiet())
	r, err = w.Download()
	require.NoError(t, err)
	assert.Contains(t, string(r.Data), "No Heart Disease Detected")
	assert.Equal(t, PageDiet, w.Page())
}

func TestInvalidTransitions(t *testing.T) {
	w := newWorkflow(false)
	assert.ErrorIs(t, w.ViewDiet(), ErrInvalidTransition)
	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)
	assert.ErrorIs(t, w.StartOver(), ErrInvalidTransition)

	require.NoError(t, w.Submit(alice()))
	assert.ErrorIs(t, w.Submit(alice()), ErrInvalidTransition)
	assert.ErrorIs(t, w.Back(), ErrInvalidTransition)

	require.NoError(t, w.ViewDiet())
	assert.ErrorIs(t, w.StartOver(), ErrInvalidTransition)
	assert.ErrorIs(t, w.ViewDiet(), ErrInvalidTransition)
}

func TestStateReturnsCopies(t *testing.T) {
	w := newWorkflow(true)
	require.NoError(t, w.Submit(alice()))

	s := w.State()
	s.Profile.Name = "Mallory"
	*s.Risk = false

	assert.Equal(t, "Alice", w.State().Profile.Name)
	assert.True(t, bool(*w.State().Risk))
}

func TestHighRiskScenario(t *testing.T) {
	w := newWorkflow(true)
	require.NoError(t, w.Submit(health.Profile{
		Name:          "Bob",
		Age:           60,
		Gender:        health.Male,
		BloodPressure: 150,
		Cholesterol:   280,
		ChestPainType: "1",
	}))

	require.NotNil(t, w.State().Risk)
	assert.True(t, bool(*w.State().Risk))

	plan, err := w.DietPlan()
	require.NoError(t, err)
	assert.Equal(t, diet.Recommend(true), plan)

	r, err := w.Download()
	require.NoError(t, err)
	assert.Contains(t, string(r.Data), "Heart Disease Detected")
	assert.NotContains(t, string(r.Data), "No Heart Disease Detected")
}

func TestViewPerPage(t *testing.T) {
	w := newWorkflow(true)
	rec := &captureRenderer{}

	require.NoError(t, w.Render(rec))
	require.NoError(t, w.Submit(alice()))
	require.NoError(t, w.Render(rec))
	require.NoError(t, w.ViewDiet())
	require.NoError(t, w.Render(rec))
	require.Len(t, rec.views, 3)

	home, results, dietView := rec.views[0], rec.views[1], rec.views[2]
	assert.Equal(t, []string{"submit"}, home.Actions)
	assert.Nil(t, home.Risk)
	assert.Empty(t, home.Verdict)

	assert.Equal(t, PageResults, results.Page)
	assert.Equal(t, "Heart Disease Detected", results.Verdict)
	assert.Nil(t, results.Diet)

	require.NotNil(t, dietView.Diet)
	assert.Equal(t, "Diet Recommendations for Heart Health Improvement", dietView.Diet.Title)
	assert.Equal(t, []string{"back", "download"}, dietView.Actions)
}
