package assessment

import (
	"errors"
	"fmt"

	"github.com/Skufu/heartcheck/internal/diet"
	"github.com/Skufu/heartcheck/internal/health"
	"github.com/Skufu/heartcheck/internal/report"
)

type Page string

const (
	PageHome    Page = "home"
	PageResults Page = "results"
	PageDiet    Page = "diet"
)

// ErrInvalidTransition is returned for an action the current page does not offer.
var ErrInvalidTransition = errors.New("invalid transition")

// Predictor classifies a validated profile.
type Predictor interface {
	Predict(p health.Profile) (health.RiskFlag, error)
}

// Compiler turns a completed assessment into a downloadable report.
type Compiler interface {
	Compile(profile *health.Profile, risk *health.RiskFlag, plan *diet.Plan) (report.Report, error)
}

// State is the data one session carries between pages.
type State struct {
	Page    Page
	Profile *health.Profile
	Risk    *health.RiskFlag
}

// Workflow drives one user's pass through intake, results and diet pages. It is not
// safe for concurrent use; each session owns its own Workflow.
type Workflow struct {
	state     State
	predictor Predictor
	compiler  Compiler
}

func New(predictor Predictor, compiler Compiler) *Workflow {
	return &Workflow{
		state:     State{Page: PageHome},
		predictor: predictor,
		compiler:  compiler,
	}
}

// State returns a copy of the session state.
func (w *Workflow) State() State {
	s := State{Page: w.state.Page}
	if w.state.Profile != nil {
		p := *w.state.Profile
		s.Profile = &p
	}
	if w.state.Risk != nil {
		r := *w.state.Risk
		s.Risk = &r
	}
	return s
}

func (w *Workflow) Page() Page {
	return w.state.Page
}

// Submit validates the intake, runs the prediction and moves to the results page.
// The session is left untouched when validation or prediction fails.
func (w *Workflow) Submit(p health.Profile) error {
	if err := w.expect("submit", PageHome); err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	if w.predictor == nil {
		return fmt.Errorf("%w: no prediction service", health.ErrConfiguration)
	}

	risk, err := w.predictor.Predict(p)
	if err != nil {
		return fmt.Errorf("predict: %w", err)
	}

	w.state = State{Page: PageResults, Profile: &p, Risk: &risk}
	return nil
}

func (w *Workflow) ViewDiet() error {
	if err := w.expect("view diet", PageResults); err != nil {
		return err
	}
	w.state.Page = PageDiet
	return nil
}

func (w *Workflow) Back() error {
	if err := w.expect("back", PageDiet); err != nil {
		return err
	}
	w.state.Page = PageResults
	return nil
}

// StartOver discards the profile and prediction and returns to the home page.
func (w *Workflow) StartOver() error {
	if err := w.expect("start over", PageResults); err != nil {
		return err
	}
	w.state = State{Page: PageHome}
	return nil
}

// DietPlan returns the plan for the stored prediction.
func (w *Workflow) DietPlan() (diet.Plan, error) {
	if w.state.Risk == nil {
		return diet.Plan{}, fmt.Errorf("%w: no prediction in session", health.ErrPrecondition)
	}
	return diet.Recommend(*w.state.Risk), nil
}

// Download compiles a report from the session without changing the page.
func (w *Workflow) Download() (report.Report, error) {
	if w.state.Profile == nil || w.state.Risk == nil {
		return report.Report{}, fmt.Errorf("%w: no completed assessment in session", health.ErrPrecondition)
	}
	if err := w.expect("download", PageResults, PageDiet); err != nil {
		return report.Report{}, err
	}
	if w.compiler == nil {
		return report.Report{}, fmt.Errorf("%w: no report compiler", health.ErrConfiguration)
	}

	plan := diet.Recommend(*w.state.Risk)
	return w.compiler.Compile(w.state.Profile, w.state.Risk, &plan)
}

func (w *Workflow) expect(action string, pages ...Page) error {
	for _, p := range pages {
		if w.state.Page == p {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s from %s", ErrInvalidTransition, action, w.state.Page)
}
