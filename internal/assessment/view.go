package assessment

import (
	"github.com/Skufu/heartcheck/internal/diet"
	"github.com/Skufu/heartcheck/internal/health"
)

// View is what the presentation layer needs to draw the current page.
type View struct {
	Page    Page            `json:"page"`
	Profile *health.Profile `json:"profile,omitempty"`
	Risk    *bool           `json:"risk,omitempty"`
	Verdict string          `json:"verdict,omitempty"`
	Diet    *diet.Plan      `json:"diet,omitempty"`
	Actions []string        `json:"actions"`
}

// Renderer draws a View. Transition logic never depends on how.
type Renderer interface {
	Render(v View) error
}

var actions = map[Page][]string{
	PageHome:    {"submit"},
	PageResults: {"diet", "download", "start-over"},
	PageDiet:    {"back", "download"},
}

func (w *Workflow) View() View {
	s := w.State()
	v := View{
		Page:    s.Page,
		Profile: s.Profile,
		Actions: append([]string(nil), actions[s.Page]...),
	}
	if s.Risk != nil {
		risk := bool(*s.Risk)
		v.Risk = &risk
		v.Verdict = s.Risk.Verdict()
	}
	if s.Page == PageDiet {
		if plan, err := w.DietPlan(); err == nil {
			v.Diet = &plan
		}
	}
	return v
}

// Render hands the current view to r.
func (w *Workflow) Render(r Renderer) error {
	return r.Render(w.View())
}
