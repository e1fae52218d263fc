package wizard

import (
	"strings"

	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
)

// Form actions posted by wizard pages.
const (
	ActionField  = "action"
	ActionNext   = "next"
	ActionBack   = "back"
	ActionSubmit = "submit"
)

// Page renders the active step into a render.Page. action is the URL the
// form posts to.
func (s *Session) Page(renderer *render.FieldRenderer, action string) render.Page {
	step := s.Current()
	page := render.Page{
		Title:   s.doc.Title,
		Heading: step.Heading(),
		Locale:  s.locale,
		Action:  action,
		Method:  "post",
		Step: &render.StepInfo{
			ID:    step.ID,
			Type:  string(step.Type),
			Index: s.current,
			Total: s.Total(),
		},
		Hidden: []render.HiddenField{render.StepMarker(step.ID)},
	}

	sections := s.Sections(step)
	switch {
	case len(sections) == 1 && sections[0].Title == "":
		page.Widgets = renderer.RenderAll(sections[0].Fields, s.store)
	default:
		for _, section := range sections {
			page.Sections = append(page.Sections, render.Section{
				Title:   section.Title,
				Widgets: renderer.RenderAll(section.Fields, s.store),
			})
		}
	}

	switch step.Type {
	case model.StepTypeValidation:
		page.Description = joinRules(step.Rules)
	case model.StepTypeFinal:
		page.Summary = s.store.Nested()
		if s.submitted {
			page.Notice = i18n.Translate(s.translator, s.locale, "wizard.submitted", "Document data submitted")
		}
	}

	page.Actions = s.actions()
	return page
}

// Widgets renders only the active step's widgets, for applying posted forms.
func (s *Session) Widgets(renderer *render.FieldRenderer) []*render.Widget {
	return renderer.RenderAll(s.Fields(s.Current()), s.store)
}

func (s *Session) actions() []render.Action {
	var actions []render.Action
	if s.CanGoBack() {
		actions = append(actions, render.Action{
			Name:  ActionField,
			Value: ActionBack,
			Label: i18n.Translate(s.translator, s.locale, "wizard.back", "Back"),
		})
	}
	if s.IsFinal() {
		if !s.submitted {
			actions = append(actions, render.Action{
				Name:    ActionField,
				Value:   ActionSubmit,
				Label:   i18n.Translate(s.translator, s.locale, "wizard.submit", "Submit"),
				Primary: true,
			})
		}
		return actions
	}
	return append(actions, render.Action{
		Name:    ActionField,
		Value:   ActionNext,
		Label:   i18n.Translate(s.translator, s.locale, "wizard.next", "Next"),
		Primary: true,
	})
}

func joinRules(rules []string) string {
	lines := make([]string, 0, len(rules))
	for _, rule := range rules {
		lines = append(lines, "• "+rule)
	}
	return strings.Join(lines, "\n")
}
