package account

import (
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Page renders the form. In profile view mode fields are read-only and the
// password inputs are hidden.
func (f *Form) Page(renderer *render.FieldRenderer, action string) render.Page {
	page := render.Page{
		Locale: f.locale,
		Action: action,
		Method: "post",
		Notice: f.notice,
	}
	if f.mode == validation.Registration {
		page.Title = i18n.Translate(f.translator, f.locale, "account.register.title", "Get free access for 7 days")
	} else {
		page.Title = i18n.Translate(f.translator, f.locale, "account.profile.title", "Profile")
	}
	page.Heading = page.Title

	for _, field := range Fields(f.translator, f.locale, f.mode) {
		if !f.editing && isPassword(field.Name) {
			continue
		}
		widget, ok := renderer.Render(field, f.store)
		if !ok {
			continue
		}
		f.decorate(widget)
		page.Widgets = append(page.Widgets, widget)
	}

	page.Actions = f.actions()
	return page
}

func (f *Form) decorate(widget *render.Widget) {
	entry, _ := lookupField(widget.Name)
	if entry.inputType != "" {
		widget.InputType = entry.inputType
	}
	if key, ok := placeholderKeys[widget.Name]; ok {
		widget.Placeholder = i18n.Translate(f.translator, f.locale, key, entry.placeholder)
	}
	if isPassword(widget.Name) {
		widget.Value = ""
		widget.Text = ""
	}
	if !f.editing {
		if widget.Kind == render.WidgetSelect {
			widget.Text = selectedLabel(widget)
		}
		widget.Kind = render.WidgetReadOnly
		widget.Placeholder = ""
	}
}

func selectedLabel(widget *render.Widget) string {
	for _, opt := range widget.Options {
		if opt.Selected {
			return opt.Label
		}
	}
	return model.FormatValue(widget.Value)
}

func (f *Form) actions() []render.Action {
	tr := func(key, fallback string) string {
		return i18n.Translate(f.translator, f.locale, key, fallback)
	}
	if f.mode == validation.Registration {
		return []render.Action{{Name: ActionField, Value: ActionSubmit, Label: tr("account.register.submit", "Register"), Primary: true}}
	}
	if !f.editing {
		return []render.Action{{Name: ActionField, Value: ActionEdit, Label: tr("account.profile.edit", "Edit"), Primary: true}}
	}
	return []render.Action{
		{Name: ActionField, Value: ActionCancel, Label: tr("account.profile.cancel", "Cancel")},
		{Name: ActionField, Value: ActionSubmit, Label: tr("account.profile.save", "Save"), Primary: true},
	}
}
