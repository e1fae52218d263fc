package wizard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

func names(fields []model.FieldDefinition) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Name)
	}
	return out
}

func TestSingleAnswerStepsSynthesizeOneField(t *testing.T) {
	s, err := wizard.New(testsupport.LoadSample(t, "marriage_contract.json"))
	require.NoError(t, err)
	d := s.Document()

	stage, _ := d.Step("stage")
	fields := s.Fields(stage)
	require.Len(t, fields, 1)
	assert.Equal(t, "stage", fields[0].Name)
	assert.Equal(t, model.FieldTypeRadio, fields[0].Type)
	assert.Len(t, fields[0].Options, 3)

	count, _ := d.Step("children_count")
	fields = s.Fields(count)
	require.Len(t, fields, 1)
	assert.Equal(t, model.FieldTypeNumber, fields[0].Type)
	assert.Equal(t, model.Float(10), fields[0].Max)

	property, _ := d.Step("property")
	assert.Equal(t, model.FieldTypeCheckboxGroup, s.Fields(property)[0].Type)

	check, _ := d.Step("check")
	assert.Empty(t, s.Fields(check))
	done, _ := d.Step("done")
	assert.Empty(t, s.Fields(done))
}

func TestInputModeAddsManualFieldsOrUpload(t *testing.T) {
	s, err := wizard.New(testsupport.LoadSample(t, "marriage_contract.json"))
	require.NoError(t, err)
	identity := s.Current()

	assert.Equal(t, []string{"identity.mode"}, names(s.Fields(identity)))

	require.NoError(t, s.Store().SetValue("identity.mode", wizard.InputModeManual))
	assert.Equal(t, []string{"identity.mode", "identity.fullName", "identity.iin", "identity.birthDate"}, names(s.Fields(identity)))

	require.NoError(t, s.Store().SetValue("identity.mode", wizard.InputModeOCR))
	fields := s.Fields(identity)
	assert.Equal(t, []string{"identity.mode", "identity.document"}, names(fields))
	assert.Equal(t, model.FieldTypeFile, fields[1].Type)
}

func TestArrayStepRepeatsByDynamicCount(t *testing.T) {
	s, err := wizard.New(testsupport.LoadSample(t, "marriage_contract.json"))
	require.NoError(t, err)
	children, _ := s.Document().Step("children")

	assert.Empty(t, s.Sections(children), "min 0 and no answer means no items")

	require.NoError(t, s.Store().SetValue("children_count", float64(2)))
	sections := s.Sections(children)
	require.Len(t, sections, 2)
	assert.Equal(t, "Ребёнок 2", sections[1].Title)
	assert.Equal(t, []string{"children.1.fullName", "children.1.birthDate"}, names(sections[1].Fields))

	require.NoError(t, s.Store().SetValue("children_count", "99"))
	assert.Len(t, s.Sections(children), 10, "clamped to max")
}

func TestBankSelectionUsesTemplateAndMin(t *testing.T) {
	s, err := wizard.New(testsupport.LoadSample(t, "marriage_contract.json"))
	require.NoError(t, err)
	banks, _ := s.Document().Step("banks")

	sections := s.Sections(banks)
	require.Len(t, sections, 1)
	assert.Equal(t, []string{"banks.0.bank", "banks.0.currency", "banks.0.amount"}, names(sections[0].Fields))
}

func TestDynamicMultiBlockFollowsSelectedOptions(t *testing.T) {
	s, err := wizard.New(testsupport.LoadSample(t, "power_of_attorney.json"))
	require.NoError(t, err)
	details, _ := s.Document().Step("details")

	assert.Empty(t, s.Sections(details))

	require.NoError(t, s.Store().SetValue("powers", []any{"bank", "sell"}))
	sections := s.Sections(details)
	require.Len(t, sections, 2)
	assert.Equal(t, "Операции в банке", sections[0].Title)
	assert.Equal(t, []string{"details.bank.bank", "details.bank.limit"}, names(sections[0].Fields))
	assert.Equal(t, []string{"details.sell.object"}, names(sections[1].Fields))
}

func TestPageRendersStepWithActions(t *testing.T) {
	s, err := wizard.New(testsupport.LoadSample(t, "marriage_contract.json"), wizard.WithTranslator(i18n.Default(), "ru"))
	require.NoError(t, err)
	renderer := render.NewFieldRenderer(render.WithTranslator(i18n.Default(), "ru"))

	page := s.Page(renderer, "/wizard/marriage_contract")
	assert.Equal(t, "Брачный договор", page.Title)
	assert.Equal(t, "Данные заявителя", page.Heading)
	require.Len(t, page.Widgets, 1)
	assert.Equal(t, "Ввести вручную", page.Widgets[0].Options[0].Label)
	require.Len(t, page.Actions, 1)
	assert.Equal(t, wizard.ActionNext, page.Actions[0].Value)
	assert.Equal(t, "Далее", page.Actions[0].Label)
	assert.Equal(t, []render.HiddenField{{Name: "_step", Value: "identity"}}, page.Hidden)

	_, err = s.GoTo("done")
	require.NoError(t, err)
	page = s.Page(renderer, "/wizard/marriage_contract")
	require.Len(t, page.Actions, 2)
	assert.Equal(t, wizard.ActionBack, page.Actions[0].Value)
	assert.Equal(t, wizard.ActionSubmit, page.Actions[1].Value)

	_, err = s.Submit(context.Background())
	require.NoError(t, err)
	page = s.Page(renderer, "/wizard/marriage_contract")
	assert.Equal(t, "Данные документа отправлены", page.Notice)
	assert.Len(t, page.Actions, 1)
}

func TestPageGroupsArrayItemsIntoSections(t *testing.T) {
	s, err := wizard.New(testsupport.LoadSample(t, "marriage_contract.json"))
	require.NoError(t, err)
	require.NoError(t, s.Store().SetValue("children_count", 1))
	_, err = s.GoTo("children")
	require.NoError(t, err)

	page := s.Page(render.NewFieldRenderer(), "/w")
	assert.Empty(t, page.Widgets)
	require.Len(t, page.Sections, 1)
	assert.Equal(t, "children.0.fullName", page.Sections[0].Widgets[0].Name)
}
