package account

import (
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Field names shared by the registration and profile pages.
const (
	FieldFullName        = "fullName"
	FieldLicenseNumber   = "licenseNumber"
	FieldLicenseDate     = "licenseDate"
	FieldLicenseIssuer   = "licenseIssuer"
	FieldPhone           = validation.FieldPhone
	FieldCity            = "city"
	FieldEmail           = validation.FieldEmail
	FieldPassword        = validation.FieldPassword
	FieldConfirmPassword = validation.FieldConfirmPassword
)

// CitiesDictionary is the dictionary the city select reads from.
const CitiesDictionary = "cities"

type accountField struct {
	name        string
	typ         model.FieldType
	label       string
	placeholder string
	inputType   string
	dictionary  string
}

var accountFields = []accountField{
	{name: FieldFullName, typ: model.FieldTypeText, label: "Full name"},
	{name: FieldLicenseNumber, typ: model.FieldTypeText, label: "License number"},
	{name: FieldLicenseDate, typ: model.FieldTypeDate, label: "License issue date"},
	{name: FieldLicenseIssuer, typ: model.FieldTypeText, label: "Issuing authority"},
	{name: FieldPhone, typ: model.FieldTypeText, label: "Phone", placeholder: "+7 (XXX) XXX-XX-XX", inputType: "tel"},
	{name: FieldCity, typ: model.FieldTypeSelect, label: "City", dictionary: CitiesDictionary},
	{name: FieldEmail, typ: model.FieldTypeText, label: "Email", placeholder: "example@email.com", inputType: "email"},
	{name: FieldPassword, typ: model.FieldTypeText, label: "Password", placeholder: "At least 6 characters, digits and letters", inputType: "password"},
	{name: FieldConfirmPassword, typ: model.FieldTypeText, label: "Confirm password", placeholder: "Repeat the password", inputType: "password"},
}

var placeholderKeys = map[string]string{
	FieldPhone:           "account.phone_placeholder",
	FieldEmail:           "account.email_placeholder",
	FieldPassword:        "account.password_placeholder",
	FieldConfirmPassword: "account.confirm_placeholder",
}

// FieldNames lists the account fields in display order.
func FieldNames() []string {
	out := make([]string, 0, len(accountFields))
	for _, entry := range accountFields {
		out = append(out, entry.name)
	}
	return out
}

// Fields returns the account field definitions with translated labels. The
// profile page labels the password "New password".
func Fields(t i18n.Translator, locale string, mode validation.Mode) []model.FieldDefinition {
	out := make([]model.FieldDefinition, 0, len(accountFields))
	for _, entry := range accountFields {
		key, fallback := "account."+entry.name, entry.label
		if mode == validation.Profile && entry.name == FieldPassword {
			key, fallback = "account.newPassword", "New password"
		}
		out = append(out, model.FieldDefinition{
			Name:       entry.name,
			Type:       entry.typ,
			Label:      i18n.Translate(t, locale, key, fallback),
			Dictionary: entry.dictionary,
		})
	}
	return out
}

func isPassword(name string) bool {
	return name == FieldPassword || name == FieldConfirmPassword
}

func lookupField(name string) (accountField, bool) {
	for _, entry := range accountFields {
		if entry.name == name {
			return entry, true
		}
	}
	return accountField{}, false
}
