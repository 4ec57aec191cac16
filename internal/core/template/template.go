// Package template checks that a submission fills in the complaint template
package template

import (
	"regexp"
	"strings"
)

// NotSpecified is the placeholder the template uses for a missing value
const NotSpecified = "не указан"

const sample = "<code>Адрес места происшествия: г. Москва, ул. Московская, 1\n" +
	"Описание происшествия: Протекает крыша в 1 подъезде</code>"

// Welcome greets a new chat and shows the template to copy
const Welcome = "Привет! Я бот для приема жалоб в сфере ЖКХ.\n\n" +
	"<b>СКОПИРУЙТЕ И ЗАПОЛНИТЕ ШАБЛОН:</b>\n\n" + sample

// Message re-prompts when either field is missing or still a placeholder
const Message = "Пожалуйста, заполните ОБА поля в шаблоне:\n\n" + sample

// label then anything up to the colon; values stop at ';' or end of line
var (
	addressRe     = regexp.MustCompile(`(?i)Адрес[^:\n]*:[ \t]*([^;\n]+)`)
	descriptionRe = regexp.MustCompile(`(?i)Описание[^:\n]*:[ \t]*([^;\n]+)`)
	dotsRe        = regexp.MustCompile(`^\.{2,6}$`)
)

// Fields extracts the trimmed address and description, ok is false when either label is absent
func Fields(text string) (address, description string, ok bool) {
	a := addressRe.FindStringSubmatch(text)
	d := descriptionRe.FindStringSubmatch(text)
	if a == nil || d == nil {
		return "", "", false
	}
	return strings.TrimSpace(a[1]), strings.TrimSpace(d[1]), true
}

// Validate reports whether both fields are present and hold real values
func Validate(text string) bool {
	a, d, ok := Fields(text)
	return ok && filled(a) && filled(d)
}

func filled(v string) bool {
	switch {
	case v == "", v == "…":
		return false
	case dotsRe.MatchString(v):
		return false
	case strings.EqualFold(v, NotSpecified):
		return false
	}
	return true
}
