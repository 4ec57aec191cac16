// Package bind decodes request bodies and validates them with go-playground/validator;
// validation messages come out in Russian, same as everything else users read
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "zhkh/internal/platform/errors"
	"zhkh/internal/platform/logger"

	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ru_translations "github.com/go-playground/validator/v10/translations/ru"
)

// FieldLevel aliases validator.FieldLevel for custom rules
type FieldLevel = validator.FieldLevel

// ValidatorSvc holds the process validator and its translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce    sync.Once
	vSvc     *ValidatorSvc
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

// short overrides for the rules request types actually use
var messages = map[string]string{
	"required": "{0}: обязательное поле",
	"notblank": "{0}: поле не может быть пустым",
	"min":      "{0}: не короче {1}",
	"max":      "{0}: не длиннее {1}",
}

// Get returns the validator, building it on first use
func Get() *ValidatorSvc {
	vOnce.Do(func() {
		loc := ru.New()
		trans, _ := ut.New(loc, loc).GetTranslator("ru")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = ru_translations.RegisterDefaultTranslations(v, trans)
		for tag, text := range messages {
			register(v, trans, tag, text)
		}

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// RegisterValidation adds a custom tag to the shared validator
func RegisterValidation(tag string, fn validator.Func) error {
	return Get().Validator.RegisterValidation(tag, fn)
}

// jsonName makes messages and fields use the wire name
func jsonName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "", "-":
		return fld.Name
	}
	return name
}

func register(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}

// JSONOptions controls parsing; passing one replaces all the defaults
type JSONOptions struct {
	MaxBytes        int64 // default 1MB
	DisallowUnknown bool  // default true
	AllowEmptyBody  bool  // default false
}

func defaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 1 << 20, DisallowUnknown: true}
}

// ParseJSON decodes the body into T, validates it and maps failures to
// JSON or Validation errors; validation errors carry the offending field
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := defaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close request body")
		}
	}()

	body, empty := peek(r.Body)
	if empty && !o.AllowEmptyBody {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}
	if o.MaxBytes > 0 {
		body = io.LimitReader(body, o.MaxBytes)
	}

	dec := json.NewDecoder(body)
	if o.DisallowUnknown {
		dec.DisallowUnknownFields()
	}

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if o.AllowEmptyBody && errors.Is(err, io.EOF) {
			return dst, nil
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if jsonMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if err := Get().Validator.Struct(dst); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			logger.Get().Error().Err(inv).Msg("validator internal error")
			return zero, perr.JSONErrf("validation error")
		}
		field, msg := ValidationFieldAndMessage(err)
		return zero, perr.WithField(perr.Validationf("%s", msg), field)
	}
	return dst, nil
}

// peek reads one byte to tell an empty body apart, then stitches it back
func peek(body io.Reader) (io.Reader, bool) {
	var b [1]byte
	n, _ := io.ReadFull(body, b[:])
	if n == 0 {
		return body, true
	}
	return io.MultiReader(bytes.NewReader(b[:n]), body), false
}

// ValidationFieldAndMessage returns the first failing field and its translated message
func ValidationFieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(Get().Translator)
	}
	return "", err.Error()
}
