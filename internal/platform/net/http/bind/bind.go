// Package bind decodes JSON request bodies and validates them with go-playground/validator
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldLevel aliases validator.FieldLevel for custom tags
type FieldLevel = validator.FieldLevel

// Validator bundles the validator and its english translator
type Validator struct {
	V     *validator.Validate
	Trans ut.Translator
}

var (
	once sync.Once
	svc  *Validator

	// seam
	decoderMore = func(dec *json.Decoder) bool { return dec.More() }
)

// Get returns the process validator, building it on first use
func Get() *Validator {
	once.Do(func() {
		loc := en.New()
		trans, _ := ut.New(loc, loc).GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = en_translations.RegisterDefaultTranslations(v, trans)
		shortMessage(v, trans, "min", "{0} must be at least {1}")
		shortMessage(v, trans, "max", "{0} must be at most {1}")
		shortMessage(v, trans, "oneof", "{0} must be one of [{1}]")

		svc = &Validator{V: v, Trans: trans}
	})
	return svc
}

// RegisterValidation adds a custom tag with a "{0} ..." message
func RegisterValidation(tag, message string, fn validator.Func) error {
	s := Get()
	if err := s.V.RegisterValidation(tag, fn); err != nil {
		return err
	}
	shortMessage(s.V, s.Trans, tag, message)
	return nil
}

// Validate runs struct validation and returns a Validation error naming the first bad field
func Validate(v any) error {
	err := Get().V.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Newf(perr.ErrorCodeValidation, "validation error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// FieldAndMessage returns the namespace and translated message of the first failure
func FieldAndMessage(err error) (field, message string) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return trimRoot(fe.Namespace()), fe.Translate(Get().Trans)
	}
	if err == nil {
		return "", ""
	}
	return "", err.Error()
}

// Options controls body decoding
type Options struct {
	MaxBytes     int64 // 0 means 1MB
	AllowUnknown bool
}

// ParseJSON decodes exactly one JSON value into T and validates it
func ParseJSON[T any](r *http.Request, opts ...Options) (T, error) {
	var zero, dst T
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = 1 << 20
	}
	if r.Body == nil {
		return zero, perr.JSONErrf("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(io.LimitReader(r.Body, o.MaxBytes))
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, perr.JSONErrf("empty body")
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if decoderMore(dec) {
		return zero, perr.JSONErrf("unexpected trailing data")
	}
	if err := Validate(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

func jsonName(fld reflect.StructField) string {
	for _, key := range []string{"json", "yaml"} {
		tag := fld.Tag.Get(key)
		if tag == "-" || tag == "" {
			continue
		}
		if i := strings.Index(tag, ","); i >= 0 {
			tag = tag[:i]
		}
		if tag != "" {
			return tag
		}
	}
	return fld.Name
}

// trimRoot drops the top level struct name: "Policy.input.threshold" -> "input.threshold"
func trimRoot(ns string) string {
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func shortMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(tag, fe.Field(), fe.Param())
			return msg
		},
	)
}
