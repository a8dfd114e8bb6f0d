package api

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const dateLayout = "2006-01-02"

var (
	setupOnce  sync.Once
	translator ut.Translator
)

// Violation describes one rejected request field.
type Violation struct {
	Field     string `json:"field"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

// SetupValidation configures gin's binding once per process: unknown JSON
// fields are rejected, field names are reported by their JSON name, and the
// custom rules below are registered with English messages.
func SetupValidation() {
	setupOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			log.Fatal().Msg("api.SetupValidation: unexpected validator engine")
		}

		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		locale := en.New()
		translator, _ = ut.New(locale, locale).GetTranslator("en")
		if err := en_translations.RegisterDefaultTranslations(v, translator); err != nil {
			log.Fatal().Err(err).Msg("api.SetupValidation: register translations")
		}

		register(v, "recipients", validateRecipients(v), "{0} must be a list of e-mail addresses separated by ';'")
		register(v, "notbefore", validateNotBefore, "{0} must not be before {1}")
		register(v, "instant", validateInstant, "{0} must be an RFC3339 timestamp")
	})
}

func register(v *validator.Validate, tag string, fn validator.Func, message string) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		log.Fatal().Err(err).Str("tag", tag).Msg("api.SetupValidation: register validation")
	}
	err := v.RegisterTranslation(tag, translator, func(t ut.Translator) error {
		return t.Add(tag, message, true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		msg, _ := t.T(tag, fe.Field(), fe.Param())
		return msg
	})
	if err != nil {
		log.Fatal().Err(err).Str("tag", tag).Msg("api.SetupValidation: register translation")
	}
}

// validateRecipients accepts "a@x.org; b@y.org". Blank entries are rejected.
func validateRecipients(v *validator.Validate) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := strings.TrimSpace(fl.Field().String())
		if s == "" {
			return true
		}
		for _, addr := range strings.Split(s, ";") {
			if v.Var(strings.TrimSpace(addr), "required,email") != nil {
				return false
			}
		}
		return true
	}
}

// validateNotBefore compares two YYYY-MM-DD dates: the field and the sibling
// named by the tag param. Missing or unparsable values are left to other rules.
func validateNotBefore(fl validator.FieldLevel) bool {
	to, ok := dateValue(fl.Field())
	if !ok {
		return true
	}
	from, ok := dateValue(fl.Parent().FieldByName(fl.Param()))
	if !ok {
		return true
	}
	return !to.Before(from)
}

func dateValue(v reflect.Value) (time.Time, bool) {
	for v.IsValid() && v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return time.Time{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.String || v.String() == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, v.String())
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseInstant parses an RFC3339 timestamp. An unescaped '+' in a query
// string arrives as a space, so a space before the offset is read as '+'.
func ParseInstant(s string) (time.Time, error) {
	if i := strings.LastIndexByte(s, ' '); i > 0 {
		s = s[:i] + "+" + s[i+1:]
	}
	return time.Parse(time.RFC3339, s)
}

func validateInstant(fl validator.FieldLevel) bool {
	_, err := ParseInstant(fl.Field().String())
	return err == nil
}

// BindJSON decodes and validates the request body into dest.
func BindJSON(ctx *gin.Context, dest any) *APIError {
	SetupValidation()
	if err := ctx.ShouldBindJSON(dest); err != nil {
		return bindError(err)
	}
	return nil
}

// BindQuery decodes and validates query parameters into dest.
func BindQuery(ctx *gin.Context, dest any) *APIError {
	SetupValidation()
	if err := ctx.ShouldBindQuery(dest); err != nil {
		return bindError(err)
	}
	return nil
}

func bindError(err error) *APIError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return NewInvalidViolations(translate(ve))
	}
	return ErrInvalidReq.Msg("invalid request: %s", err.Error())
}

func translate(ve validator.ValidationErrors) []Violation {
	out := make([]Violation, 0, len(ve))
	for _, fe := range ve {
		out = append(out, Violation{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   fe.Translate(translator),
		})
	}
	return out
}
