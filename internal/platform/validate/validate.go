// Package validate wraps a singleton go-playground validator with english messages
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "brreg/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldLevel aliases validator.FieldLevel
type FieldLevel = validator.FieldLevel

// Svc holds a singleton validator and translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *Svc
)

// Init initializes the singleton validator with english translations
// Field names come from the env tag (config structs) or the csv tag (row structs)
func Init() *Svc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"env", "csv"} {
				tag := fld.Tag.Get(key)
				if tag == "-" || tag == "" {
					continue
				}
				if idx := strings.Index(tag, ","); idx >= 0 {
					tag = tag[:idx]
				}
				return tag
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerFormCode(v, trans)

		vSvc = &Svc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *Svc {
	if vSvc == nil {
		return Init()
	}
	return vSvc
}

// Struct validates v and maps the first failure to a coded error with field attached
// code lets callers pick between ErrorCodeConfig (settings) and ErrorCodeValidation (rows)
func Struct(v any, code perr.ErrorCode) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return perr.Wrap(inv, perr.ErrorCodeUnknown, "validator internal error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.New(code, msg), field)
}

// FieldAndMessage returns the first field and translated message
func FieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return "", inv.Error()
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			return fe.Field(), fe.Translate(Get().Translator)
		}
	}
	return "", err.Error()
}

// IsFormCode reports whether s looks like an organisation-form code (AS, ENK, NUF, UNKNOWN...)
func IsFormCode(s string) bool {
	if s == "" || len(s) > 16 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

func registerFormCode(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("formcode", func(fl FieldLevel) bool {
		return IsFormCode(fl.Field().String())
	})
	_ = v.RegisterTranslation("formcode", trans,
		func(ut ut.Translator) error {
			return ut.Add("formcode", "{0} must be an uppercase organisation-form code", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("formcode", fe.Field())
			return msg
		},
	)
}
