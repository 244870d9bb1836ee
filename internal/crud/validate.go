package crud

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Shared validator instance; entity configs reference the custom tags below.
var validate = newValidator()

var (
	hexColorRe  = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColorRe = regexp.MustCompile(`^(?:rgb|rgba|hsl|hsla)\([^)]*\)$`)
	tenDigitsRe = regexp.MustCompile(`^[0-9]{10}$`)
)

var namedColors = map[string]struct{}{
	"black": {}, "white": {}, "red": {}, "green": {}, "blue": {}, "yellow": {},
	"orange": {}, "purple": {}, "pink": {}, "brown": {}, "gray": {}, "grey": {},
	"cyan": {}, "magenta": {}, "beige": {}, "gold": {}, "silver": {}, "navy": {},
	"teal": {}, "maroon": {}, "olive": {}, "lime": {}, "coral": {}, "salmon": {},
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("csscolor", func(fl validator.FieldLevel) bool {
		return IsCSSColor(fl.Field().String())
	})
	_ = v.RegisterValidation("doc10", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true // optional; required is a separate tag
		}
		return tenDigitsRe.MatchString(s)
	})
	return v
}

// IsCSSColor accepts hex, rgb()/rgba()/hsl()/hsla() and common named colors.
func IsCSSColor(s string) bool {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return false
	}
	if hexColorRe.MatchString(s) || funcColorRe.MatchString(s) {
		return true
	}
	_, ok := namedColors[s]
	return ok
}

// fieldMessages translates the tags in use to the messages shown inline.
var fieldMessages = map[string]string{
	"required": "required",
	"max":      "too long",
	"min":      "too short",
	"email":    "invalid email",
	"csscolor": "must be a valid CSS color",
	"doc10":    "must be exactly 10 digits",
	"gte":      "must not be negative",
	"gt":       "must be positive",
}

// CheckStruct runs tag validation and flattens the result into the
// field → message map the dialog renders. Empty map means submittable.
func CheckStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return map[string]string{}
	}
	out := map[string]string{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out["_"] = err.Error()
		return out
	}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Tag()]
		if !ok {
			msg = "invalid value"
		}
		name := fe.Field()
		// json-style field names in the error map
		if len(name) > 0 {
			name = strings.ToLower(name[:1]) + name[1:]
		}
		if _, exists := out[name]; !exists {
			out[name] = msg
		}
	}
	return out
}
