package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultSignupEmailPattern restricts self-service signup to gmail addresses.
const DefaultSignupEmailPattern = `^[a-zA-Z0-9._-]+@gmail\.com$`

// Validator wraps go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError describes one failed field
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// New creates a validator using DefaultSignupEmailPattern for the
// emaildomain tag.
func New() *Validator {
	v, err := NewWithEmailPattern(DefaultSignupEmailPattern)
	if err != nil {
		panic(err)
	}
	return v
}

// NewWithEmailPattern creates a validator whose emaildomain tag matches
// pattern. An empty pattern falls back to a plain email check.
func NewWithEmailPattern(pattern string) (*Validator, error) {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid signup email pattern: %w", err)
		}
	}

	err := v.RegisterValidation("emaildomain", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if re == nil {
			return v.Var(s, "email") == nil
		}
		return re.MatchString(s)
	})
	if err != nil {
		return nil, err
	}

	// max counts runes; maxbytes bounds the encoded length, as bcrypt does
	err = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= n
	})
	if err != nil {
		return nil, err
	}

	return &Validator{validate: v}, nil
}

// Validate validates a struct
func (v *Validator) Validate(i interface{}) []ValidationError {
	var validationErrors []ValidationError

	err := v.validate.Struct(i)
	if err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return []ValidationError{{Field: "", Tag: "invalid", Message: err.Error()}}
		}
		for _, fe := range fieldErrs {
			ve := ValidationError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: msgForTag(fe),
			}
			// never echo secrets
			if !strings.Contains(strings.ToLower(fe.Field()), "password") {
				ve.Value = fmt.Sprintf("%v", fe.Value())
			}
			validationErrors = append(validationErrors, ve)
		}
	}

	return validationErrors
}

// ValidateVar validates a single variable
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

func msgForTag(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "emaildomain":
		return fmt.Sprintf("%s must be a valid email address from an allowed domain", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes long", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	default:
		return fmt.Sprintf("%s failed validation for tag: %s", field, fe.Tag())
	}
}
