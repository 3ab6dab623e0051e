// Package validation holds the rule set of the registration form. Each field
// carries an ordered list of rules, a validator tag plus the message shown
// under the field when the tag fails.
package validation

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/progresspro/client-registration/pkg/models"
	"github.com/progresspro/client-registration/pkg/utils"
)

const cityTag = "registration_city"

// FieldErrors maps a form field name to the message shown under it
type FieldErrors map[string]string

// ValidationError is returned when one or more fields fail their rules
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

// Rule is a single acceptance predicate, expressed as a validator tag
type Rule struct {
	Tag     string
	Message string
}

// FieldRules lists the rules of one field in evaluation order
type FieldRules struct {
	Field string
	Value func(models.RegistrationInput) string
	Rules []Rule
}

// Schema validates a whole RegistrationInput
type Schema struct {
	validate    *validator.Validate
	fields      []FieldRules
	countryCode string
}

// Option customizes a Schema
type Option func(*schemaOptions)

type schemaOptions struct {
	countryCode string
	cities      []string
}

// WithCountryCode sets the calling code the phone widget pre-fills
func WithCountryCode(code string) Option {
	return func(o *schemaOptions) {
		o.countryCode = strings.TrimPrefix(code, "+")
	}
}

// WithCities restricts the city field to the given list
func WithCities(cities []string) Option {
	return func(o *schemaOptions) {
		o.cities = cities
	}
}

// NewSchema builds the registration rule set
func NewSchema(opts ...Option) *Schema {
	o := schemaOptions{countryCode: "57"}
	for _, opt := range opts {
		opt(&o)
	}

	v := validator.New()

	cityRules := []Rule{{Tag: "required", Message: "Ciudad es requerida"}}
	if len(o.cities) > 0 {
		allowed := make(map[string]struct{}, len(o.cities))
		for _, city := range o.cities {
			allowed[city] = struct{}{}
		}
		err := v.RegisterValidation(cityTag, func(fl validator.FieldLevel) bool {
			_, ok := allowed[fl.Field().String()]
			return ok
		})
		if err != nil {
			log.Fatalf("Error registering city validation: %v", err)
		}
		cityRules = append(cityRules, Rule{Tag: cityTag, Message: "Selecciona una ciudad de la lista"})
	}

	return &Schema{
		validate:    v,
		countryCode: o.countryCode,
		fields: []FieldRules{
			{
				Field: models.FieldIsTrainer,
				Value: func(in models.RegistrationInput) string { return in.IsTrainer },
				Rules: []Rule{
					{Tag: "required", Message: "Este dato es requerido"},
					{Tag: oneOf(models.TrainerOptions), Message: "Selecciona una opción válida"},
				},
			},
			{
				Field: models.FieldFirstName,
				Value: func(in models.RegistrationInput) string { return in.FirstName },
				Rules: []Rule{
					{Tag: "required", Message: "Nombre es requerido"},
					{Tag: "min=3", Message: "El nombre debe tener como minimo 3 caracteres"},
				},
			},
			{
				Field: models.FieldLastName,
				Value: func(in models.RegistrationInput) string { return in.LastName },
				Rules: []Rule{
					{Tag: "required", Message: "Apellido es requerido"},
					{Tag: "min=3", Message: "El Apellido debe tener como minimo 3 caracteres"},
				},
			},
			{
				Field: models.FieldGender,
				Value: func(in models.RegistrationInput) string { return in.Gender },
				Rules: []Rule{
					{Tag: "required", Message: "Este dato es requerido"},
					{Tag: oneOf(models.GenderOptions), Message: "Selecciona una opción válida"},
				},
			},
			{
				Field: models.FieldEmail,
				Value: func(in models.RegistrationInput) string { return in.Email },
				Rules: []Rule{
					{Tag: "required", Message: "Correo es requerido"},
					{Tag: "email", Message: "Correo electrónico inválido"},
				},
			},
			{
				Field: models.FieldPhone,
				Value: func(in models.RegistrationInput) string { return in.Phone },
				Rules: []Rule{
					{Tag: "omitempty,e164", Message: "Número telefónico inválido"},
				},
			},
			{
				Field: models.FieldCity,
				Value: func(in models.RegistrationInput) string { return in.City },
				Rules: cityRules,
			},
		},
	}
}

// Validate checks every field and reports all failures together. The phone
// rule sees the number with separators stripped, but the input is returned
// exactly as entered.
func (s *Schema) Validate(in models.RegistrationInput) (models.RegistrationInput, error) {
	normalized := s.normalize(in)

	errs := FieldErrors{}
	for _, f := range s.fields {
		if msg, ok := s.check(f, normalized); !ok {
			errs[f.Field] = msg
		}
	}

	if len(errs) > 0 {
		return in, &ValidationError{Fields: errs}
	}
	return in, nil
}

// ValidateField checks a single field, for feedback while the form is edited.
// Fields without rules always pass.
func (s *Schema) ValidateField(in models.RegistrationInput, field string) (string, bool) {
	normalized := s.normalize(in)
	for _, f := range s.fields {
		if f.Field == field {
			return s.check(f, normalized)
		}
	}
	return "", true
}

func (s *Schema) check(f FieldRules, in models.RegistrationInput) (string, bool) {
	value := f.Value(in)
	for _, rule := range f.Rules {
		if err := s.validate.Var(value, rule.Tag); err != nil {
			return rule.Message, false
		}
	}
	return "", true
}

func (s *Schema) normalize(in models.RegistrationInput) models.RegistrationInput {
	in.Phone = utils.NormalizePhone(in.Phone, s.countryCode)
	return in
}

func oneOf(values []string) string {
	return "oneof=" + strings.Join(values, " ")
}
