package models

import (
	"errors"
	"fmt"
	"strconv"
)

// Form field names, as sent by the front-end
const (
	FieldIsTrainer          = "isTrainer"
	FieldFirstName          = "firstName"
	FieldLastName           = "lastName"
	FieldGender             = "gender"
	FieldEmail              = "email"
	FieldPhone              = "phone"
	FieldCity               = "city"
	FieldOccupation         = "occupation"
	FieldAcceptedTerms      = "acceptedTerms"
	FieldAcceptedPromotions = "acceptedPromotions"
)

const (
	TrainerYes = "Si"
	TrainerNo  = "No"

	GenderMale   = "Masculino"
	GenderFemale = "Femenino"
)

var (
	TrainerOptions = []string{TrainerYes, TrainerNo}
	GenderOptions  = []string{GenderMale, GenderFemale}

	// Cities offered by the city dropdown
	Cities = []string{
		"Barranquilla",
		"Bucaramanga",
		"Bogotá",
		"Cali",
		"Cartagena",
		"Cúcuta",
		"Ibagué",
		"Manizales",
		"Medellín",
		"Montería",
		"Neiva",
		"Pasto",
		"Popayán",
		"Pereira",
		"Quibdó",
		"Santa Marta",
		"Sincelejo",
		"Tunja",
		"Valledupar",
		"Villavicencio",
	}
)

// ErrUnknownField is returned when a field name is not part of the form
var ErrUnknownField = errors.New("unknown form field")

// RegistrationInput represents the values of the sign-up form while it is being filled
type RegistrationInput struct {
	IsTrainer          string `json:"isTrainer"`
	FirstName          string `json:"firstName"`
	LastName           string `json:"lastName"`
	Gender             string `json:"gender"`
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	City               string `json:"city"`
	Occupation         string `json:"occupation"`
	AcceptedTerms      bool   `json:"acceptedTerms"`
	AcceptedPromotions bool   `json:"acceptedPromotions"`
}

// DefaultRegistrationInput returns the values a freshly loaded form starts with
func DefaultRegistrationInput(countryCode string) RegistrationInput {
	return RegistrationInput{
		IsTrainer: TrainerNo,
		Gender:    GenderFemale,
		Phone:     "+" + countryCode,
	}
}

// Set updates a single field from its textual form value
func (in *RegistrationInput) Set(field, value string) error {
	switch field {
	case FieldIsTrainer:
		in.IsTrainer = value
	case FieldFirstName:
		in.FirstName = value
	case FieldLastName:
		in.LastName = value
	case FieldGender:
		in.Gender = value
	case FieldEmail:
		in.Email = value
	case FieldPhone:
		in.Phone = value
	case FieldCity:
		in.City = value
	case FieldOccupation:
		in.Occupation = value
	case FieldAcceptedTerms, FieldAcceptedPromotions:
		checked, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid checkbox value %q for %s: %w", value, field, err)
		}
		if field == FieldAcceptedTerms {
			in.AcceptedTerms = checked
		} else {
			in.AcceptedPromotions = checked
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}
