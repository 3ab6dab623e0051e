package models

// RegistrationRecord is the row persisted in the entrenadores table
type RegistrationRecord struct {
	ID                 string `json:"id"`
	FirstName          string `json:"nombre"`
	LastName           string `json:"apellido"`
	Email              string `json:"correo"`
	Phone              string `json:"telefono"`
	City               string `json:"ciudad"`
	Gender             string `json:"genero"`
	IsTrainer          bool   `json:"entrenador"`
	Occupation         string `json:"profesion"`
	AcceptedTerms      bool   `json:"terminos"`
	AcceptedPromotions bool   `json:"promociones"`
}

// NewRegistrationRecord maps a validated input onto the table columns.
// The consent flags follow the checkboxes as submitted.
func NewRegistrationRecord(id string, in RegistrationInput) RegistrationRecord {
	return RegistrationRecord{
		ID:                 id,
		FirstName:          in.FirstName,
		LastName:           in.LastName,
		Email:              in.Email,
		Phone:              in.Phone,
		City:               in.City,
		Gender:             in.Gender,
		IsTrainer:          in.IsTrainer == TrainerYes,
		Occupation:         in.Occupation,
		AcceptedTerms:      in.AcceptedTerms,
		AcceptedPromotions: in.AcceptedPromotions,
	}
}

// Input maps the record back onto form values
func (r RegistrationRecord) Input() RegistrationInput {
	trainer := TrainerNo
	if r.IsTrainer {
		trainer = TrainerYes
	}
	return RegistrationInput{
		IsTrainer:          trainer,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Gender:             r.Gender,
		Email:              r.Email,
		Phone:              r.Phone,
		City:               r.City,
		Occupation:         r.Occupation,
		AcceptedTerms:      r.AcceptedTerms,
		AcceptedPromotions: r.AcceptedPromotions,
	}
}
