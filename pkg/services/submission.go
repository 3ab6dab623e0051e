package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/progresspro/client-registration/pkg/clients/supabase"
	"github.com/progresspro/client-registration/pkg/models"
	"github.com/progresspro/client-registration/pkg/notify"
	"github.com/progresspro/client-registration/pkg/utils"
	"github.com/progresspro/client-registration/pkg/validation"
)

// SubmissionError is returned when the create call fails for any reason
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("registration not saved: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// FormState is the state of one sign-up form: the values being edited and the
// messages currently shown under the fields
type FormState struct {
	Input  models.RegistrationInput `json:"values"`
	Errors validation.FieldErrors   `json:"errors"`
}

// RegistrationService defines the interface for submitting the sign-up form
type RegistrationService interface {
	// Defaults returns the values of an untouched form
	Defaults() models.RegistrationInput
	// ValidateField checks one field of the form for feedback on blur
	ValidateField(in models.RegistrationInput, field string) (string, bool)
	// Submit validates the form and, when valid, creates exactly one record
	Submit(ctx context.Context, form *FormState, n notify.Notifier) (*models.RegistrationRecord, error)
}

type registrationServiceImpl struct {
	schema      *validation.Schema
	client      supabase.Client
	countryCode string
	newID       func() string
}

// Option customizes the registration service
type Option func(*registrationServiceImpl)

// WithIDGenerator replaces the record identifier source
func WithIDGenerator(gen func() string) Option {
	return func(s *registrationServiceImpl) {
		s.newID = gen
	}
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	schema *validation.Schema,
	client supabase.Client,
	countryCode string,
	opts ...Option,
) RegistrationService {
	s := &registrationServiceImpl{
		schema:      schema,
		client:      client,
		countryCode: countryCode,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *registrationServiceImpl) Defaults() models.RegistrationInput {
	return models.DefaultRegistrationInput(s.countryCode)
}

func (s *registrationServiceImpl) ValidateField(in models.RegistrationInput, field string) (string, bool) {
	return s.schema.ValidateField(in, field)
}

// Submit runs validate, map, create and react in that order. Invalid input
// only updates the field errors. A failed create keeps the input so the user
// can retry; a successful one resets the form.
func (s *registrationServiceImpl) Submit(ctx context.Context, form *FormState, n notify.Notifier) (*models.RegistrationRecord, error) {
	validated, err := s.schema.Validate(form.Input)
	if err != nil {
		var verr *validation.ValidationError
		if errors.As(err, &verr) {
			form.Errors = verr.Fields
		}
		return nil, err
	}
	form.Errors = nil

	record := models.NewRegistrationRecord(s.newID(), validated)
	log.Printf("Submitting registration %s for %s (%s)", record.ID, utils.Fingerprint(record.Email), utils.Fingerprint(record.Phone))

	// Once sent, the insert runs to completion even if the caller goes away.
	created, err := s.client.CreateRecord(context.WithoutCancel(ctx), record)
	if err != nil {
		log.Printf("Error creating registration %s: %v", record.ID, err)
		n.Notify(notify.RegistrationFailed)
		return nil, &SubmissionError{Err: err}
	}

	n.Notify(notify.RegistrationSucceeded)
	form.Input = s.Defaults()
	return created, nil
}
