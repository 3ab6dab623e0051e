package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/progresspro/client-registration/pkg/models"
	"github.com/progresspro/client-registration/pkg/notify"
	"github.com/progresspro/client-registration/pkg/validation"
)

func fillForm(t *testing.T, store *FormSessionStore, id string, in models.RegistrationInput) {
	t.Helper()
	fields := map[string]string{
		models.FieldIsTrainer:  in.IsTrainer,
		models.FieldFirstName:  in.FirstName,
		models.FieldLastName:   in.LastName,
		models.FieldGender:     in.Gender,
		models.FieldEmail:      in.Email,
		models.FieldPhone:      in.Phone,
		models.FieldCity:       in.City,
		models.FieldOccupation: in.Occupation,
	}
	for field, value := range fields {
		_, _, err := store.SetField(id, field, value)
		require.NoError(t, err)
	}
}

func TestOpenStartsWithDefaults(t *testing.T) {
	store := NewFormSessionStore(newTestService(&fakeClient{}), time.Minute)

	session := store.Open()

	state := session.State()
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, models.DefaultRegistrationInput("57"), state.Input)
	assert.Empty(t, state.Errors)
}

func TestSetFieldReportsBlurErrors(t *testing.T) {
	store := NewFormSessionStore(newTestService(&fakeClient{}), time.Minute)
	session := store.Open()

	state, msg, err := store.SetField(session.ID, models.FieldFirstName, "Jo")
	require.NoError(t, err)
	assert.Equal(t, "El nombre debe tener como minimo 3 caracteres", msg)
	assert.Equal(t, "Jo", state.Input.FirstName)
	assert.Contains(t, state.Errors, models.FieldFirstName)

	state, msg, err = store.SetField(session.ID, models.FieldFirstName, "José")
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.NotContains(t, state.Errors, models.FieldFirstName)
}

func TestSetFieldUnknownField(t *testing.T) {
	store := NewFormSessionStore(newTestService(&fakeClient{}), time.Minute)
	session := store.Open()

	_, _, err := store.SetField(session.ID, "password", "x")
	assert.True(t, errors.Is(err, models.ErrUnknownField))
}

func TestSessionSubmitLifecycle(t *testing.T) {
	client := &fakeClient{}
	store := NewFormSessionStore(newTestService(client), time.Minute)
	session := store.Open()

	state, record, err := store.Submit(context.Background(), session.ID, &notify.Collector{})
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Contains(t, state.Errors, models.FieldFirstName)
	assert.Empty(t, client.calls())

	fillForm(t, store, session.ID, validInput())
	_, _, err = store.SetField(session.ID, models.FieldAcceptedTerms, "true")
	require.NoError(t, err)

	var toasts notify.Collector
	state, record, err = store.Submit(context.Background(), session.ID, &toasts)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.True(t, record.AcceptedTerms)
	assert.Equal(t, models.DefaultRegistrationInput("57"), state.Input)
	assert.Empty(t, state.Errors)
	assert.Equal(t, []notify.Toast{notify.RegistrationSucceeded}, toasts.Toasts())
	assert.Len(t, client.calls(), 1)
}

func TestSessionSubmitFailureKeepsValues(t *testing.T) {
	client := &fakeClient{err: errors.New("permission denied for table entrenadores")}
	store := NewFormSessionStore(newTestService(client), time.Minute)
	session := store.Open()
	fillForm(t, store, session.ID, validInput())
	before := session.State().Input

	var toasts notify.Collector
	state, _, err := store.Submit(context.Background(), session.ID, &toasts)

	var serr *SubmissionError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, before, state.Input)
	assert.Equal(t, []notify.Toast{notify.RegistrationFailed}, toasts.Toasts())
}

func TestSessionExpiresWhenIdle(t *testing.T) {
	store := NewFormSessionStore(newTestService(&fakeClient{}), time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }
	session := store.Open()

	now = now.Add(30 * time.Second)
	_, err := store.Get(session.ID)
	require.NoError(t, err)

	now = now.Add(90 * time.Second)
	_, err = store.Get(session.ID)
	assert.True(t, errors.Is(err, ErrSessionExpired))

	_, err = store.Get(session.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

func TestCloseDiscardsSession(t *testing.T) {
	store := NewFormSessionStore(newTestService(&fakeClient{}), time.Minute)
	session := store.Open()

	require.NoError(t, store.Close(session.ID))
	assert.True(t, errors.Is(store.Close(session.ID), ErrSessionNotFound))

	_, err := store.Get(session.ID)
	assert.True(t, errors.Is(err, ErrSessionNotFound))
}

// blockingClient holds every create call until a result is sent on release
type blockingClient struct {
	started chan models.RegistrationRecord
	release chan error
}

func newBlockingClient() *blockingClient {
	return &blockingClient{
		started: make(chan models.RegistrationRecord, 2),
		release: make(chan error, 2),
	}
}

func (b *blockingClient) CreateRecord(_ context.Context, record models.RegistrationRecord) (*models.RegistrationRecord, error) {
	b.started <- record
	if err := <-b.release; err != nil {
		return nil, err
	}
	return &record, nil
}

type submitResult struct {
	state  FormState
	record *models.RegistrationRecord
	err    error
}

func submitAsync(store *FormSessionStore, id string) <-chan submitResult {
	done := make(chan submitResult, 1)
	go func() {
		state, record, err := store.Submit(context.Background(), id, &notify.Collector{})
		done <- submitResult{state, record, err}
	}()
	return done
}

func waitStarted(t *testing.T, client *blockingClient) models.RegistrationRecord {
	t.Helper()
	select {
	case record := <-client.started:
		return record
	case <-time.After(5 * time.Second):
		t.Fatal("create call never started")
		return models.RegistrationRecord{}
	}
}

func TestEditDuringInFlightSubmitSurvivesFailure(t *testing.T) {
	client := newBlockingClient()
	store := NewFormSessionStore(NewRegistrationService(validation.NewSchema(), client, "57"), time.Minute)
	session := store.Open()
	fillForm(t, store, session.ID, validInput())

	done := submitAsync(store, session.ID)
	sent := waitStarted(t, client)
	assert.Equal(t, "Nutricionista", sent.Occupation)

	// The session stays editable while the create call is pending.
	_, _, err := store.SetField(session.ID, models.FieldOccupation, "Entrenadora")
	require.NoError(t, err)

	client.release <- errors.New("network down")
	result := <-done

	var serr *SubmissionError
	require.True(t, errors.As(result.err, &serr))
	assert.Equal(t, "Entrenadora", result.state.Input.Occupation)
	assert.Equal(t, "Laura", result.state.Input.FirstName)
	assert.Equal(t, "Entrenadora", session.State().Input.Occupation)
}

func TestEditDuringInFlightSubmitResetOnSuccess(t *testing.T) {
	client := newBlockingClient()
	store := NewFormSessionStore(NewRegistrationService(validation.NewSchema(), client, "57"), time.Minute)
	session := store.Open()
	fillForm(t, store, session.ID, validInput())

	done := submitAsync(store, session.ID)
	waitStarted(t, client)

	_, _, err := store.SetField(session.ID, models.FieldOccupation, "Entrenadora")
	require.NoError(t, err)

	client.release <- nil
	result := <-done

	require.NoError(t, result.err)
	require.NotNil(t, result.record)
	assert.Equal(t, "Nutricionista", result.record.Occupation)
	assert.Equal(t, models.DefaultRegistrationInput("57"), result.state.Input)
	assert.Equal(t, models.DefaultRegistrationInput("57"), session.State().Input)
}

func TestConcurrentSubmitsCreateTwoRecords(t *testing.T) {
	client := newBlockingClient()
	store := NewFormSessionStore(NewRegistrationService(validation.NewSchema(), client, "57"), time.Minute)
	session := store.Open()
	fillForm(t, store, session.ID, validInput())

	first := submitAsync(store, session.ID)
	second := submitAsync(store, session.ID)

	// Both calls reach the backend before either one completes.
	a := waitStarted(t, client)
	b := waitStarted(t, client)
	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)

	client.release <- nil
	client.release <- nil

	for _, done := range []<-chan submitResult{first, second} {
		result := <-done
		require.NoError(t, result.err)
		require.NotNil(t, result.record)
	}
}
