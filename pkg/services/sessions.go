package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/progresspro/client-registration/pkg/models"
	"github.com/progresspro/client-registration/pkg/notify"
	"github.com/progresspro/client-registration/pkg/validation"
)

var (
	ErrSessionNotFound = errors.New("form session not found")
	ErrSessionExpired  = errors.New("form session expired")
)

// FormSession is one open sign-up form
type FormSession struct {
	ID string

	mu        sync.Mutex
	state     FormState
	expiresAt time.Time
}

// State returns a copy of the current values and field errors
func (f *FormSession) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyState(f.state)
}

// FormSessionStore keeps open forms in memory until they are closed or idle
// for longer than the timeout
type FormSessionStore struct {
	service RegistrationService
	pending map[string]*FormSession
	mu      sync.RWMutex
	timeout time.Duration
	now     func() time.Time
}

func NewFormSessionStore(service RegistrationService, timeout time.Duration) *FormSessionStore {
	return &FormSessionStore{
		service: service,
		pending: make(map[string]*FormSession),
		timeout: timeout,
		now:     time.Now,
	}
}

// Open starts a form filled with the default values
func (s *FormSessionStore) Open() *FormSession {
	session := &FormSession{
		ID:        uuid.NewString(),
		state:     FormState{Input: s.service.Defaults()},
		expiresAt: s.now().Add(s.timeout),
	}

	s.mu.Lock()
	s.pending[session.ID] = session
	s.mu.Unlock()

	s.scheduleCleanup(session.ID, s.timeout)
	return session
}

// Get returns an open form and extends its lifetime
func (s *FormSessionStore) Get(id string) (*FormSession, error) {
	s.mu.RLock()
	session, exists := s.pending[id]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	if s.now().After(session.expiresAt) {
		s.remove(id)
		return nil, ErrSessionExpired
	}
	session.expiresAt = s.now().Add(s.timeout)
	return session, nil
}

// SetField applies one edit and returns the message the field would show on
// blur, empty when the field is valid
func (s *FormSessionStore) SetField(id, field, value string) (FormState, string, error) {
	session, err := s.Get(id)
	if err != nil {
		return FormState{}, "", err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if err := session.state.Input.Set(field, value); err != nil {
		return FormState{}, "", err
	}

	msg, ok := s.service.ValidateField(session.state.Input, field)
	if ok {
		delete(session.state.Errors, field)
	} else {
		if session.state.Errors == nil {
			session.state.Errors = validation.FieldErrors{}
		}
		session.state.Errors[field] = msg
	}
	return copyState(session.state), msg, nil
}

// Submit runs the registration pipeline on the current values of the form.
// The session is not locked while the record is being created, so edits
// made in the meantime are kept unless the submit succeeds.
func (s *FormSessionStore) Submit(ctx context.Context, id string, n notify.Notifier) (FormState, *models.RegistrationRecord, error) {
	session, err := s.Get(id)
	if err != nil {
		return FormState{}, nil, err
	}

	session.mu.Lock()
	snapshot := copyState(session.state)
	session.mu.Unlock()

	record, err := s.service.Submit(ctx, &snapshot, n)

	session.mu.Lock()
	defer session.mu.Unlock()

	if err == nil {
		session.state = snapshot
	} else {
		session.state.Errors = snapshot.Errors
	}
	return copyState(session.state), record, err
}

// Close discards a form
func (s *FormSessionStore) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.pending[id]; !exists {
		return ErrSessionNotFound
	}
	delete(s.pending, id)
	return nil
}

func (s *FormSessionStore) remove(id string) {
	s.mu.Lock()
	delete(s.pending, id)
	s.mu.Unlock()
}

func (s *FormSessionStore) scheduleCleanup(id string, after time.Duration) {
	time.AfterFunc(after, func() {
		s.mu.RLock()
		session, exists := s.pending[id]
		s.mu.RUnlock()
		if !exists {
			return
		}

		session.mu.Lock()
		remaining := session.expiresAt.Sub(s.now())
		session.mu.Unlock()

		if remaining > 0 {
			s.scheduleCleanup(id, remaining)
			return
		}
		s.remove(id)
	})
}

func copyState(st FormState) FormState {
	out := FormState{Input: st.Input}
	if len(st.Errors) > 0 {
		out.Errors = make(validation.FieldErrors, len(st.Errors))
		for k, v := range st.Errors {
			out.Errors[k] = v
		}
	}
	return out
}
