package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/progresspro/client-registration/pkg/models"
	"github.com/progresspro/client-registration/pkg/notify"
	"github.com/progresspro/client-registration/pkg/services"
	"github.com/progresspro/client-registration/pkg/validation"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	registrationService services.RegistrationService
	sessions            *services.FormSessionStore
	cities              []string
	countryCode         string
}

// NewHandlers creates a new Handlers instance. A non-empty cities list is
// advertised to the front-end as the city dropdown.
func NewHandlers(
	registrationService services.RegistrationService,
	sessions *services.FormSessionStore,
	cities []string,
	countryCode string,
) *Handlers {
	return &Handlers{
		registrationService: registrationService,
		sessions:            sessions,
		cities:              cities,
		countryCode:         countryCode,
	}
}

// HealthCheck handler for monitoring
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Options lists the dropdown values and defaults the form is rendered with
func (h *Handlers) Options(c *gin.Context) {
	cities := h.cities
	if cities == nil {
		cities = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"isTrainer":   models.TrainerOptions,
		"gender":      models.GenderOptions,
		"city":        cities,
		"countryCode": "+" + h.countryCode,
		"defaults":    h.registrationService.Defaults(),
	})
}

// Submits a complete form in one request
func (h *Handlers) CreateRegistration(c *gin.Context) {
	var input models.RegistrationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("Error parsing JSON: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	var toasts notify.Collector
	form := &services.FormState{Input: input}
	record, err := h.registrationService.Submit(c.Request.Context(), form, &toasts)

	body := gin.H{"toasts": toasts.Toasts()}
	if err != nil {
		status := h.submitErrorStatus(err, body)
		c.JSON(status, body)
		return
	}

	body["record"] = record
	c.JSON(http.StatusCreated, body)
}

// Opens a server-side form with default values
func (h *Handlers) OpenForm(c *gin.Context) {
	session := h.sessions.Open()
	c.JSON(http.StatusCreated, gin.H{
		"id":     session.ID,
		"values": session.State().Input,
	})
}

// Returns the current values and field errors of a form
func (h *Handlers) GetForm(c *gin.Context) {
	session, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		h.sessionError(c, err)
		return
	}
	state := session.State()
	c.JSON(http.StatusOK, gin.H{
		"id":     session.ID,
		"values": state.Input,
		"errors": errorsOrEmpty(state.Errors),
	})
}

type fieldUpdate struct {
	Value string `json:"value"`
}

// Applies a single field edit and reports that field's error, if any
func (h *Handlers) UpdateField(c *gin.Context) {
	var update fieldUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format"})
		return
	}

	field := c.Param("field")
	state, msg, err := h.sessions.SetField(c.Param("id"), field, update.Value)
	if err != nil {
		h.sessionError(c, err)
		return
	}

	body := gin.H{
		"field":  field,
		"values": state.Input,
		"errors": errorsOrEmpty(state.Errors),
	}
	if msg != "" {
		body["error"] = msg
	}
	c.JSON(http.StatusOK, body)
}

// Submits the values currently held by a form
func (h *Handlers) SubmitForm(c *gin.Context) {
	var toasts notify.Collector
	state, record, err := h.sessions.Submit(c.Request.Context(), c.Param("id"), &toasts)
	if errors.Is(err, services.ErrSessionNotFound) || errors.Is(err, services.ErrSessionExpired) {
		h.sessionError(c, err)
		return
	}

	body := gin.H{
		"values": state.Input,
		"toasts": toasts.Toasts(),
	}
	if err != nil {
		status := h.submitErrorStatus(err, body)
		c.JSON(status, body)
		return
	}

	body["record"] = record
	c.JSON(http.StatusCreated, body)
}

// Discards a form, e.g. when the user navigates away
func (h *Handlers) CloseForm(c *gin.Context) {
	if err := h.sessions.Close(c.Param("id")); err != nil {
		h.sessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) submitErrorStatus(err error, body gin.H) int {
	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		body["errors"] = verr.Fields
		return http.StatusUnprocessableEntity
	}
	body["error"] = "registration could not be saved"
	return http.StatusBadGateway
}

func (h *Handlers) sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Form not found"})
	case errors.Is(err, services.ErrSessionExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Form expired"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func errorsOrEmpty(errs validation.FieldErrors) validation.FieldErrors {
	if errs == nil {
		return validation.FieldErrors{}
	}
	return errs
}
