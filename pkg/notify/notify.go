package notify

import "sync"

// Kind distinguishes success toasts from failure toasts
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Toast is a fire-and-forget notification rendered by the front-end
type Toast struct {
	Kind     Kind   `json:"kind"`
	Message  string `json:"message"`
	Duration int    `json:"duration"` // milliseconds
	Position string `json:"position"`
}

var (
	RegistrationSucceeded = Toast{
		Kind:     KindSuccess,
		Message:  "Usuario creado exitosamente!",
		Duration: 3000,
		Position: "top-center",
	}
	RegistrationFailed = Toast{
		Kind:     KindError,
		Message:  "Error al crear el usuario. Por favor, intente nuevamente.",
		Duration: 3000,
		Position: "top-center",
	}
)

// Notifier delivers toasts. Implementations must not block.
type Notifier interface {
	Notify(t Toast)
}

// Collector keeps the toasts raised while handling one request
type Collector struct {
	mu     sync.Mutex
	toasts []Toast
}

func (c *Collector) Notify(t Toast) {
	c.mu.Lock()
	c.toasts = append(c.toasts, t)
	c.mu.Unlock()
}

// Toasts returns the collected toasts, never nil
func (c *Collector) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Toast, len(c.toasts))
	copy(out, c.toasts)
	return out
}
