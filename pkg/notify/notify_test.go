package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	var c Collector
	assert.NotNil(t, c.Toasts())
	assert.Empty(t, c.Toasts())

	c.Notify(RegistrationFailed)
	c.Notify(RegistrationSucceeded)

	assert.Equal(t, []Toast{RegistrationFailed, RegistrationSucceeded}, c.Toasts())
}

func TestToastsAutoDismiss(t *testing.T) {
	for _, toast := range []Toast{RegistrationSucceeded, RegistrationFailed} {
		assert.Equal(t, 3000, toast.Duration)
		assert.Equal(t, "top-center", toast.Position)
	}
	assert.Equal(t, KindSuccess, RegistrationSucceeded.Kind)
	assert.Equal(t, KindError, RegistrationFailed.Kind)
}
