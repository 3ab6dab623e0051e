package api

import "github.com/gin-gonic/gin"

// RegisterRoutes wires every endpoint on the router
func RegisterRoutes(router *gin.Engine, h *Handlers) {
	router.GET("/health", h.HealthCheck)

	api := router.Group("/api")
	api.GET("/options", h.Options)
	api.POST("/registrations", h.CreateRegistration)

	forms := api.Group("/forms")
	forms.POST("", h.OpenForm)
	forms.GET("/:id", h.GetForm)
	forms.PUT("/:id/fields/:field", h.UpdateField)
	forms.POST("/:id/submit", h.SubmitForm)
	forms.DELETE("/:id", h.CloseForm)
}
