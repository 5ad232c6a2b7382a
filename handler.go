package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler holds shared dependencies (record store, sessions, config) for all
// route handlers.
type Handler struct {
	store         recordStore
	sessions      *sessionStore
	openAIBaseURL string // Base URL for OpenAI API (overridable for tests)
}

func newHandler(store recordStore, openAIBaseURL string) *Handler {
	return &Handler{store: store, sessions: newSessionStore(), openAIBaseURL: openAIBaseURL}
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// storeError logs a failed store call and responds 500.
func storeError(c *gin.Context, fn string, err error, message string) {
	log.Printf("[%s] store error for %q: %v", fn, currentUser(c), err)
	apiError(c, http.StatusInternalServerError, message)
}

// currentUser returns the username the auth middleware put on the context.
func currentUser(c *gin.Context) string {
	return c.GetString("username")
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/api/login", h.login)
	router.POST("/api/logout", h.logout)

	// Routes that need a logged-in session
	api := router.Group("/api", h.authMiddleware())
	api.GET("/bmi", h.listBMI)
	api.POST("/bmi", h.saveBMI)
	api.GET("/bmi/series", h.getBMISeries)
	api.GET("/bmi/:date", h.viewBMI)
	api.DELETE("/bmi/:date", h.clearBMI)
	api.GET("/tdee", h.listTDEE)
	api.POST("/tdee", h.saveTDEE)
	api.GET("/tdee/link/:date", h.linkBMIForTDEE)
	api.GET("/foods", h.getFoods)
	api.POST("/foods", h.addFood)
	api.POST("/foods/suggest", h.suggestFood)
	api.GET("/food-log/target", h.getTarget)
	api.GET("/food-log/week", h.getWeek)
	api.POST("/food-log", h.logDay)
	api.DELETE("/food-log/:date", h.resetDay)
	api.DELETE("/food-log", h.clearFoodLog)
}
