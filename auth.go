package main

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(header, "Bearer "), true
}

// login starts (or switches) a session for a username. There is no password:
// the user record is created lazily with the default food catalog.
// POST /api/login (public). Body: { "username": "..." }.
// A request that already carries a session token switches that session to
// the new username instead of opening another one.
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	username := strings.TrimSpace(body.Username)
	if username == "" {
		apiError(c, http.StatusBadRequest, "please enter a username")
		return
	}

	if err := h.store.ensureUser(c, username); err != nil {
		log.Printf("[login] ensureUser %q: %v", username, err)
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	bmis, err := h.store.bmiRecords(c, username)
	if err != nil {
		log.Printf("[login] bmiRecords %q: %v", username, err)
		apiError(c, http.StatusInternalServerError, "failed to load records")
		return
	}
	tdees, err := h.store.tdeeRecords(c, username)
	if err != nil {
		log.Printf("[login] tdeeRecords %q: %v", username, err)
		apiError(c, http.StatusInternalServerError, "failed to load records")
		return
	}
	foods, err := h.store.foodCatalog(c, username)
	if err != nil {
		log.Printf("[login] foodCatalog %q: %v", username, err)
		apiError(c, http.StatusInternalServerError, "failed to load foods")
		return
	}

	token, _ := bearerToken(c)
	token = h.sessions.login(token, username)

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"username":   username,
		"message":    "Welcome, " + username + "!",
		"bmi_dates":  bmiDates(bmis),
		"tdee_dates": tdeeDates(tdees),
		"bmi_series": bmiSeries(bmis),
		"foods":      foods,
	})
}

// logout ends the session. Stored records are kept.
// POST /api/logout (public; logging out twice is harmless).
func (h *Handler) logout(c *gin.Context) {
	if token, ok := bearerToken(c); ok {
		h.sessions.logout(token)
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// authMiddleware resolves the Bearer token to the session's username and sets
// it on the context. A logged-out or unknown session is rejected.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apiError(c, http.StatusUnauthorized, "please login first")
			c.Abort()
			return
		}
		username, ok := h.sessions.current(token)
		if !ok {
			apiError(c, http.StatusUnauthorized, "please login first")
			c.Abort()
			return
		}

		c.Set("username", username)
		c.Next()
	}
}
