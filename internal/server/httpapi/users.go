package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tyrekeeper/internal/server/services"
	"github.com/dmitrijs2005/tyrekeeper/internal/validation"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

type handlers struct {
	users UserService
	tyres TyreService
	db    Pinger
}

// bindJSON decodes the body into dst, reporting malformed payloads as
// validation failures.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		fail(c, validation.Invalid("body", "must be a valid JSON object"), "")
		return false
	}
	return true
}

func (h *handlers) register(c *gin.Context) {
	var in services.Credentials
	if !bindJSON(c, &in) {
		return
	}

	if _, err := h.users.Register(c.Request.Context(), in); err != nil {
		fail(c, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
}

func (h *handlers) login(c *gin.Context) {
	var in services.Credentials
	if !bindJSON(c, &in) {
		return
	}

	token, err := h.users.Login(c.Request.Context(), in)
	if err != nil {
		fail(c, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if h.db == nil || h.db.PingContext(ctx) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
