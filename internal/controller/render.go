package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/baajur/users/internal/errs"
	"github.com/baajur/users/internal/logger"
)

// render writes the payload, or maps the error to its status. No
// lower layer's native error ever reaches the wire.
func render(c *gin.Context, payload any, err error) {
	if err == nil {
		c.JSON(http.StatusOK, payload)
		return
	}

	var verr *errs.ValidationError
	var uerr *errs.UpstreamError

	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, errs.ErrAuth):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errs.ErrAuth.Error()})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verr.Fields})
	case errors.As(err, &uerr):
		logger.Error("upstream provider failed", map[string]any{
			"provider": uerr.Provider,
			"error":    uerr.Err.Error(),
		})
		c.JSON(http.StatusBadGateway, gin.H{"error": "Upstream provider error"})
	default:
		logger.Error("request failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
