package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"github.com/Mihail0123/hausrunde/internal/app/apperr"
)

// respondError translates application error kinds into HTTP responses.
// Validation and business-rule failures render the field map the way the
// API has always reported them, infrastructure failures stay opaque.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.KindValidation, apperr.KindBusinessRule:
		fields := apperr.FieldsOf(err)
		if len(fields) == 0 {
			fields = apperr.FieldErrors{apperr.NonFieldKey: {err.Error()}}
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case apperr.KindForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}
