package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// redirect answers 303 See Other. kind is "message" for a success notice and
// "error" for a rejected action.
func redirect(c *gin.Context, location, kind, notice string) {
	c.Header("Location", location)
	body := gin.H{"redirect": location}
	if notice != "" {
		body[kind] = notice
	}
	c.JSON(http.StatusSeeOther, body)
}

// badRequest hands the error to the engine's error middleware.
func badRequest(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind).SetMeta(http.StatusBadRequest)
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// pathID parses a UUID path parameter. A malformed id is reported as 404,
// the same as an id that does not exist.
func pathID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return uuid.Nil, false
	}
	return id, true
}
