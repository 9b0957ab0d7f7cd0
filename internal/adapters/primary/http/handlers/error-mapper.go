package handlers

import (
	"errors"
	"net/http"

	"artifact-approval-service/internal/adapters/primary/http/dto"
	"artifact-approval-service/internal/core/domain"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: err.Error()})

	// A lost decision race lands here too.
	case errors.Is(err, domain.ErrFinality):
		log.WithError(err).WithField("path", c.Request.URL.Path).Warn("decision rejected: version already decided")
		c.JSON(http.StatusConflict, dto.ErrorResponse{Detail: err.Error()})

	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: err.Error()})

	default:
		log.WithError(err).WithFields(log.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: "internal server error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Detail: err.Error()})
}
