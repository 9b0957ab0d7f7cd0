package handlers

import (
	"net/http"

	"artifact-approval-service/internal/adapters/primary/http/dto"
	"artifact-approval-service/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListArtifacts(c *gin.Context) {
	artifacts, err := h.artifactSvc.List(c.Request.Context())
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ArtifactResponse, 0, len(artifacts))
	for _, a := range artifacts {
		items = append(items, dto.ToArtifactResponse(a))
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetArtifact(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		mapDomainError(c, domain.ErrArtifactNotFound)
		return
	}

	artifact, err := h.artifactSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactResponse(artifact))
}

func (h *Handler) CreateArtifact(c *gin.Context) {
	var req dto.CreateArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	artifact, err := h.artifactSvc.Create(c.Request.Context(), req.Name, req.ArtifactType)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToArtifactResponse(artifact))
}
