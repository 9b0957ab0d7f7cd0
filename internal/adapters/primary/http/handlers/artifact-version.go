package handlers

import (
	"net/http"
	"strconv"

	"artifact-approval-service/internal/adapters/primary/http/dto"
	"artifact-approval-service/internal/core/domain"
	"artifact-approval-service/internal/core/ports/output"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListArtifactVersions(c *gin.Context) {
	filter := ports.VersionListFilter{}

	if raw := c.Query("status"); raw != "" {
		status, err := domain.ParseVersionStatus(raw)
		if err != nil {
			mapDomainError(c, err)
			return
		}
		filter.Status = status
	}
	if raw := c.Query("artifact"); raw != "" {
		artifactID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || artifactID <= 0 {
			mapDomainError(c, domain.ErrInvalidArtifactID)
			return
		}
		filter.ArtifactID = artifactID
	}

	versions, err := h.versionSvc.List(c.Request.Context(), filter)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactVersionResponses(versions))
}

func (h *Handler) GetArtifactVersion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		mapDomainError(c, domain.ErrVersionNotFound)
		return
	}

	version, err := h.versionSvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactVersionResponse(version))
}

func (h *Handler) CreateArtifactVersion(c *gin.Context) {
	var req dto.CreateArtifactVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	version, err := h.versionSvc.Create(c.Request.Context(), req.Artifact, req.URL, req.SubmittedBy)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToArtifactVersionResponse(version))
}

func (h *Handler) ApproveArtifactVersion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		mapDomainError(c, domain.ErrVersionNotFound)
		return
	}

	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	version, err := h.versionSvc.Approve(c.Request.Context(), id, req.DecidedBy, req.Note)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactVersionResponse(version))
}

func (h *Handler) RejectArtifactVersion(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		mapDomainError(c, domain.ErrVersionNotFound)
		return
	}

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	version, err := h.versionSvc.Reject(c.Request.Context(), id, req.DecidedBy, req.Reason, req.Note)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactVersionResponse(version))
}
