package handlers

import (
	"net/http"
	"strconv"

	"artifact-approval-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	artifactSvc *services.ArtifactService
	versionSvc  *services.ArtifactVersionService
}

func New(artifactSvc *services.ArtifactService, versionSvc *services.ArtifactVersionService) *Handler {
	return &Handler{
		artifactSvc: artifactSvc,
		versionSvc:  versionSvc,
	}
}

// RegisterRoutes mounts the API on r. Paths keep their trailing slash; the
// presentation client calls them that way.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.APIRoot)

	// Artifacts
	r.GET("/artifacts/", h.ListArtifacts)
	r.POST("/artifacts/", h.CreateArtifact)
	r.GET("/artifacts/:id/", h.GetArtifact)

	// Artifact Versions
	r.GET("/artifact-versions/", h.ListArtifactVersions)
	r.POST("/artifact-versions/", h.CreateArtifactVersion)
	r.GET("/artifact-versions/:id/", h.GetArtifactVersion)

	// Decisions
	r.POST("/artifact-versions/:id/approve/", h.ApproveArtifactVersion)
	r.POST("/artifact-versions/:id/reject/", h.RejectArtifactVersion)
}

// APIRoot lists the primary endpoints.
func (h *Handler) APIRoot(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	base := scheme + "://" + c.Request.Host + c.FullPath()

	c.JSON(http.StatusOK, gin.H{
		"artifacts":         base + "artifacts/",
		"artifact_versions": base + "artifact-versions/",
	})
}

// pathID parses the :id segment. Ids are positive; anything else cannot name
// a stored record.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
