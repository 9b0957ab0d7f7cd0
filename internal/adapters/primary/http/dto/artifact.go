package dto

import (
	"time"

	"artifact-approval-service/internal/core/domain"
)

const timeFormat = time.RFC3339

// ============================================================================
// Requests
// ============================================================================

type CreateArtifactRequest struct {
	Name         string `json:"name"`
	ArtifactType string `json:"artifact_type"`
}

type CreateArtifactVersionRequest struct {
	Artifact    int64  `json:"artifact" binding:"required"`
	URL         string `json:"url"`
	SubmittedBy string `json:"submitted_by"`
}

type ApproveRequest struct {
	DecidedBy string `json:"decided_by"`
	Note      string `json:"note"`
}

type RejectRequest struct {
	DecidedBy string `json:"decided_by"`
	Reason    string `json:"reason"`
	Note      string `json:"note"`
}

// ============================================================================
// Responses
// ============================================================================

type ArtifactResponse struct {
	ID           int64  `json:"id"`
	Project      int64  `json:"project"`
	Name         string `json:"name"`
	ArtifactType string `json:"artifact_type"`
	CreatedAt    string `json:"created_at"`
	VersionCount int    `json:"version_count"`
}

type ApprovalDecisionResponse struct {
	ID        int64  `json:"id"`
	Decision  string `json:"decision"`
	DecidedBy string `json:"decided_by"`
	DecidedAt string `json:"decided_at"`
	Reason    string `json:"reason"`
	Note      string `json:"note"`
}

// ArtifactVersionResponse carries decision as JSON null while the version is
// awaiting approval.
type ArtifactVersionResponse struct {
	ID            int64                     `json:"id"`
	Artifact      int64                     `json:"artifact"`
	VersionNumber int                       `json:"version_number"`
	URL           string                    `json:"url"`
	SubmittedBy   string                    `json:"submitted_by"`
	Status        string                    `json:"status"`
	CreatedAt     string                    `json:"created_at"`
	UpdatedAt     string                    `json:"updated_at"`
	Decision      *ApprovalDecisionResponse `json:"decision"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ============================================================================
// Mappers
// ============================================================================

func ToArtifactResponse(a *domain.Artifact) ArtifactResponse {
	return ArtifactResponse{
		ID:           a.ID,
		Project:      a.ProjectID,
		Name:         a.Name,
		ArtifactType: a.ArtifactType,
		CreatedAt:    a.CreatedAt.Format(timeFormat),
		VersionCount: a.VersionCount,
	}
}

func ToArtifactVersionResponse(v *domain.ArtifactVersion) ArtifactVersionResponse {
	resp := ArtifactVersionResponse{
		ID:            v.ID,
		Artifact:      v.ArtifactID,
		VersionNumber: v.VersionNumber,
		URL:           v.URL,
		SubmittedBy:   v.SubmittedBy,
		Status:        string(v.Status()),
		CreatedAt:     v.CreatedAt.Format(timeFormat),
		UpdatedAt:     v.UpdatedAt.Format(timeFormat),
	}

	if d, ok := v.Decision(); ok {
		resp.Decision = &ApprovalDecisionResponse{
			ID:        d.ID,
			Decision:  string(d.Decision),
			DecidedBy: d.DecidedBy,
			DecidedAt: d.DecidedAt.Format(timeFormat),
			Reason:    d.Reason,
			Note:      d.Note,
		}
	}
	return resp
}

func ToArtifactVersionResponses(versions []*domain.ArtifactVersion) []ArtifactVersionResponse {
	items := make([]ArtifactVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, ToArtifactVersionResponse(v))
	}
	return items
}
