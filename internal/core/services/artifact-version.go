package services

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"artifact-approval-service/internal/core/domain"
	"artifact-approval-service/internal/core/ports/output"
	"artifact-approval-service/internal/tracing"
)

// ArtifactVersionService handles version submission, lookup and the
// approve/reject decision protocol.
type ArtifactVersionService struct {
	repo ports.ArtifactVersionRepository
	now  func() time.Time
}

func NewArtifactVersionService(repo ports.ArtifactVersionRepository) *ArtifactVersionService {
	return &ArtifactVersionService{repo: repo, now: time.Now}
}

// Create submits a new version of an artifact. The repository assigns the
// version number atomically with the insert.
func (s *ArtifactVersionService) Create(ctx context.Context, artifactID int64, url, submittedBy string) (version *domain.ArtifactVersion, err error) {
	ctx, span := tracing.StartSpan(ctx, "artifact_version.create", attribute.Int64("artifact.id", artifactID))
	defer func() { tracing.EndSpan(span, err) }()

	version, err = domain.NewArtifactVersion(artifactID, url, submittedBy)
	if err != nil {
		return nil, err
	}
	if err = s.repo.Create(ctx, version); err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("version.id", version.ID),
		attribute.Int("version.number", version.VersionNumber),
	)
	log.WithFields(log.Fields{
		"artifact_id":    artifactID,
		"version_id":     version.ID,
		"version_number": version.VersionNumber,
	}).Info("artifact version submitted")

	return version, nil
}

func (s *ArtifactVersionService) Get(ctx context.Context, id int64) (*domain.ArtifactVersion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ArtifactVersionService) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.ArtifactVersion, error) {
	return s.repo.List(ctx, filter)
}

// Approve records an APPROVE decision on a pending version.
func (s *ArtifactVersionService) Approve(ctx context.Context, id int64, decidedBy, note string) (*domain.ArtifactVersion, error) {
	decision, err := domain.NewApproval(decidedBy, note, s.now())
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, id, decision)
}

// Reject records a REJECT decision on a pending version. reason is required.
func (s *ArtifactVersionService) Reject(ctx context.Context, id int64, decidedBy, reason, note string) (*domain.ArtifactVersion, error) {
	decision, err := domain.NewRejection(decidedBy, reason, note, s.now())
	if err != nil {
		return nil, err
	}
	return s.decide(ctx, id, decision)
}

func (s *ArtifactVersionService) decide(ctx context.Context, id int64, decision domain.ApprovalDecision) (version *domain.ArtifactVersion, err error) {
	ctx, span := tracing.StartSpan(ctx, "artifact_version.decide",
		attribute.Int64("version.id", id),
		attribute.String("decision", string(decision.Decision)),
	)
	defer func() { tracing.EndSpan(span, err) }()

	version, err = s.repo.DecideOnce(ctx, id, decision)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"version_id": id,
		"decision":   decision.Decision,
		"decided_by": decision.DecidedBy,
	}).Info("artifact version decided")

	return version, nil
}
