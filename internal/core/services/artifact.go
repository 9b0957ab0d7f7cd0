package services

import (
	"context"

	log "github.com/sirupsen/logrus"

	"artifact-approval-service/internal/core/domain"
	"artifact-approval-service/internal/core/ports/output"
)

// ArtifactService is the registry side of artifacts: creation and lookup.
// Version numbering lives in ArtifactVersionService.Create.
type ArtifactService struct {
	repo        ports.ArtifactRepository
	projectRepo ports.ProjectRepository
}

func NewArtifactService(repo ports.ArtifactRepository, projectRepo ports.ProjectRepository) *ArtifactService {
	return &ArtifactService{repo: repo, projectRepo: projectRepo}
}

// Create registers a new artifact under the default project.
func (s *ArtifactService) Create(ctx context.Context, name, artifactType string) (*domain.Artifact, error) {
	// Validate before touching storage so a bad request never creates the project.
	if _, err := domain.NewArtifact(0, name, artifactType); err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetOrCreate(ctx, domain.DefaultProjectName)
	if err != nil {
		return nil, err
	}

	artifact, err := domain.NewArtifact(project.ID, name, artifactType)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, artifact); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"artifact_id": artifact.ID,
		"project_id":  project.ID,
	}).Info("artifact created")

	return artifact, nil
}

func (s *ArtifactService) Get(ctx context.Context, id int64) (*domain.Artifact, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ArtifactService) List(ctx context.Context) ([]*domain.Artifact, error) {
	return s.repo.List(ctx)
}
