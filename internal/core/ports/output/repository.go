package ports

import (
	"context"

	"artifact-approval-service/internal/core/domain"
)

// VersionListFilter narrows a version listing. Zero values mean "any".
type VersionListFilter struct {
	ArtifactID int64
	Status     domain.VersionStatus
}

type ProjectRepository interface {
	// GetOrCreate returns the project with the given name, creating it if needed.
	GetOrCreate(ctx context.Context, name string) (*domain.Project, error)
}

type ArtifactRepository interface {
	// Create persists the artifact and sets its ID.
	Create(ctx context.Context, artifact *domain.Artifact) error
	GetByID(ctx context.Context, id int64) (*domain.Artifact, error)
	List(ctx context.Context) ([]*domain.Artifact, error)
}

// ArtifactVersionRepository is the version store. DecideOnce is the only
// operation that changes a stored version.
type ArtifactVersionRepository interface {
	// Create assigns the next version number of the artifact and inserts the
	// version as one atomic unit, setting ID and VersionNumber on success.
	// Returns domain.ErrArtifactNotFound if the artifact does not exist.
	Create(ctx context.Context, version *domain.ArtifactVersion) error
	GetByID(ctx context.Context, id int64) (*domain.ArtifactVersion, error)
	// List returns versions newest first.
	List(ctx context.Context, filter VersionListFilter) ([]*domain.ArtifactVersion, error)
	// DecideOnce moves a pending version into the decision's terminal state
	// and stores the decision, or fails with domain.ErrAlreadyDecided without
	// changing anything. Of any number of concurrent calls for one version, at
	// most one succeeds.
	DecideOnce(ctx context.Context, id int64, decision domain.ApprovalDecision) (*domain.ArtifactVersion, error)
}
