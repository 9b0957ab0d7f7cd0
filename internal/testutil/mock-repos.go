package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"artifact-approval-service/internal/core/domain"
	"artifact-approval-service/internal/core/ports/output"
)

// MockProjectRepo is a mock of ProjectRepository.
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) GetOrCreate(ctx context.Context, name string) (*domain.Project, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

// MockArtifactRepo is a mock of ArtifactRepository.
type MockArtifactRepo struct {
	mock.Mock
}

func (m *MockArtifactRepo) Create(ctx context.Context, artifact *domain.Artifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactRepo) GetByID(ctx context.Context, id int64) (*domain.Artifact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Artifact), args.Error(1)
}

func (m *MockArtifactRepo) List(ctx context.Context) ([]*domain.Artifact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Artifact), args.Error(1)
}

// MockArtifactVersionRepo is a mock of ArtifactVersionRepository.
type MockArtifactVersionRepo struct {
	mock.Mock
}

func (m *MockArtifactVersionRepo) Create(ctx context.Context, version *domain.ArtifactVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockArtifactVersionRepo) GetByID(ctx context.Context, id int64) (*domain.ArtifactVersion, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArtifactVersion), args.Error(1)
}

func (m *MockArtifactVersionRepo) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.ArtifactVersion, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ArtifactVersion), args.Error(1)
}

func (m *MockArtifactVersionRepo) DecideOnce(ctx context.Context, id int64, decision domain.ApprovalDecision) (*domain.ArtifactVersion, error) {
	args := m.Called(ctx, id, decision)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArtifactVersion), args.Error(1)
}
