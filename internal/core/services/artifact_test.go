package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"artifact-approval-service/internal/core/domain"
	"artifact-approval-service/internal/testutil"
)

func TestArtifactService_Create(t *testing.T) {
	repo := new(testutil.MockArtifactRepo)
	projectRepo := new(testutil.MockProjectRepo)
	svc := NewArtifactService(repo, projectRepo)

	project := &domain.Project{ID: 4, Name: domain.DefaultProjectName}
	projectRepo.On("GetOrCreate", mock.Anything, domain.DefaultProjectName).Return(project, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Artifact")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Artifact).ID = 11
		}).
		Return(nil)

	artifact, err := svc.Create(context.Background(), "Q1 Campaign", "PDF")
	assert.NoError(t, err)
	assert.Equal(t, int64(11), artifact.ID)
	assert.Equal(t, int64(4), artifact.ProjectID)
	assert.Equal(t, "Q1 Campaign", artifact.Name)
	assert.Equal(t, "PDF", artifact.ArtifactType)
	assert.Zero(t, artifact.VersionCount)
}

func TestArtifactService_Create_EmptyName(t *testing.T) {
	repo := new(testutil.MockArtifactRepo)
	projectRepo := new(testutil.MockProjectRepo)
	svc := NewArtifactService(repo, projectRepo)

	_, err := svc.Create(context.Background(), "", "PDF")
	assert.ErrorIs(t, err, domain.ErrNameRequired)
	assert.ErrorIs(t, err, domain.ErrValidation)
	projectRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArtifactService_Create_StorageError(t *testing.T) {
	repo := new(testutil.MockArtifactRepo)
	projectRepo := new(testutil.MockProjectRepo)
	svc := NewArtifactService(repo, projectRepo)

	storageErr := errors.New("connection reset")
	projectRepo.On("GetOrCreate", mock.Anything, domain.DefaultProjectName).Return(nil, storageErr)

	_, err := svc.Create(context.Background(), "Brochure", "")
	assert.ErrorIs(t, err, storageErr)
}

func TestArtifactService_Get(t *testing.T) {
	repo := new(testutil.MockArtifactRepo)
	svc := NewArtifactService(repo, new(testutil.MockProjectRepo))

	expected := &domain.Artifact{ID: 2, Name: "Brochure", CreatedAt: time.Now()}
	repo.On("GetByID", mock.Anything, int64(2)).Return(expected, nil)
	repo.On("GetByID", mock.Anything, int64(3)).Return(nil, domain.ErrArtifactNotFound)

	artifact, err := svc.Get(context.Background(), 2)
	assert.NoError(t, err)
	assert.Equal(t, "Brochure", artifact.Name)

	_, err = svc.Get(context.Background(), 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactService_List(t *testing.T) {
	repo := new(testutil.MockArtifactRepo)
	svc := NewArtifactService(repo, new(testutil.MockProjectRepo))

	repo.On("List", mock.Anything).Return([]*domain.Artifact{{ID: 2}, {ID: 1}}, nil)

	artifacts, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, artifacts, 2)
}
