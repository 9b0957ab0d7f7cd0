package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artifact-approval-service/internal/core/domain"
	"artifact-approval-service/internal/core/ports/output"
	"artifact-approval-service/internal/testutil"
)

var fixedNow = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

func newVersionService(repo *testutil.MockArtifactVersionRepo) *ArtifactVersionService {
	svc := NewArtifactVersionService(repo)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func decidedVersion(t *testing.T, id int64, d domain.ApprovalDecision) *domain.ArtifactVersion {
	t.Helper()
	state, err := d.State()
	require.NoError(t, err)
	return &domain.ArtifactVersion{ID: id, ArtifactID: 1, VersionNumber: 1, State: state}
}

func TestArtifactVersionService_Create(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ArtifactVersion")).
		Run(func(args mock.Arguments) {
			v := args.Get(1).(*domain.ArtifactVersion)
			v.ID = 21
			v.VersionNumber = 1
		}).
		Return(nil)

	version, err := svc.Create(context.Background(), 5, "https://x/y.pdf", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, int64(21), version.ID)
	assert.Equal(t, 1, version.VersionNumber)
	assert.Equal(t, int64(5), version.ArtifactID)
	assert.Equal(t, domain.StatusAwaitingApproval, version.Status())
	_, decided := version.Decision()
	assert.False(t, decided)
}

func TestArtifactVersionService_Create_Validation(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	_, err := svc.Create(context.Background(), 5, "", "a@b.com")
	assert.ErrorIs(t, err, domain.ErrURLRequired)

	_, err = svc.Create(context.Background(), 5, "https://x/y.pdf", "")
	assert.ErrorIs(t, err, domain.ErrSubmittedByRequired)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestArtifactVersionService_Create_ArtifactNotFound(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(domain.ErrArtifactNotFound)

	_, err := svc.Create(context.Background(), 404, "https://x/y.pdf", "a@b.com")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
}

func TestArtifactVersionService_Get(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	repo.On("GetByID", mock.Anything, int64(99999)).Return(nil, domain.ErrVersionNotFound)

	_, err := svc.Get(context.Background(), 99999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestArtifactVersionService_List(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	filter := ports.VersionListFilter{Status: domain.StatusAwaitingApproval}
	repo.On("List", mock.Anything, filter).Return([]*domain.ArtifactVersion{{ID: 1}}, nil)

	versions, err := svc.List(context.Background(), filter)
	assert.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestArtifactVersionService_Approve(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	want := domain.ApprovalDecision{
		Decision:  domain.DecisionApprove,
		DecidedBy: "lead@agency.com",
		DecidedAt: fixedNow,
	}
	repo.On("DecideOnce", mock.Anything, int64(7), want).Return(decidedVersion(t, 7, want), nil)

	version, err := svc.Approve(context.Background(), 7, " lead@agency.com ", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, version.Status())
	d, ok := version.Decision()
	assert.True(t, ok)
	assert.Equal(t, domain.DecisionApprove, d.Decision)
	assert.Empty(t, d.Reason)
}

func TestArtifactVersionService_Approve_RequiresDecidedBy(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	_, err := svc.Approve(context.Background(), 7, "", "")
	assert.ErrorIs(t, err, domain.ErrDecidedByRequired)
	repo.AssertNotCalled(t, "DecideOnce", mock.Anything, mock.Anything, mock.Anything)
}

func TestArtifactVersionService_Reject(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	want := domain.ApprovalDecision{
		Decision:  domain.DecisionReject,
		DecidedBy: "a@b.com",
		DecidedAt: fixedNow,
		Reason:    "Colors don't match brand guidelines",
		Note:      "Please use primary blue (#0066CC)",
	}
	repo.On("DecideOnce", mock.Anything, int64(8), want).Return(decidedVersion(t, 8, want), nil)

	version, err := svc.Reject(context.Background(), 8, "a@b.com",
		"Colors don't match brand guidelines", "Please use primary blue (#0066CC)")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, version.Status())
}

func TestArtifactVersionService_Reject_RequiresReason(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	_, err := svc.Reject(context.Background(), 8, "a@b.com", "", "")
	assert.ErrorIs(t, err, domain.ErrReasonRequired)
	assert.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "DecideOnce", mock.Anything, mock.Anything, mock.Anything)
}

func TestArtifactVersionService_DecisionFinality(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	repo.On("DecideOnce", mock.Anything, int64(9), mock.Anything).Return(nil, domain.ErrAlreadyDecided)

	_, err := svc.Approve(context.Background(), 9, "other@agency.com", "")
	assert.ErrorIs(t, err, domain.ErrFinality)

	_, err = svc.Reject(context.Background(), 9, "other@agency.com", "late", "")
	assert.ErrorIs(t, err, domain.ErrAlreadyDecided)
}

func TestArtifactVersionService_Decide_NotFound(t *testing.T) {
	repo := new(testutil.MockArtifactVersionRepo)
	svc := newVersionService(repo)

	repo.On("DecideOnce", mock.Anything, int64(99999), mock.Anything).Return(nil, domain.ErrVersionNotFound)

	_, err := svc.Approve(context.Background(), 99999, "a@b.com", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
