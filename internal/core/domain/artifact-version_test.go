package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArtifactVersion(t *testing.T) {
	v, err := NewArtifactVersion(7, " https://x/y.pdf ", "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v.ArtifactID)
	assert.Equal(t, "https://x/y.pdf", v.URL)
	assert.Equal(t, StatusAwaitingApproval, v.Status())
	assert.True(t, v.IsPending())
	_, ok := v.Decision()
	assert.False(t, ok)
}

func TestNewArtifactVersion_Validation(t *testing.T) {
	tests := []struct {
		name        string
		artifactID  int64
		url         string
		submittedBy string
		want        error
	}{
		{"missing artifact", 0, "https://x/y", "a@b.com", ErrInvalidArtifactID},
		{"empty url", 1, "  ", "a@b.com", ErrURLRequired},
		{"relative url", 1, "/y.pdf", "a@b.com", ErrInvalidURL},
		{"unsupported scheme", 1, "file:///etc/passwd", "a@b.com", ErrInvalidURL},
		{"empty submitter", 1, "https://x/y", "", ErrSubmittedByRequired},
		{"long submitter", 1, "https://x/y", strings.Repeat("a", 256), ErrSubmittedByTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewArtifactVersion(tt.artifactID, tt.url, tt.submittedBy)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestNewArtifact(t *testing.T) {
	a, err := NewArtifact(1, "Q1 Campaign", "PDF")
	require.NoError(t, err)
	assert.Equal(t, "Q1 Campaign", a.Name)
	assert.Equal(t, "PDF", a.ArtifactType)

	_, err = NewArtifact(1, "   ", "")
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = NewArtifact(1, "ok", strings.Repeat("t", 101))
	assert.ErrorIs(t, err, ErrArtifactTypeTooLong)
}

func TestDecisionConstructors(t *testing.T) {
	now := time.Now()

	approval, err := NewApproval("lead@agency.com", "", now)
	require.NoError(t, err)
	assert.Equal(t, DecisionApprove, approval.Decision)
	assert.Empty(t, approval.Reason)
	assert.Equal(t, StatusApproved, approval.Status())

	_, err = NewApproval(" ", "", now)
	assert.ErrorIs(t, err, ErrDecidedByRequired)

	_, err = NewRejection("a@b.com", "", "", now)
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = NewRejection("a@b.com", strings.Repeat("r", 101), "", now)
	assert.ErrorIs(t, err, ErrReasonTooLong)

	rejection, err := NewRejection("a@b.com", "Off brand", "use #0066CC", now)
	require.NoError(t, err)
	assert.Equal(t, DecisionReject, rejection.Decision)
	assert.Equal(t, StatusRejected, rejection.Status())
}

func TestDecisionState(t *testing.T) {
	approval, _ := NewApproval("a@b.com", "", time.Now())
	state, err := approval.State()
	require.NoError(t, err)
	assert.IsType(t, Approved{}, state)
	d, ok := state.Decision()
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", d.DecidedBy)

	rejection, _ := NewRejection("a@b.com", "Wrong size", "", time.Now())
	state, err = rejection.State()
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, state.Status())

	_, err = ApprovalDecision{Decision: "MAYBE"}.State()
	assert.ErrorIs(t, err, ErrInvalidDecisionKind)
}

func TestStateFromRecord(t *testing.T) {
	state, err := StateFromRecord(StatusAwaitingApproval, nil)
	require.NoError(t, err)
	assert.Equal(t, Pending{}, state)

	_, err = StateFromRecord(StatusApproved, nil)
	assert.ErrorIs(t, err, ErrInconsistentDecision)

	approval, _ := NewApproval("a@b.com", "", time.Now())
	state, err = StateFromRecord(StatusApproved, &approval)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, state.Status())

	_, err = StateFromRecord(StatusRejected, &approval)
	assert.ErrorIs(t, err, ErrInconsistentDecision)

	_, err = StateFromRecord(StatusAwaitingApproval, &approval)
	assert.ErrorIs(t, err, ErrInconsistentDecision)
}

func TestParseVersionStatus(t *testing.T) {
	st, err := ParseVersionStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, st)

	_, err = ParseVersionStatus("DONE")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
