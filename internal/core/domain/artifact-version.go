package domain

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

type VersionStatus string

const (
	StatusAwaitingApproval VersionStatus = "AWAITING_APPROVAL"
	StatusApproved         VersionStatus = "APPROVED"
	StatusRejected         VersionStatus = "REJECTED"
)

const maxSubmittedByLength = 255

var allowedURLSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"ftps":  true,
}

// ParseVersionStatus validates a status filter value.
func ParseVersionStatus(s string) (VersionStatus, error) {
	switch st := VersionStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusAwaitingApproval, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// ============================================================================
// Version state
// ============================================================================

// VersionState is the lifecycle state of a version: Pending, Approved or
// Rejected. Only the terminal states carry a decision, so a version's status
// and decision cannot drift apart.
type VersionState interface {
	Status() VersionStatus
	Decision() (ApprovalDecision, bool)
	isVersionState()
}

type Pending struct{}

func (Pending) Status() VersionStatus              { return StatusAwaitingApproval }
func (Pending) Decision() (ApprovalDecision, bool) { return ApprovalDecision{}, false }
func (Pending) isVersionState()                    {}

type Approved struct {
	decision ApprovalDecision
}

func (s Approved) Status() VersionStatus              { return StatusApproved }
func (s Approved) Decision() (ApprovalDecision, bool) { return s.decision, true }
func (Approved) isVersionState()                      {}

type Rejected struct {
	decision ApprovalDecision
}

func (s Rejected) Status() VersionStatus              { return StatusRejected }
func (s Rejected) Decision() (ApprovalDecision, bool) { return s.decision, true }
func (Rejected) isVersionState()                      {}

// StateFromRecord rebuilds a state from its stored representation: a status
// column plus an optional decision row. Rows where the two disagree are
// reported as ErrInconsistentDecision.
func StateFromRecord(status VersionStatus, decision *ApprovalDecision) (VersionState, error) {
	if decision == nil {
		if status != StatusAwaitingApproval {
			return nil, ErrInconsistentDecision
		}
		return Pending{}, nil
	}
	if decision.Status() != status {
		return nil, ErrInconsistentDecision
	}
	return decision.State()
}

// ============================================================================
// Artifact version
// ============================================================================

// ArtifactVersion is one submitted instance of an artifact.
type ArtifactVersion struct {
	ID            int64        `json:"id"`
	ArtifactID    int64        `json:"artifact"`
	VersionNumber int          `json:"version_number"`
	URL           string       `json:"url"`
	SubmittedBy   string       `json:"submitted_by"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
	State         VersionState `json:"-"`
}

// NewArtifactVersion validates a submission. ID and VersionNumber are left
// zero; the repository assigns both inside the insert transaction.
func NewArtifactVersion(artifactID int64, rawURL, submittedBy string) (*ArtifactVersion, error) {
	if artifactID <= 0 {
		return nil, ErrInvalidArtifactID
	}

	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrURLRequired
	}
	if err := validateURL(rawURL); err != nil {
		return nil, err
	}

	submittedBy = strings.TrimSpace(submittedBy)
	if submittedBy == "" {
		return nil, ErrSubmittedByRequired
	}
	if utf8.RuneCountInString(submittedBy) > maxSubmittedByLength {
		return nil, ErrSubmittedByTooLong
	}

	now := Now()
	return &ArtifactVersion{
		ArtifactID:  artifactID,
		URL:         rawURL,
		SubmittedBy: submittedBy,
		CreatedAt:   now,
		UpdatedAt:   now,
		State:       Pending{},
	}, nil
}

// Status derives the status from the version's state.
func (v *ArtifactVersion) Status() VersionStatus {
	if v.State == nil {
		return StatusAwaitingApproval
	}
	return v.State.Status()
}

// Decision returns the recorded decision, if any.
func (v *ArtifactVersion) Decision() (ApprovalDecision, bool) {
	if v.State == nil {
		return ApprovalDecision{}, false
	}
	return v.State.Decision()
}

// IsPending reports whether the version may still receive a decision.
func (v *ArtifactVersion) IsPending() bool {
	return v.Status() == StatusAwaitingApproval
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return ErrInvalidURL
	}
	if !allowedURLSchemes[strings.ToLower(u.Scheme)] {
		return ErrInvalidURL
	}
	return nil
}
