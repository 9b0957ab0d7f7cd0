package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

type DecisionKind string

const (
	DecisionApprove DecisionKind = "APPROVE"
	DecisionReject  DecisionKind = "REJECT"
)

const (
	maxDecidedByLength = 255
	maxReasonLength    = 100
)

// ApprovalDecision is the terminal outcome recorded against a version.
// Reason is empty for approvals and non-empty for rejections.
type ApprovalDecision struct {
	ID        int64        `json:"id"`
	Decision  DecisionKind `json:"decision"`
	DecidedBy string       `json:"decided_by"`
	DecidedAt time.Time    `json:"decided_at"`
	Reason    string       `json:"reason"`
	Note      string       `json:"note"`
}

// NewApproval builds an APPROVE decision. decidedBy is free text; it is not
// checked against any identity provider.
func NewApproval(decidedBy, note string, at time.Time) (ApprovalDecision, error) {
	decidedBy, err := validateDecidedBy(decidedBy)
	if err != nil {
		return ApprovalDecision{}, err
	}
	return ApprovalDecision{
		Decision:  DecisionApprove,
		DecidedBy: decidedBy,
		DecidedAt: truncate(at),
		Note:      strings.TrimSpace(note),
	}, nil
}

// NewRejection builds a REJECT decision; a rejection must carry a reason.
func NewRejection(decidedBy, reason, note string, at time.Time) (ApprovalDecision, error) {
	decidedBy, err := validateDecidedBy(decidedBy)
	if err != nil {
		return ApprovalDecision{}, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ApprovalDecision{}, ErrReasonRequired
	}
	if utf8.RuneCountInString(reason) > maxReasonLength {
		return ApprovalDecision{}, ErrReasonTooLong
	}

	return ApprovalDecision{
		Decision:  DecisionReject,
		DecidedBy: decidedBy,
		DecidedAt: truncate(at),
		Reason:    reason,
		Note:      strings.TrimSpace(note),
	}, nil
}

// State returns the terminal state this decision moves a version into.
func (d ApprovalDecision) State() (VersionState, error) {
	switch d.Decision {
	case DecisionApprove:
		return Approved{decision: d}, nil
	case DecisionReject:
		return Rejected{decision: d}, nil
	default:
		return nil, ErrInvalidDecisionKind
	}
}

// Status is the version status this decision maps to.
func (d ApprovalDecision) Status() VersionStatus {
	if d.Decision == DecisionReject {
		return StatusRejected
	}
	return StatusApproved
}

func validateDecidedBy(decidedBy string) (string, error) {
	decidedBy = strings.TrimSpace(decidedBy)
	if decidedBy == "" {
		return "", ErrDecidedByRequired
	}
	if utf8.RuneCountInString(decidedBy) > maxDecidedByLength {
		return "", ErrDecidedByTooLong
	}
	return decidedBy, nil
}
