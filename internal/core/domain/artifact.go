package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// DefaultProjectName is the project every artifact created through the API lands in.
const DefaultProjectName = "Default Project"

const (
	maxNameLength         = 255
	maxArtifactTypeLength = 100
)

type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Artifact is a named deliverable that accumulates versions.
type Artifact struct {
	ID           int64     `json:"id"`
	ProjectID    int64     `json:"project"`
	Name         string    `json:"name"`
	ArtifactType string    `json:"artifact_type"`
	CreatedAt    time.Time `json:"created_at"`

	// VersionCount is the number of version numbers handed out so far. The
	// next version created for this artifact receives VersionCount+1.
	VersionCount int `json:"version_count"`
}

// NewArtifact validates the caller-supplied fields and returns an artifact
// ready to be persisted. The ID is assigned by the repository.
func NewArtifact(projectID int64, name, artifactType string) (*Artifact, error) {
	name = strings.TrimSpace(name)
	artifactType = strings.TrimSpace(artifactType)

	if name == "" {
		return nil, ErrNameRequired
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, ErrNameTooLong
	}
	if utf8.RuneCountInString(artifactType) > maxArtifactTypeLength {
		return nil, ErrArtifactTypeTooLong
	}

	return &Artifact{
		ProjectID:    projectID,
		Name:         name,
		ArtifactType: artifactType,
		CreatedAt:    Now(),
	}, nil
}

// Now returns the current UTC time at the millisecond precision both stores
// keep, so a record read back equals the one written.
func Now() time.Time {
	return truncate(time.Now())
}

func truncate(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
