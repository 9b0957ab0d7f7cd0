// Package sqlite provides a SQLite-backed approval store for single-node runs.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"artifact-approval-service/internal/adapters/secondary/sqlite/migrations"
	"artifact-approval-service/internal/core/domain"
	"artifact-approval-service/internal/core/ports/output"
)

// Store owns the SQLite handle shared by the project, artifact and version
// repositories.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) +
		"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// SQLite has a single writer. One pooled connection makes every
	// transaction queue in Go instead of failing with SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.sqlDB.PingContext(ctx)
}

func (s *Store) Projects() ports.ProjectRepository {
	return &projectRepo{db: s.sqlDB}
}

func (s *Store) Artifacts() ports.ArtifactRepository {
	return &artifactRepo{db: s.sqlDB}
}

func (s *Store) Versions() ports.ArtifactVersionRepository {
	return &artifactVersionRepo{db: s.sqlDB}
}

// ============================================================================
// Projects
// ============================================================================

type projectRepo struct {
	db *sql.DB
}

func (r *projectRepo) GetOrCreate(ctx context.Context, name string) (*domain.Project, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO project (name, created_at) VALUES (?, ?) ON CONFLICT (name) DO NOTHING`,
		name, toMillis(domain.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	p := &domain.Project{}
	var createdAt int64
	err = r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM project WHERE name = ?`, name).
		Scan(&p.ID, &p.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project by name: %w", err)
	}
	p.CreatedAt = fromMillis(createdAt)
	return p, nil
}

// ============================================================================
// Artifacts
// ============================================================================

type artifactRepo struct {
	db *sql.DB
}

func (r *artifactRepo) Create(ctx context.Context, artifact *domain.Artifact) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO artifact (project_id, name, artifact_type, version_count, created_at)
		VALUES (?, ?, ?, 0, ?)
		RETURNING id
	`, artifact.ProjectID, artifact.Name, artifact.ArtifactType, toMillis(artifact.CreatedAt)).Scan(&artifact.ID)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	artifact.VersionCount = 0
	return nil
}

func (r *artifactRepo) GetByID(ctx context.Context, id int64) (*domain.Artifact, error) {
	a, err := scanArtifact(r.db.QueryRowContext(ctx, `
		SELECT id, project_id, name, artifact_type, version_count, created_at
		FROM artifact WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact by id: %w", err)
	}
	return a, nil
}

func (r *artifactRepo) List(ctx context.Context) ([]*domain.Artifact, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, project_id, name, artifact_type, version_count, created_at
		FROM artifact
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []*domain.Artifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact row: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact rows: %w", err)
	}
	return artifacts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(row rowScanner) (*domain.Artifact, error) {
	a := &domain.Artifact{}
	var createdAt int64
	if err := row.Scan(&a.ID, &a.ProjectID, &a.Name, &a.ArtifactType, &a.VersionCount, &createdAt); err != nil {
		return nil, err
	}
	a.CreatedAt = fromMillis(createdAt)
	return a, nil
}

// ============================================================================
// Artifact versions
// ============================================================================

const selectVersion = `
	SELECT v.id, v.artifact_id, v.version_number, v.url, v.submitted_by,
		   v.status, v.created_at, v.updated_at,
		   d.id, d.decision, d.decided_by, d.decided_at, d.reason, d.note
	FROM artifact_version v
	LEFT JOIN approval_decision d ON d.artifact_version_id = v.id
`

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type artifactVersionRepo struct {
	db *sql.DB
}

func (r *artifactVersionRepo) Create(ctx context.Context, version *domain.ArtifactVersion) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create version: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Writing first takes the database write lock, so the counter read here
	// cannot go stale before the insert below.
	var number int
	err = tx.QueryRowContext(ctx, `
		UPDATE artifact SET version_count = version_count + 1
		WHERE id = ?
		RETURNING version_count
	`, version.ArtifactID).Scan(&number)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrArtifactNotFound
		}
		return fmt.Errorf("assign version number: %w", err)
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO artifact_version
			(artifact_id, version_number, url, submitted_by, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`,
		version.ArtifactID, number, version.URL, version.SubmittedBy,
		string(domain.StatusAwaitingApproval), toMillis(version.CreatedAt), toMillis(version.UpdatedAt),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("version number %d already taken for artifact %d: %w", number, version.ArtifactID, err)
		}
		return fmt.Errorf("insert artifact version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create version: %w", err)
	}

	version.ID = id
	version.VersionNumber = number
	version.State = domain.Pending{}
	return nil
}

func (r *artifactVersionRepo) GetByID(ctx context.Context, id int64) (*domain.ArtifactVersion, error) {
	return getVersion(ctx, r.db, id)
}

func (r *artifactVersionRepo) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.ArtifactVersion, error) {
	conditions := []string{}
	args := []any{}

	if filter.ArtifactID != 0 {
		conditions = append(conditions, "v.artifact_id = ?")
		args = append(args, filter.ArtifactID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "v.status = ?")
		args = append(args, string(filter.Status))
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	rows, err := r.db.QueryContext(ctx,
		fmt.Sprintf("%s WHERE %s ORDER BY v.created_at DESC, v.id DESC", selectVersion, whereClause),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list artifact versions: %w", err)
	}
	defer rows.Close()

	versions := []*domain.ArtifactVersion{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact version row: %w", err)
		}
		versions = append(versions, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifact version rows: %w", err)
	}
	return versions, nil
}

func (r *artifactVersionRepo) DecideOnce(ctx context.Context, id int64, decision domain.ApprovalDecision) (*domain.ArtifactVersion, error) {
	if _, err := decision.State(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin decide: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
		UPDATE artifact_version SET status = ?, updated_at = ?
		WHERE id = ? AND status = ?
	`, string(decision.Status()), toMillis(decision.DecidedAt), id, string(domain.StatusAwaitingApproval))
	if err != nil {
		return nil, fmt.Errorf("transition artifact version: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("transition artifact version: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM artifact_version WHERE id = ?`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check artifact version: %w", err)
		}
		if exists == 0 {
			return nil, domain.ErrVersionNotFound
		}
		return nil, domain.ErrAlreadyDecided
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO approval_decision
			(artifact_version_id, decision, decided_by, decided_at, reason, note)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, string(decision.Decision), decision.DecidedBy, toMillis(decision.DecidedAt), decision.Reason, decision.Note)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyDecided
		}
		return nil, fmt.Errorf("insert approval decision: %w", err)
	}

	version, err := getVersion(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit decide: %w", err)
	}
	return version, nil
}

func getVersion(ctx context.Context, q queryRower, id int64) (*domain.ArtifactVersion, error) {
	v, err := scanVersion(q.QueryRowContext(ctx, selectVersion+" WHERE v.id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get artifact version by id: %w", err)
	}
	return v, nil
}

func scanVersion(row rowScanner) (*domain.ArtifactVersion, error) {
	v := &domain.ArtifactVersion{}
	var (
		status     string
		createdAt  int64
		updatedAt  int64
		decisionID sql.NullInt64
		kind       sql.NullString
		decidedBy  sql.NullString
		decidedAt  sql.NullInt64
		reason     sql.NullString
		note       sql.NullString
	)

	err := row.Scan(
		&v.ID, &v.ArtifactID, &v.VersionNumber, &v.URL, &v.SubmittedBy,
		&status, &createdAt, &updatedAt,
		&decisionID, &kind, &decidedBy, &decidedAt, &reason, &note,
	)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = fromMillis(createdAt)
	v.UpdatedAt = fromMillis(updatedAt)

	var decision *domain.ApprovalDecision
	if decisionID.Valid {
		decision = &domain.ApprovalDecision{
			ID:        decisionID.Int64,
			Decision:  domain.DecisionKind(kind.String),
			DecidedBy: decidedBy.String,
			DecidedAt: fromMillis(decidedAt.Int64),
			Reason:    reason.String,
			Note:      note.String,
		}
	}

	state, err := domain.StateFromRecord(domain.VersionStatus(status), decision)
	if err != nil {
		return nil, fmt.Errorf("artifact version %d: %w", v.ID, err)
	}
	v.State = state
	return v, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
