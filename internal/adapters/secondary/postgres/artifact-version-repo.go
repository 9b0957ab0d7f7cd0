package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"artifact-approval-service/internal/core/domain"
	"artifact-approval-service/internal/core/ports/output"
)

const uniqueViolation = "23505"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const selectVersion = `
	SELECT v.id, v.artifact_id, v.version_number, v.url, v.submitted_by,
		   v.status, v.created_at, v.updated_at,
		   d.id, d.decision, d.decided_by, d.decided_at, d.reason, d.note
	FROM artifact_version v
	LEFT JOIN approval_decision d ON d.artifact_version_id = v.id
`

type artifactVersionRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactVersionRepository(pool *pgxpool.Pool) ports.ArtifactVersionRepository {
	return &artifactVersionRepo{pool: pool}
}

func (r *artifactVersionRepo) Create(ctx context.Context, version *domain.ArtifactVersion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create version: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	// The UPDATE takes the artifact row lock, so concurrent submissions for
	// the same artifact queue here and each sees the previous increment.
	var number int
	err = tx.QueryRow(ctx, `
		UPDATE artifact SET version_count = version_count + 1
		WHERE id = $1
		RETURNING version_count
	`, version.ArtifactID).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrArtifactNotFound
		}
		return fmt.Errorf("assign version number: %w", err)
	}

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO artifact_version
			(artifact_id, version_number, url, submitted_by, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`,
		version.ArtifactID, number, version.URL, version.SubmittedBy,
		string(domain.StatusAwaitingApproval), version.CreatedAt, version.UpdatedAt,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("version number %d already taken for artifact %d: %w", number, version.ArtifactID, err)
		}
		return fmt.Errorf("insert artifact version: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create version: %w", err)
	}

	version.ID = id
	version.VersionNumber = number
	version.State = domain.Pending{}
	return nil
}

func (r *artifactVersionRepo) GetByID(ctx context.Context, id int64) (*domain.ArtifactVersion, error) {
	return getVersion(ctx, r.pool, id)
}

func (r *artifactVersionRepo) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.ArtifactVersion, error) {
	conditions := []string{}
	args := []any{}
	argPos := 1

	if filter.ArtifactID != 0 {
		conditions = append(conditions, fmt.Sprintf("v.artifact_id = $%d", argPos))
		args = append(args, filter.ArtifactID)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("v.status = $%d", argPos))
		args = append(args, string(filter.Status))
		argPos++
	}

	whereClause := "1=1"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("%s WHERE %s ORDER BY v.created_at DESC, v.id DESC", selectVersion, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
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

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin decide: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	// Compare-and-swap on status. A concurrent decider blocks on the row
	// lock and, once the winner commits, re-evaluates the predicate and
	// matches zero rows.
	tag, err := tx.Exec(ctx, `
		UPDATE artifact_version SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, string(decision.Status()), decision.DecidedAt, id, string(domain.StatusAwaitingApproval))
	if err != nil {
		return nil, fmt.Errorf("transition artifact version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM artifact_version WHERE id = $1)`, id).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check artifact version: %w", err)
		}
		if !exists {
			return nil, domain.ErrVersionNotFound
		}
		return nil, domain.ErrAlreadyDecided
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO approval_decision
			(artifact_version_id, decision, decided_by, decided_at, reason, note)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, string(decision.Decision), decision.DecidedBy, decision.DecidedAt, decision.Reason, decision.Note)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrAlreadyDecided
		}
		return nil, fmt.Errorf("insert approval decision: %w", err)
	}

	version, err := getVersion(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit decide: %w", err)
	}
	return version, nil
}

func getVersion(ctx context.Context, q querier, id int64) (*domain.ArtifactVersion, error) {
	v, err := scanVersion(q.QueryRow(ctx, selectVersion+" WHERE v.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrVersionNotFound
		}
		return nil, fmt.Errorf("get artifact version by id: %w", err)
	}
	return v, nil
}

// scanVersion scans a version row with its optional LEFT JOINed decision.
func scanVersion(row pgx.Row) (*domain.ArtifactVersion, error) {
	v := &domain.ArtifactVersion{}
	var (
		status     string
		decisionID *int64
		kind       *string
		decidedBy  *string
		decidedAt  *time.Time
		reason     *string
		note       *string
	)

	err := row.Scan(
		&v.ID, &v.ArtifactID, &v.VersionNumber, &v.URL, &v.SubmittedBy,
		&status, &v.CreatedAt, &v.UpdatedAt,
		&decisionID, &kind, &decidedBy, &decidedAt, &reason, &note,
	)
	if err != nil {
		return nil, err
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.UpdatedAt = v.UpdatedAt.UTC()

	var decision *domain.ApprovalDecision
	if decisionID != nil {
		decision = &domain.ApprovalDecision{
			ID:        *decisionID,
			Decision:  domain.DecisionKind(deref(kind)),
			DecidedBy: deref(decidedBy),
			Reason:    deref(reason),
			Note:      deref(note),
		}
		if decidedAt != nil {
			decision.DecidedAt = decidedAt.UTC()
		}
	}

	state, err := domain.StateFromRecord(domain.VersionStatus(status), decision)
	if err != nil {
		return nil, fmt.Errorf("artifact version %d: %w", v.ID, err)
	}
	v.State = state
	return v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
