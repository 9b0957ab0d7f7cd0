package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"artifact-approval-service/internal/core/domain"
	"artifact-approval-service/internal/core/ports/output"
)

type projectRepo struct {
	pool *pgxpool.Pool
}

func NewProjectRepository(pool *pgxpool.Pool) ports.ProjectRepository {
	return &projectRepo{pool: pool}
}

func (r *projectRepo) GetOrCreate(ctx context.Context, name string) (*domain.Project, error) {
	// A concurrent insert of the same name makes ours a no-op; the SELECT
	// below then sees the committed row.
	_, err := r.pool.Exec(ctx, `
		INSERT INTO project (name, created_at) VALUES ($1, NOW())
		ON CONFLICT (name) DO NOTHING
	`, name)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}

	p := &domain.Project{}
	err = r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM project WHERE name = $1`, name).
		Scan(&p.ID, &p.Name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project by name: %w", err)
	}
	return p, nil
}

type artifactRepo struct {
	pool *pgxpool.Pool
}

func NewArtifactRepository(pool *pgxpool.Pool) ports.ArtifactRepository {
	return &artifactRepo{pool: pool}
}

func (r *artifactRepo) Create(ctx context.Context, artifact *domain.Artifact) error {
	query := `
		INSERT INTO artifact (project_id, name, artifact_type, version_count, created_at)
		VALUES ($1, $2, $3, 0, $4)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		artifact.ProjectID, artifact.Name, artifact.ArtifactType, artifact.CreatedAt,
	).Scan(&artifact.ID)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	artifact.VersionCount = 0
	return nil
}

func (r *artifactRepo) GetByID(ctx context.Context, id int64) (*domain.Artifact, error) {
	query := `
		SELECT id, project_id, name, artifact_type, version_count, created_at
		FROM artifact
		WHERE id = $1
	`
	a, err := scanArtifact(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArtifactNotFound
		}
		return nil, fmt.Errorf("get artifact by id: %w", err)
	}
	return a, nil
}

func (r *artifactRepo) List(ctx context.Context) ([]*domain.Artifact, error) {
	query := `
		SELECT id, project_id, name, artifact_type, version_count, created_at
		FROM artifact
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.pool.Query(ctx, query)
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

func scanArtifact(row pgx.Row) (*domain.Artifact, error) {
	a := &domain.Artifact{}
	err := row.Scan(&a.ID, &a.ProjectID, &a.Name, &a.ArtifactType, &a.VersionCount, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}
