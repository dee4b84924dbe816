package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
)

// ProjectRepository is the persistent project store. The UNIQUE
// constraint on projects.project_no is the real uniqueness guarantee;
// every caller-side check is only an optimization on top of it.
type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
id, project_no, project_name, project_type, type_code, status,
manager, business_execution_partner, department, estimated_fee,
project_date, base_date, client, evaluation_object, evaluation_scope,
purpose, related_contract_no, remark, created_by, created_date, updated_date`

// Insert persists a new project and returns its id. A unique-violation
// on project_no comes back as domain.ErrDuplicateNumber so the create
// flow can reallocate and retry.
func (r *ProjectRepository) Insert(ctx context.Context, p *domain.Project) (int64, error) {
	const q = `
INSERT INTO projects
  (project_no, project_name, project_type, type_code, status,
   manager, business_execution_partner, department, estimated_fee,
   project_date, base_date, client, evaluation_object, evaluation_scope,
   purpose, related_contract_no, remark, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
RETURNING id, created_date, updated_date;
`
	err := r.db.QueryRowContext(ctx, q,
		p.ProjectNo, p.Name, p.Type, p.TypeCode, p.Status,
		p.Manager, p.ExecutionPartner, p.Department, p.EstimatedFee,
		p.ProjectDate, p.BaseDate, p.Client, p.EvaluationObject, p.EvaluationScope,
		p.Purpose, p.RelatedContract, p.Remark, p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		var pgErr *pq.Error
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateNumber, p.ProjectNo)
		}
		return 0, err
	}
	return p.ID, nil
}

// GetByID loads one project.
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1;`

	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns the full register, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]domain.Project, error) {
	q := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_date DESC;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 32)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// Update rewrites the editable fields of an active project. The status
// re-read and the write run in one transaction so an invalidation
// racing in between cannot be overwritten.
func (r *ProjectRepository) Update(ctx context.Context, id int64, f domain.EditableFields) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT status FROM projects WHERE id = $1 FOR UPDATE;`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if status == domain.StatusInvalid {
		return domain.ErrProjectInvalid
	}

	const q = `
UPDATE projects
SET project_name = $2,
    manager = $3,
    business_execution_partner = $4,
    department = $5,
    estimated_fee = $6,
    project_date = $7,
    base_date = $8,
    client = $9,
    evaluation_object = $10,
    evaluation_scope = $11,
    purpose = $12,
    related_contract_no = $13,
    remark = $14,
    updated_date = now()
WHERE id = $1;
`
	if _, err := tx.ExecContext(ctx, q, id,
		f.Name, f.Manager, f.ExecutionPartner, f.Department, f.EstimatedFee,
		f.ProjectDate, f.BaseDate, f.Client, f.EvaluationObject, f.EvaluationScope,
		f.Purpose, f.RelatedContract, f.Remark,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// SetInvalid flips status to invalid. One-way and idempotent:
// invalidating an already-invalid project is a no-op success.
func (r *ProjectRepository) SetInvalid(ctx context.Context, id int64) error {
	const q = `
UPDATE projects
SET status = $2, updated_date = now()
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id, domain.StatusInvalid)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the row unconditionally. Whether deletion is allowed
// is the lifecycle guard's decision, not the store's.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// MaxNumberWithPrefix returns the greatest project_no with the given
// prefix, or "" when the prefix is unused. String MAX equals sequence
// MAX because the suffix is fixed-width zero-padded.
func (r *ProjectRepository) MaxNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	const q = `SELECT MAX(project_no) FROM projects WHERE project_no LIKE $1 || '%';`

	var max sql.NullString
	if err := r.db.QueryRowContext(ctx, q, prefix).Scan(&max); err != nil {
		return "", err
	}
	return max.String, nil
}

// NumberExists reports whether a project_no is already taken.
func (r *ProjectRepository) NumberExists(ctx context.Context, projectNo string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM projects WHERE project_no = $1);`

	var exists bool
	if err := r.db.QueryRowContext(ctx, q, projectNo).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CountLaterSameType counts records of the same type whose number
// sorts strictly after the given one. Invalid records count too; only
// deletion frees a slot.
func (r *ProjectRepository) CountLaterSameType(ctx context.Context, projectType, projectNo string) (int, error) {
	const q = `SELECT COUNT(*) FROM projects WHERE project_type = $1 AND project_no > $2;`

	var n int
	if err := r.db.QueryRowContext(ctx, q, projectType, projectNo).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p                domain.Project
		executionPartner sql.NullString
		department       sql.NullString
		projectDate      sql.NullTime
		baseDate         sql.NullTime
		relatedContract  sql.NullString
		remark           sql.NullString
		createdBy        sql.NullString
	)

	err := row.Scan(
		&p.ID, &p.ProjectNo, &p.Name, &p.Type, &p.TypeCode, &p.Status,
		&p.Manager, &executionPartner, &department, &p.EstimatedFee,
		&projectDate, &baseDate, &p.Client, &p.EvaluationObject, &p.EvaluationScope,
		&p.Purpose, &relatedContract, &remark, &createdBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ExecutionPartner = executionPartner.String
	p.Department = department.String
	p.RelatedContract = relatedContract.String
	p.Remark = remark.String
	p.CreatedBy = createdBy.String
	if projectDate.Valid {
		p.ProjectDate = &projectDate.Time
	}
	if baseDate.Valid {
		p.BaseDate = &baseDate.Time
	}
	return &p, nil
}
