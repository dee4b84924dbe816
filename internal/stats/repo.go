package stats

import (
	"context"
	"database/sql"
	"time"
)

// Summary is the dashboard block: register size, fee volume (in units
// of 10k, invalidated projects excluded), and activity counts.
type Summary struct {
	Total        int            `json:"total"`
	TotalFee     float64        `json:"total_fee"`
	ByType       map[string]int `json:"by_type"`
	ByDepartment map[string]int `json:"by_department"`
	Today        int            `json:"today"`
	Month        int            `json:"month"`
	GeneratedAt  time.Time      `json:"generated_at"`
}

// Repository computes the summary straight from the projects table.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Collect(ctx context.Context) (*Summary, error) {
	s := &Summary{
		ByType:       make(map[string]int),
		ByDepartment: make(map[string]int),
		GeneratedAt:  time.Now().UTC(),
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects;`).Scan(&s.Total); err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(estimated_fee), 0) / 10000.0 FROM projects WHERE status <> 'invalid';`,
	).Scan(&s.TotalFee); err != nil {
		return nil, err
	}

	if err := r.groupCount(ctx,
		`SELECT project_type, COUNT(*) FROM projects GROUP BY project_type;`, s.ByType); err != nil {
		return nil, err
	}

	if err := r.groupCount(ctx,
		`SELECT COALESCE(department, ''), COUNT(*) FROM projects GROUP BY department;`, s.ByDepartment); err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE created_date::date = CURRENT_DATE;`).Scan(&s.Today); err != nil {
		return nil, err
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE date_trunc('month', created_date) = date_trunc('month', now());`,
	).Scan(&s.Month); err != nil {
		return nil, err
	}

	return s, nil
}

func (r *Repository) groupCount(ctx context.Context, q string, into map[string]int) error {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		into[key] = n
	}
	return rows.Err()
}
