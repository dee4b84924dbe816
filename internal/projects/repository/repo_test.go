package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
)

func setupRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return NewProjectRepository(db), mock, db
}

func TestProjectRepositoryInsert(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and timestamps", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		p := &domain.Project{
			ProjectNo: "2026AAP0001",
			Name:      "某公司股权价值评估",
			Type:      "资产评估",
			TypeCode:  "AAP",
			Status:    domain.StatusActive,
			Manager:   "王琳",
			Client:    "某集团有限公司",
		}

		mock.ExpectQuery(`INSERT INTO projects`).
			WithArgs(
				"2026AAP0001", p.Name, p.Type, p.TypeCode, p.Status,
				p.Manager, "", "", 0.0,
				nil, nil, p.Client, "", "",
				"", "", "", "",
			).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_date", "updated_date"}).
				AddRow(int64(7), time.Now(), time.Now()))

		id, err := repo.Insert(ctx, p)
		require.NoError(t, err)
		assert.Equal(t, int64(7), id)
		assert.Equal(t, int64(7), p.ID)
		assert.False(t, p.CreatedAt.IsZero())

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateNumber", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`INSERT INTO projects`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "projects_project_no_key"})

		_, err := repo.Insert(ctx, &domain.Project{ProjectNo: "2026AAP0001", Status: domain.StatusActive})
		assert.ErrorIs(t, err, domain.ErrDuplicateNumber)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProjectRepositoryNumberQueries(t *testing.T) {
	ctx := context.Background()

	t.Run("max number for unused prefix is empty", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT MAX\(project_no\) FROM projects`).
			WithArgs("2026LAP").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(nil))

		max, err := repo.MaxNumberWithPrefix(ctx, "2026LAP")
		require.NoError(t, err)
		assert.Equal(t, "", max)
	})

	t.Run("max number returns the stored value", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT MAX\(project_no\) FROM projects`).
			WithArgs("2026AAP").
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow("2026AAP0031"))

		max, err := repo.MaxNumberWithPrefix(ctx, "2026AAP")
		require.NoError(t, err)
		assert.Equal(t, "2026AAP0031", max)
	})

	t.Run("number existence probe", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("2026AAP0031").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.NumberExists(ctx, "2026AAP0031")
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("later sibling count", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM projects WHERE project_type`).
			WithArgs("资产评估", "2026AAP0002").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		n, err := repo.CountLaterSameType(ctx, "资产评估", "2026AAP0002")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})
}

func TestProjectRepositoryUpdate(t *testing.T) {
	ctx := context.Background()

	fields := domain.EditableFields{
		Name:    "改名后的项目",
		Manager: "李强",
		Client:  "新委托方",
	}

	t.Run("writes fields inside a transaction", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM projects`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(domain.StatusActive))
		mock.ExpectExec(`UPDATE projects`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, repo.Update(ctx, 5, fields))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalidated project rejects edits", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM projects`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(domain.StatusInvalid))
		mock.ExpectRollback()

		err := repo.Update(ctx, 5, fields)
		assert.ErrorIs(t, err, domain.ErrProjectInvalid)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing project", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT status FROM projects`).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Update(ctx, 99, fields)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestProjectRepositoryLifecycleOps(t *testing.T) {
	ctx := context.Background()

	t.Run("set invalid touches the row", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectExec(`UPDATE projects`).
			WithArgs(int64(3), domain.StatusInvalid).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetInvalid(ctx, 3))
	})

	t.Run("set invalid on unknown id", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectExec(`UPDATE projects`).
			WithArgs(int64(404), domain.StatusInvalid).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.SetInvalid(ctx, 404), domain.ErrNotFound)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM projects`).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(ctx, 3))
	})

	t.Run("delete on unknown id", func(t *testing.T) {
		repo, mock, db := setupRepo(t)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM projects`).
			WithArgs(int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 404), domain.ErrNotFound)
	})
}
