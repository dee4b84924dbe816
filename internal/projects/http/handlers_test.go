package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
	"github.com/hlzx-oa/project-registry/internal/projects/numbering"
	"github.com/hlzx-oa/project-registry/internal/projects/service"
)

// stubStore is an in-memory Store and NumberSource for handler tests.
type stubStore struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]*domain.Project
}

func newStubStore() *stubStore {
	return &stubStore{rows: map[int64]*domain.Project{}}
}

func (s *stubStore) Insert(_ context.Context, p *domain.Project) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ProjectNo == p.ProjectNo {
			return 0, domain.ErrDuplicateNumber
		}
	}
	s.nextID++
	p.ID = s.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	s.rows[p.ID] = &cp
	return p.ID, nil
}

func (s *stubStore) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *stubStore) List(_ context.Context) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Project, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *stubStore) Update(_ context.Context, id int64, f domain.EditableFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	if row.Status == domain.StatusInvalid {
		return domain.ErrProjectInvalid
	}
	row.Name = f.Name
	row.UpdatedAt = time.Now()
	return nil
}

func (s *stubStore) SetInvalid(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = domain.StatusInvalid
	return nil
}

func (s *stubStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

func (s *stubStore) CountLaterSameType(_ context.Context, projectType, projectNo string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, row := range s.rows {
		if row.Type == projectType && row.ProjectNo > projectNo {
			n++
		}
	}
	return n, nil
}

func (s *stubStore) MaxNumberWithPrefix(_ context.Context, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := ""
	for _, row := range s.rows {
		if strings.HasPrefix(row.ProjectNo, prefix) && row.ProjectNo > max {
			max = row.ProjectNo
		}
	}
	return max, nil
}

func (s *stubStore) NumberExists(_ context.Context, no string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range s.rows {
		if row.ProjectNo == no {
			return true, nil
		}
	}
	return false, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *stubStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newStubStore()
	scheme := numbering.NewScheme("2026", map[string]string{"资产评估": "AAP"})
	alloc := numbering.NewAllocator(scheme, store, nil)
	svc := service.NewProjectService(store, alloc, nil)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("username", "admin") })
	New(svc).Register(r.Group("/projects"))
	return r, store
}

func createBody(name string) []byte {
	b, _ := json.Marshal(map[string]any{
		"project_type":               "资产评估",
		"project_name":               name,
		"manager":                    "张三",
		"business_execution_partner": "李四",
		"client":                     "某有限公司",
		"evaluation_object":          "标的资产",
		"evaluation_scope":           "全部资产",
		"purpose":                    "股权转让",
		"project_date":               "2026-03-01",
	})
	return b
}

func doJSON(r *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProject(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/projects", createBody("测试项目"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		OK      bool           `json:"ok"`
		Project domain.Project `json:"project"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "2026AAP0001", resp.Project.ProjectNo)
	assert.Equal(t, "admin", resp.Project.CreatedBy)
}

func TestCreateProjectValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	t.Run("missing required field", func(t *testing.T) {
		w := doJSON(r, http.MethodPost, "/projects", []byte(`{"project_type":"资产评估"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown type", func(t *testing.T) {
		body := bytes.Replace(createBody("x"), []byte("资产评估"), []byte("不存在类型"), 1)
		w := doJSON(r, http.MethodPost, "/projects", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		body := bytes.Replace(createBody("x"), []byte("2026-03-01"), []byte("03/01/2026"), 1)
		w := doJSON(r, http.MethodPost, "/projects", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "project_date")
	})
}

func TestDeleteGuard(t *testing.T) {
	r, _ := newTestRouter(t)

	for i := 1; i <= 2; i++ {
		w := doJSON(r, http.MethodPost, "/projects", createBody(fmt.Sprintf("项目%d", i)))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	t.Run("earlier project is refused with a hint", func(t *testing.T) {
		w := doJSON(r, http.MethodDelete, "/projects/1", nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "invalidate")
	})

	t.Run("check-delete reports the same verdict", func(t *testing.T) {
		w := doJSON(r, http.MethodGet, "/projects/1/check-delete", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"can_delete":false`)

		w = doJSON(r, http.MethodGet, "/projects/2/check-delete", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"can_delete":true`)
	})

	t.Run("latest project deletes", func(t *testing.T) {
		w := doJSON(r, http.MethodDelete, "/projects/2", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w = doJSON(r, http.MethodDelete, "/projects/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestInvalidateAndEditLock(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/projects", createBody("作废目标"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/projects/1/invalidate", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// repeat is a no-op, not an error
	w = doJSON(r, http.MethodPost, "/projects/1/invalidate", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	edit, _ := json.Marshal(map[string]any{
		"project_name":               "改名",
		"manager":                    "张三",
		"business_execution_partner": "李四",
		"client":                     "某有限公司",
	})
	w = doJSON(r, http.MethodPut, "/projects/1", edit)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestNextNumberAndTypes(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/projects/next-no/资产评估", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "2026AAP0001")

	w = doJSON(r, http.MethodGet, "/projects/next-no/未知", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/projects/types", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AAP")
	assert.Contains(t, w.Body.String(), `"year":"2026"`)
}

func TestGetNotFound(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/projects/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
