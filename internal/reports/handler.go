package reports

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
)

// Lister supplies the rows to export, newest first.
type Lister interface {
	List(ctx context.Context) ([]domain.Project, error)
}

type Handler struct {
	src Lister
}

func NewHandler(src Lister) *Handler {
	return &Handler{src: src}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/export/projects", h.export)
}

func (h *Handler) export(c *gin.Context) {
	projects, err := h.src.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to load projects"})
		return
	}

	f, err := BuildWorkbook(projects)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "failed to build workbook"})
		return
	}
	defer f.Close()

	name := Filename(time.Now())
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(name))
	if _, err := f.WriteTo(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
