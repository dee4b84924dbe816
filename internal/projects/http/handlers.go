package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
	"github.com/hlzx-oa/project-registry/internal/projects/service"
)

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: " + err.Error()})
		return
	}

	fields, err := req.fields()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		Type:      req.ProjectType,
		CreatedBy: c.GetString("username"),
		Fields:    fields,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req editReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body: " + err.Error()})
		return
	}

	fields, err := req.fields()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, fields); err != nil {
		writeError(c, err)
		return
	}

	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (h *Handler) invalidate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Invalidate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "project invalidated"})
}

// checkDelete previews the terminal-only rule so the UI can decide
// which action to offer before the user commits.
func (h *Handler) checkDelete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	canDelete, p, err := h.svc.CanHardDelete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "can_delete": canDelete, "project_no": p.ProjectNo})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	p, err := h.svc.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "project " + p.ProjectNo + " deleted"})
}

// nextNumber previews the number the next creation of this type would
// get. Nothing is reserved.
func (h *Handler) nextNumber(c *gin.Context) {
	projectType := c.Param("type")

	no, err := h.svc.NextNumber(c.Request.Context(), projectType)
	if err != nil {
		writeError(c, err)
		return
	}

	code, _ := h.svc.Scheme().Code(projectType)
	c.JSON(http.StatusOK, gin.H{"ok": true, "project_no": no, "type_code": code})
}

// listTypes serves the configured type table so forms never hardcode it.
func (h *Handler) listTypes(c *gin.Context) {
	scheme := h.svc.Scheme()
	types := make([]gin.H, 0, len(scheme.Codes))
	for _, name := range scheme.Names() {
		code, _ := scheme.Code(name)
		types = append(types, gin.H{"name": name, "code": code})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "year": scheme.Year, "types": types})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid project id"})
		return 0, false
	}
	return id, true
}

// writeError maps the domain error taxonomy to HTTP statuses. The
// reason string travels so the UI can offer the right alternative
// (invalidate instead of delete, pick a valid type, and so on).
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
	case errors.Is(err, domain.ErrInvalidType):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrProjectInvalid):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, domain.ErrHasLaterSiblings):
		c.JSON(http.StatusConflict, gin.H{
			"ok":    false,
			"error": err.Error(),
			"hint":  "later numbers of this type exist; invalidate the project instead of deleting it",
		})
	case errors.Is(err, domain.ErrSequenceExhausted),
		errors.Is(err, domain.ErrDuplicateNumber):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
