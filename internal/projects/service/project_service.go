package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
	"github.com/hlzx-oa/project-registry/internal/projects/numbering"
)

// Store is what the service needs from the project repository.
type Store interface {
	Insert(ctx context.Context, p *domain.Project) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	List(ctx context.Context) ([]domain.Project, error)
	Update(ctx context.Context, id int64, f domain.EditableFields) error
	SetInvalid(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	CountLaterSameType(ctx context.Context, projectType, projectNo string) (int, error)
}

// ProjectService ties number allocation, persistence and the deletion
// rule together.
type ProjectService struct {
	store Store
	alloc *numbering.Allocator
	log   *zap.Logger
}

func NewProjectService(store Store, alloc *numbering.Allocator, log *zap.Logger) *ProjectService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProjectService{store: store, alloc: alloc, log: log}
}

// CreateInput carries everything a creation form submits. The number
// is never part of the input; it is always allocated here.
type CreateInput struct {
	Type      string
	CreatedBy string
	Fields    domain.EditableFields
}

// Create allocates a number and persists the project. When the insert
// loses the allocation race (duplicate number from a concurrent
// creation), it reallocates and retries exactly once; a second
// collision is surfaced as a creation failure.
func (s *ProjectService) Create(ctx context.Context, in CreateInput) (*domain.Project, error) {
	code, ok := s.alloc.Scheme().Code(in.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidType, in.Type)
	}

	for attempt := 0; ; attempt++ {
		no, err := s.alloc.Next(ctx, in.Type)
		if err != nil {
			return nil, err
		}

		p := &domain.Project{
			ProjectNo:        no,
			Name:             in.Fields.Name,
			Type:             in.Type,
			TypeCode:         code,
			Status:           domain.StatusActive,
			Manager:          in.Fields.Manager,
			ExecutionPartner: in.Fields.ExecutionPartner,
			Department:       in.Fields.Department,
			EstimatedFee:     in.Fields.EstimatedFee,
			ProjectDate:      in.Fields.ProjectDate,
			BaseDate:         in.Fields.BaseDate,
			Client:           in.Fields.Client,
			EvaluationObject: in.Fields.EvaluationObject,
			EvaluationScope:  in.Fields.EvaluationScope,
			Purpose:          in.Fields.Purpose,
			RelatedContract:  in.Fields.RelatedContract,
			Remark:           in.Fields.Remark,
			CreatedBy:        in.CreatedBy,
		}

		if _, err := s.store.Insert(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicateNumber) && attempt == 0 {
				s.log.Warn("allocation race lost, reallocating once",
					zap.String("project_no", no), zap.String("type", in.Type))
				continue
			}
			return nil, err
		}

		return p, nil
	}
}

// NextNumber previews the next number for a type without reserving it.
func (s *ProjectService) NextNumber(ctx context.Context, projectType string) (string, error) {
	return s.alloc.Next(ctx, projectType)
}

// Scheme exposes the numbering configuration (type table, year) to the
// HTTP layer.
func (s *ProjectService) Scheme() numbering.Scheme {
	return s.alloc.Scheme()
}

// Get loads one project.
func (s *ProjectService) Get(ctx context.Context, id int64) (*domain.Project, error) {
	return s.store.GetByID(ctx, id)
}

// List returns the register, newest first.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	return s.store.List(ctx)
}

// Update edits an active project's descriptive fields.
func (s *ProjectService) Update(ctx context.Context, id int64, f domain.EditableFields) error {
	return s.store.Update(ctx, id, f)
}

// Invalidate soft-retires a project. Any position in the sequence is
// allowed and repeating the call is a no-op success.
func (s *ProjectService) Invalidate(ctx context.Context, id int64) error {
	err := s.store.SetInvalid(ctx, id)
	if err == nil {
		s.log.Info("project invalidated", zap.Int64("id", id))
	}
	return err
}
