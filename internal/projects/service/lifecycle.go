package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
)

// CanHardDelete reports whether the project is the terminal (highest)
// number of its type. Only terminal records may be physically deleted:
// removing a middle number would leave a hole the max-scan allocator
// never refills, and lets out-of-order deletions reassign numbers.
// Invalid records still occupy their slot and count as later siblings.
func (s *ProjectService) CanHardDelete(ctx context.Context, id int64) (bool, *domain.Project, error) {
	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return false, nil, err
	}

	later, err := s.store.CountLaterSameType(ctx, p.Type, p.ProjectNo)
	if err != nil {
		return false, nil, err
	}
	return later == 0, p, nil
}

// Delete hard-deletes the project if the terminal-only rule allows it.
// A rejection comes back as ErrHasLaterSiblings so the caller can
// offer invalidation instead.
func (s *ProjectService) Delete(ctx context.Context, id int64) (*domain.Project, error) {
	ok, p, err := s.CanHardDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrHasLaterSiblings, p.ProjectNo)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.log.Info("project deleted", zap.Int64("id", id), zap.String("project_no", p.ProjectNo))
	return p, nil
}
