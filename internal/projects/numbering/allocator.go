package numbering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/hlzx-oa/project-registry/internal/projects/domain"
)

// MaxSeq is the last sequence number a prefix can hold.
const MaxSeq = 9999

// NumberSource is the slice of the project store the allocator reads.
// Within one prefix the store guarantees that string order of numbers
// equals sequence order, because the suffix is fixed-width.
type NumberSource interface {
	// MaxNumberWithPrefix returns the greatest project number starting
	// with prefix, or "" when none exists.
	MaxNumberWithPrefix(ctx context.Context, prefix string) (string, error)
	// NumberExists reports whether the exact number is already taken.
	NumberExists(ctx context.Context, projectNo string) (bool, error)
}

// Allocator computes the next project number for a type. It only reads;
// persisting the record (and the uniqueness constraint that makes the
// result truly unique under concurrency) is the store's job.
type Allocator struct {
	scheme Scheme
	store  NumberSource
	log    *zap.Logger
}

func NewAllocator(scheme Scheme, store NumberSource, log *zap.Logger) *Allocator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Allocator{scheme: scheme, store: store, log: log}
}

func (a *Allocator) Scheme() Scheme { return a.scheme }

// Next returns the next free number for the given type.
//
// The read-compute-recheck sequence here narrows, but cannot close, the
// race window against concurrent allocations; callers must treat a
// duplicate error from the store's insert as retryable once.
func (a *Allocator) Next(ctx context.Context, projectType string) (string, error) {
	prefix, err := a.scheme.Prefix(projectType)
	if err != nil {
		return "", err
	}

	max, err := a.store.MaxNumberWithPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("scanning max number for %s: %w", prefix, err)
	}

	seq := 1
	if max != "" {
		last, perr := parseSeq(max)
		if perr != nil {
			if !a.scheme.AllowCorruptReset {
				a.log.Error("malformed max project number",
					zap.String("prefix", prefix), zap.String("project_no", max))
				return "", fmt.Errorf("%w: %q", domain.ErrCorruptSequence, max)
			}
			a.log.Warn("malformed max project number, restarting sequence at 1",
				zap.String("prefix", prefix), zap.String("project_no", max))
			last = 0
		}
		seq = last + 1
	}

	if seq > MaxSeq {
		return "", fmt.Errorf("%w: prefix %s", domain.ErrSequenceExhausted, prefix)
	}

	no := Format(prefix, seq)

	// A concurrent insert may have taken the number between the max
	// scan and here; probe once and step past it.
	taken, err := a.store.NumberExists(ctx, no)
	if err != nil {
		return "", fmt.Errorf("checking number %s: %w", no, err)
	}
	if taken {
		seq++
		if seq > MaxSeq {
			return "", fmt.Errorf("%w: prefix %s", domain.ErrSequenceExhausted, prefix)
		}
		no = Format(prefix, seq)

		taken, err = a.store.NumberExists(ctx, no)
		if err != nil {
			return "", fmt.Errorf("checking number %s: %w", no, err)
		}
		if taken {
			return "", fmt.Errorf("%w: prefix %s", domain.ErrSequenceExhausted, prefix)
		}
	}

	return no, nil
}

// Format renders a prefix and sequence as a project number.
func Format(prefix string, seq int) string {
	return fmt.Sprintf("%s%04d", prefix, seq)
}

// parseSeq extracts the trailing 4-digit sequence of a project number.
func parseSeq(projectNo string) (int, error) {
	if len(projectNo) < 4 {
		return 0, fmt.Errorf("number %q too short", projectNo)
	}
	seq, err := strconv.Atoi(projectNo[len(projectNo)-4:])
	if err != nil || seq < 0 {
		return 0, fmt.Errorf("number %q has no numeric suffix", projectNo)
	}
	return seq, nil
}
