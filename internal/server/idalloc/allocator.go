// Package idalloc hands out public object identifiers.
//
// The backing store is the only source of truth for which ids are in use;
// the allocator keeps no membership state of its own.
package idalloc

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/blobhost/internal/common"
	"github.com/dmitrijs2005/blobhost/internal/logging"
	"github.com/dmitrijs2005/blobhost/internal/randx"
)

// IDLength is the length of automatically generated ids.
const IDLength = 6

// DefaultMaxAttempts bounds the auto-mode retry loop when no limit is given.
const DefaultMaxAttempts = 32

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9]{2,}$`)

// reserved ids shadow the static asset routes (favicon.ico, github.png).
var reserved = map[string]struct{}{
	"favicon": {},
	"github":  {},
}

// Checker reports whether a header with the given id exists.
type Checker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Allocator generates or validates ids against a Checker.
type Allocator struct {
	checker     Checker
	gen         randx.Generator
	maxAttempts int
	logger      logging.Logger
	onCollision func()
}

// New constructs an Allocator. maxAttempts <= 0 selects DefaultMaxAttempts.
func New(checker Checker, gen randx.Generator, maxAttempts int, logger logging.Logger) *Allocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{
		checker:     checker,
		gen:         gen,
		maxAttempts: maxAttempts,
		logger:      logger.With("module", "idalloc"),
	}
}

// OnCollision registers fn to run whenever a generated candidate is
// already in use.
func (a *Allocator) OnCollision(fn func()) {
	a.onCollision = fn
}

// MaxAttempts returns the auto-mode attempt limit.
func (a *Allocator) MaxAttempts() int { return a.maxAttempts }

// Allocate returns customID after validating it, or a fresh random id when
// customID is empty.
func (a *Allocator) Allocate(ctx context.Context, customID string) (string, error) {
	if customID == "" {
		return a.Auto(ctx)
	}
	return a.Custom(ctx, customID)
}

// Auto draws IDLength-character candidates until one is not in use.
// It gives up with common.ErrorIDSpaceExhausted after MaxAttempts draws.
//
// A free candidate can still be taken by a concurrent writer before the
// header is inserted; the store's primary key rejects the second insert.
func (a *Allocator) Auto(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		id, err := a.gen.String(IDLength)
		if err != nil {
			return "", fmt.Errorf("generate id: %w", err)
		}

		exists, err := a.checker.Exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("%w: check id: %w", common.ErrorBackingStore, err)
		}
		if !exists {
			return id, nil
		}

		if a.onCollision != nil {
			a.onCollision()
		}
		a.logger.Warn(ctx, "generated id already in use", "id", id, "attempt", attempt)
	}

	a.logger.Error(ctx, "id allocation gave up", "attempts", a.maxAttempts)
	return "", common.ErrorIDSpaceExhausted
}

// Custom accepts a caller-chosen id if it is well formed, not reserved and
// not in use. There is no retry: a taken id fails with
// common.ErrorIdentifierTaken.
func (a *Allocator) Custom(ctx context.Context, id string) (string, error) {
	if err := Validate(id); err != nil {
		return "", err
	}

	exists, err := a.checker.Exists(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%w: check id: %w", common.ErrorBackingStore, err)
	}
	if exists {
		return "", common.ErrorIdentifierTaken
	}
	return id, nil
}

// Validate checks that id is two or more ASCII alphanumerics and not one of
// the reserved static route names.
func Validate(id string) error {
	if !idPattern.MatchString(id) {
		return common.ErrorInvalidIdentifier
	}
	if _, ok := reserved[id]; ok {
		return common.ErrorInvalidIdentifier
	}
	return nil
}
