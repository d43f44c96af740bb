package repository

import (
	"context"

	"tripmate/internal/domain/entity"
)

type UserRepository interface {
	// GetByID returns the root user record, NOT_FOUND when absent.
	GetByID(ctx context.Context, uid string) (*entity.User, error)
	// List returns all root user records keyed by uid (search surface).
	List(ctx context.Context) (map[string]*entity.User, error)
	// ResolveDisplay never fails: profile subtree, then root record, then a
	// synthesized "Unknown User" record. degraded reports that no real
	// record could be read and the result is synthesized, so the caller
	// chooses its own default.
	ResolveDisplay(ctx context.Context, uid string) (user *entity.User, degraded bool)
}
