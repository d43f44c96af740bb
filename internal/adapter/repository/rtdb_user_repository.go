package repository

import (
	"context"
	"fmt"

	"tripmate/internal/domain/entity"
	"tripmate/internal/domain/repository"
	"tripmate/pkg/errors"
	"tripmate/pkg/logger"
)

type rtdbUserRepository struct {
	store repository.Store
}

func NewRTDBUserRepository(store repository.Store) repository.UserRepository {
	return &rtdbUserRepository{store: store}
}

func userPath(uid string) string {
	return fmt.Sprintf("Users/%s", uid)
}

func userProfilePath(uid string) string {
	return fmt.Sprintf("Users/%s/profile", uid)
}

func (r *rtdbUserRepository) GetByID(ctx context.Context, uid string) (*entity.User, error) {
	var user *entity.User
	if err := r.store.Get(ctx, userPath(uid), &user); err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.NotFound("User", nil)
	}
	if user.UID == "" {
		user.UID = uid
	}
	return user, nil
}

func (r *rtdbUserRepository) List(ctx context.Context) (map[string]*entity.User, error) {
	var raw map[string]*entity.User
	if err := r.store.Get(ctx, "Users", &raw); err != nil {
		return nil, err
	}

	users := make(map[string]*entity.User, len(raw))
	for uid, user := range raw {
		if user == nil {
			continue
		}
		if user.UID == "" {
			user.UID = uid
		}
		users[uid] = user
	}
	return users, nil
}

// ResolveDisplay walks the three-tier fallback: profile subtree, root user
// record, synthesized minimal record. Only the synthesized tier is reported
// as degraded; a root record is still real display data.
func (r *rtdbUserRepository) ResolveDisplay(ctx context.Context, uid string) (*entity.User, bool) {
	var profile *entity.User
	if err := r.store.Get(ctx, userProfilePath(uid), &profile); err != nil {
		logger.Warn("ResolveDisplay: profile read failed for %s: %v", uid, err)
	} else if profile != nil && profile.Username != "" {
		profile.UID = uid
		return profile, false
	}

	var root *entity.User
	if err := r.store.Get(ctx, userPath(uid), &root); err != nil {
		logger.Warn("ResolveDisplay: user record read failed for %s: %v", uid, err)
	} else if root != nil && root.Username != "" {
		root.UID = uid
		return root, false
	}

	return &entity.User{UID: uid, Username: "Unknown User"}, true
}
