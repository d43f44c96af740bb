package repository

import (
	"context"
	"fmt"
	"sort"

	"tripmate/internal/domain/entity"
	"tripmate/internal/domain/repository"
	"tripmate/pkg/errors"
)

type rtdbFriendRepository struct {
	store repository.Store
}

func NewRTDBFriendRepository(store repository.Store) repository.FriendRepository {
	return &rtdbFriendRepository{store: store}
}

func requestPath(id string) string {
	return fmt.Sprintf("FriendRequests/%s", id)
}

func shadowPath(ownerID, box, id string) string {
	return fmt.Sprintf("Users/%s/%s/%s", ownerID, box, id)
}

func shadowsPath(ownerID, box string) string {
	return fmt.Sprintf("Users/%s/%s", ownerID, box)
}

func edgePath(ownerID, friendID string) string {
	return fmt.Sprintf("Users/%s/friends/%s", ownerID, friendID)
}

func edgesPath(ownerID string) string {
	return fmt.Sprintf("Users/%s/friends", ownerID)
}

func (r *rtdbFriendRepository) GetRequest(ctx context.Context, id string) (*entity.FriendRequest, error) {
	var req *entity.FriendRequest
	if err := r.store.Get(ctx, requestPath(id), &req); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, errors.NotFound("Friend request", nil)
	}
	if req.ID == "" {
		req.ID = id
	}
	return req, nil
}

func (r *rtdbFriendRepository) SaveRequest(ctx context.Context, req *entity.FriendRequest) error {
	return r.store.Set(ctx, requestPath(req.ID), req)
}

func (r *rtdbFriendRepository) DeleteRequest(ctx context.Context, id string) error {
	return r.store.Delete(ctx, requestPath(id))
}

func (r *rtdbFriendRepository) ListRequests(ctx context.Context) ([]*entity.FriendRequest, error) {
	var raw map[string]*entity.FriendRequest
	if err := r.store.Get(ctx, "FriendRequests", &raw); err != nil {
		return nil, err
	}
	return requestSlice(raw), nil
}

func (r *rtdbFriendRepository) SaveShadow(ctx context.Context, ownerID, box string, req *entity.FriendRequest) error {
	return r.store.Set(ctx, shadowPath(ownerID, box, req.ID), req)
}

func (r *rtdbFriendRepository) UpdateShadowStatus(ctx context.Context, ownerID, box, id, status string) error {
	return r.store.Update(ctx, shadowPath(ownerID, box, id), map[string]interface{}{
		"status": status,
	})
}

func (r *rtdbFriendRepository) DeleteShadow(ctx context.Context, ownerID, box, id string) error {
	return r.store.Delete(ctx, shadowPath(ownerID, box, id))
}

func (r *rtdbFriendRepository) ListShadows(ctx context.Context, ownerID, box string) ([]*entity.FriendRequest, error) {
	var raw map[string]*entity.FriendRequest
	if err := r.store.Get(ctx, shadowsPath(ownerID, box), &raw); err != nil {
		return nil, err
	}
	return requestSlice(raw), nil
}

func requestSlice(raw map[string]*entity.FriendRequest) []*entity.FriendRequest {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	requests := make([]*entity.FriendRequest, 0, len(raw))
	for _, key := range keys {
		req := raw[key]
		if req == nil {
			continue
		}
		if req.ID == "" {
			req.ID = key
		}
		requests = append(requests, req)
	}
	return requests
}

func (r *rtdbFriendRepository) GetEdge(ctx context.Context, ownerID, friendID string) (*entity.Friend, error) {
	var friend *entity.Friend
	if err := r.store.Get(ctx, edgePath(ownerID, friendID), &friend); err != nil {
		return nil, err
	}
	if friend == nil {
		return nil, errors.NotFound("Friend", nil)
	}
	if friend.UID == "" {
		friend.UID = friendID
	}
	return friend, nil
}

func (r *rtdbFriendRepository) SaveEdge(ctx context.Context, ownerID string, friend *entity.Friend) error {
	return r.store.Set(ctx, edgePath(ownerID, friend.UID), friend)
}

func (r *rtdbFriendRepository) DeleteEdge(ctx context.Context, ownerID, friendID string) error {
	return r.store.Delete(ctx, edgePath(ownerID, friendID))
}

func (r *rtdbFriendRepository) ListEdges(ctx context.Context, ownerID string) ([]*entity.Friend, error) {
	var raw map[string]*entity.Friend
	if err := r.store.Get(ctx, edgesPath(ownerID), &raw); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	friends := make([]*entity.Friend, 0, len(raw))
	for _, key := range keys {
		friend := raw[key]
		if friend == nil {
			continue
		}
		if friend.UID == "" {
			friend.UID = key
		}
		friends = append(friends, friend)
	}
	return friends, nil
}
