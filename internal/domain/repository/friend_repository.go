package repository

import (
	"context"

	"tripmate/internal/domain/entity"
)

// Shadow boxes for denormalized friend-request copies.
const (
	BoxIncoming = "incomingFriendRequests"
	BoxOutgoing = "outgoingFriendRequests"
)

type FriendRepository interface {
	// Canonical FriendRequests/{id} records.
	GetRequest(ctx context.Context, id string) (*entity.FriendRequest, error)
	SaveRequest(ctx context.Context, req *entity.FriendRequest) error
	DeleteRequest(ctx context.Context, id string) error
	ListRequests(ctx context.Context) ([]*entity.FriendRequest, error)

	// Per-user shadow copies.
	SaveShadow(ctx context.Context, ownerID, box string, req *entity.FriendRequest) error
	UpdateShadowStatus(ctx context.Context, ownerID, box, id, status string) error
	DeleteShadow(ctx context.Context, ownerID, box, id string) error
	ListShadows(ctx context.Context, ownerID, box string) ([]*entity.FriendRequest, error)

	// Friendship edges, one direction per call.
	GetEdge(ctx context.Context, ownerID, friendID string) (*entity.Friend, error)
	SaveEdge(ctx context.Context, ownerID string, friend *entity.Friend) error
	DeleteEdge(ctx context.Context, ownerID, friendID string) error
	ListEdges(ctx context.Context, ownerID string) ([]*entity.Friend, error)
}
