package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tripmate/internal/domain/entity"
	"tripmate/internal/domain/repository"
	"tripmate/pkg/errors"
	"tripmate/pkg/logger"
)

type FriendUseCase struct {
	friendRepo       repository.FriendRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	cleanupWait      time.Duration
}

func NewFriendUseCase(
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
	cleanupWait time.Duration,
) *FriendUseCase {
	return &FriendUseCase{
		friendRepo:       friendRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		cleanupWait:      cleanupWait,
	}
}

type SendRequestInput struct {
	FromUserID string
	ToUserID   string
	Message    string
}

// FriendInfo is a friendship edge joined with the friend's display data.
type FriendInfo struct {
	UID      string `json:"uid"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
	AddedAt  int64  `json:"addedAt"`
}

// RequestView is a friend request joined with the counterpart's display
// data: the sender for incoming requests, the recipient for outgoing ones.
type RequestView struct {
	*entity.FriendRequest
	User *entity.User `json:"user,omitempty"`
}

// SendRequest creates a pending friend request: one canonical record plus a
// shadow copy in the sender's outgoing box and the recipient's incoming box.
func (uc *FriendUseCase) SendRequest(ctx context.Context, callerID string, input SendRequestInput) (*entity.FriendRequest, error) {
	if input.FromUserID != callerID {
		return nil, errors.Forbidden("Friend requests can only be sent as yourself", nil)
	}
	if input.ToUserID == callerID {
		return nil, errors.BadRequest("You cannot send a friend request to yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, input.FromUserID); err != nil {
		return nil, err
	}
	if _, err := uc.userRepo.GetByID(ctx, input.ToUserID); err != nil {
		return nil, err
	}

	if err := uc.checkNoPendingRequest(ctx, callerID, input.ToUserID); err != nil {
		return nil, err
	}
	if _, err := uc.friendRepo.GetEdge(ctx, callerID, input.ToUserID); err == nil {
		return nil, errors.Conflict("Users are already friends")
	} else if !errors.Is(err, "NOT_FOUND") {
		logger.Warn("SendRequest: friendship check failed for %s, assuming not friends: %v", input.ToUserID, err)
	}

	req := &entity.FriendRequest{
		ID:         uuid.New().String(),
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		Message:    strings.TrimSpace(input.Message),
		Status:     entity.RequestStatusPending,
		CreatedAt:  time.Now().UnixMilli(),
	}

	if err := uc.friendRepo.SaveRequest(ctx, req); err != nil {
		return nil, err
	}
	if err := uc.friendRepo.SaveShadow(ctx, req.FromUserID, repository.BoxOutgoing, req); err != nil {
		return nil, err
	}
	if err := uc.friendRepo.SaveShadow(ctx, req.ToUserID, repository.BoxIncoming, req); err != nil {
		return nil, err
	}

	uc.notify(ctx, req.ToUserID, &entity.Notification{
		Title:   "Friend request",
		Message: fmt.Sprintf("%s sent you a friend request", uc.displayName(ctx, req.FromUserID)),
		Type:    entity.NotificationTypeFriendRequest,
		Data: map[string]interface{}{
			"requestId":  req.ID,
			"fromUserId": req.FromUserID,
		},
	})
	return req, nil
}

// checkNoPendingRequest rejects a new request when a pending one already
// exists in either direction. A failed box read is treated as "no pending
// request" so a degraded store does not block the primary write.
func (uc *FriendUseCase) checkNoPendingRequest(ctx context.Context, callerID, toUserID string) error {
	outgoing, err := uc.friendRepo.ListShadows(ctx, callerID, repository.BoxOutgoing)
	if err != nil {
		logger.Warn("SendRequest: outgoing box read failed for %s, assuming empty: %v", callerID, err)
	}
	for _, req := range outgoing {
		if req.Status == entity.RequestStatusPending && req.ToUserID == toUserID {
			return errors.Conflict("A friend request between these users already exists")
		}
	}

	incoming, err := uc.friendRepo.ListShadows(ctx, callerID, repository.BoxIncoming)
	if err != nil {
		logger.Warn("SendRequest: incoming box read failed for %s, assuming empty: %v", callerID, err)
	}
	for _, req := range incoming {
		if req.Status == entity.RequestStatusPending && req.FromUserID == toUserID {
			return errors.Conflict("A friend request between these users already exists")
		}
	}
	return nil
}

// Accept resolves a pending request addressed to the caller: the canonical
// record flips to accepted and both friendship edges are written
// immediately. Shadow copies are updated best-effort; the cleanup job
// removes them later.
func (uc *FriendUseCase) Accept(ctx context.Context, callerID, requestID string) (*entity.FriendRequest, error) {
	req, err := uc.friendRepo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.ToUserID != callerID {
		return nil, errors.Forbidden("Only the request recipient can accept it", nil)
	}
	if req.Status != entity.RequestStatusPending {
		return nil, errors.Conflict("Friend request is not pending")
	}

	now := time.Now().UnixMilli()
	req.Status = entity.RequestStatusAccepted
	req.ResolvedAt = now
	if err := uc.friendRepo.SaveRequest(ctx, req); err != nil {
		return nil, err
	}

	if err := uc.friendRepo.UpdateShadowStatus(ctx, req.FromUserID, repository.BoxOutgoing, req.ID, entity.RequestStatusAccepted); err != nil {
		logger.Warn("Accept: outgoing shadow update failed for %s: %v", req.ID, err)
	}
	if err := uc.friendRepo.UpdateShadowStatus(ctx, req.ToUserID, repository.BoxIncoming, req.ID, entity.RequestStatusAccepted); err != nil {
		logger.Warn("Accept: incoming shadow update failed for %s: %v", req.ID, err)
	}

	if err := uc.friendRepo.SaveEdge(ctx, req.FromUserID, &entity.Friend{UID: req.ToUserID, AddedAt: now}); err != nil {
		return nil, err
	}
	if err := uc.friendRepo.SaveEdge(ctx, req.ToUserID, &entity.Friend{UID: req.FromUserID, AddedAt: now}); err != nil {
		return nil, err
	}

	uc.notify(ctx, req.FromUserID, &entity.Notification{
		Title:   "Friend request accepted",
		Message: fmt.Sprintf("%s accepted your friend request", uc.displayName(ctx, req.ToUserID)),
		Type:    entity.NotificationTypeFriendAccepted,
		Data: map[string]interface{}{
			"requestId": req.ID,
			"userId":    req.ToUserID,
		},
	})
	return req, nil
}

// Reject deletes a pending request addressed to the caller, shadows
// included. Nothing is retained.
func (uc *FriendUseCase) Reject(ctx context.Context, callerID, requestID string) error {
	req, err := uc.friendRepo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ToUserID != callerID {
		return errors.Forbidden("Only the request recipient can reject it", nil)
	}
	if req.Status != entity.RequestStatusPending {
		return errors.Conflict("Friend request is not pending")
	}

	if err := uc.friendRepo.DeleteShadow(ctx, req.FromUserID, repository.BoxOutgoing, req.ID); err != nil {
		logger.Warn("Reject: outgoing shadow delete failed for %s: %v", req.ID, err)
	}
	if err := uc.friendRepo.DeleteShadow(ctx, req.ToUserID, repository.BoxIncoming, req.ID); err != nil {
		logger.Warn("Reject: incoming shadow delete failed for %s: %v", req.ID, err)
	}
	return uc.friendRepo.DeleteRequest(ctx, req.ID)
}

// RemoveFriend deletes both directions of the edge. The deletes are
// sequential and uncompensated; a failure after the first leaves an
// asymmetric graph that the next remove call can finish.
func (uc *FriendUseCase) RemoveFriend(ctx context.Context, callerID, friendID string) error {
	if _, err := uc.friendRepo.GetEdge(ctx, callerID, friendID); err != nil {
		return err
	}
	if err := uc.friendRepo.DeleteEdge(ctx, callerID, friendID); err != nil {
		return err
	}
	return uc.friendRepo.DeleteEdge(ctx, friendID, callerID)
}

// Status reports the relationship between the caller and the target:
// friends, pending_sent, pending_received or none. Friendship edges win
// over pending requests.
func (uc *FriendUseCase) Status(ctx context.Context, callerID, targetID string) (string, error) {
	if _, err := uc.friendRepo.GetEdge(ctx, callerID, targetID); err == nil {
		return entity.FriendStatusFriends, nil
	} else if !errors.Is(err, "NOT_FOUND") {
		logger.Warn("Status: edge read failed for %s, assuming none: %v", targetID, err)
	}

	outgoing, err := uc.friendRepo.ListShadows(ctx, callerID, repository.BoxOutgoing)
	if err != nil {
		logger.Warn("Status: outgoing box read failed for %s, assuming empty: %v", callerID, err)
	}
	for _, req := range outgoing {
		if req.Status == entity.RequestStatusPending && req.ToUserID == targetID {
			return entity.FriendStatusPendingSent, nil
		}
	}

	incoming, err := uc.friendRepo.ListShadows(ctx, callerID, repository.BoxIncoming)
	if err != nil {
		logger.Warn("Status: incoming box read failed for %s, assuming empty: %v", callerID, err)
	}
	for _, req := range incoming {
		if req.Status == entity.RequestStatusPending && req.FromUserID == targetID {
			return entity.FriendStatusPendingReceived, nil
		}
	}
	return entity.FriendStatusNone, nil
}

// ListFriends returns the caller's friends with display data, sorted by
// username.
func (uc *FriendUseCase) ListFriends(ctx context.Context, callerID string) ([]*FriendInfo, error) {
	edges, err := uc.friendRepo.ListEdges(ctx, callerID)
	if err != nil {
		return nil, err
	}

	friends := make([]*FriendInfo, 0, len(edges))
	for _, edge := range edges {
		user, _ := uc.userRepo.ResolveDisplay(ctx, edge.UID)
		friends = append(friends, &FriendInfo{
			UID:      edge.UID,
			Username: user.Username,
			Avatar:   user.Avatar,
			AddedAt:  edge.AddedAt,
		})
	}

	sort.Slice(friends, func(i, j int) bool {
		a := strings.ToLower(friends[i].Username)
		b := strings.ToLower(friends[j].Username)
		if a != b {
			return a < b
		}
		return friends[i].UID < friends[j].UID
	})
	return friends, nil
}

// ListRequests returns the caller's pending requests from the named box
// ("incoming" or "outgoing"), newest first, joined with the counterpart's
// display data.
func (uc *FriendUseCase) ListRequests(ctx context.Context, callerID, direction string) ([]*RequestView, error) {
	var box string
	switch direction {
	case "", "incoming":
		box = repository.BoxIncoming
	case "outgoing":
		box = repository.BoxOutgoing
	default:
		return nil, errors.BadRequest("type must be incoming or outgoing", nil)
	}

	shadows, err := uc.friendRepo.ListShadows(ctx, callerID, box)
	if err != nil {
		return nil, err
	}

	views := make([]*RequestView, 0, len(shadows))
	for _, req := range shadows {
		if req.Status != entity.RequestStatusPending {
			continue
		}
		counterpart := req.FromUserID
		if box == repository.BoxOutgoing {
			counterpart = req.ToUserID
		}
		user, _ := uc.userRepo.ResolveDisplay(ctx, counterpart)
		views = append(views, &RequestView{FriendRequest: req, User: user})
	}

	sort.Slice(views, func(i, j int) bool {
		if views[i].CreatedAt != views[j].CreatedAt {
			return views[i].CreatedAt > views[j].CreatedAt
		}
		return views[i].ID < views[j].ID
	})
	return views, nil
}

// CleanupResolvedShadows removes the shadow copies of requests that were
// accepted at least cleanupWait ago. The canonical record stays as the
// friendship's audit trail. The pass is idempotent: deleting an
// already-absent shadow is a no-op.
func (uc *FriendUseCase) CleanupResolvedShadows(ctx context.Context) error {
	requests, err := uc.friendRepo.ListRequests(ctx)
	if err != nil {
		logger.Warn("CleanupResolvedShadows: canonical scan failed: %v", err)
		return err
	}

	cutoff := time.Now().Add(-uc.cleanupWait).UnixMilli()
	cleaned := 0
	for _, req := range requests {
		if req.Status != entity.RequestStatusAccepted || req.ResolvedAt == 0 || req.ResolvedAt > cutoff {
			continue
		}
		if err := uc.friendRepo.DeleteShadow(ctx, req.FromUserID, repository.BoxOutgoing, req.ID); err != nil {
			logger.Warn("CleanupResolvedShadows: outgoing shadow delete failed for %s: %v", req.ID, err)
			continue
		}
		if err := uc.friendRepo.DeleteShadow(ctx, req.ToUserID, repository.BoxIncoming, req.ID); err != nil {
			logger.Warn("CleanupResolvedShadows: incoming shadow delete failed for %s: %v", req.ID, err)
			continue
		}
		cleaned++
	}
	if cleaned > 0 {
		logger.Info("CleanupResolvedShadows: removed shadows for %d accepted requests", cleaned)
	}
	return nil
}

// StartShadowCleanupJob runs the cleanup pass on a fixed interval until the
// context is cancelled. Run it as a goroutine from main.
func (uc *FriendUseCase) StartShadowCleanupJob(ctx context.Context, interval time.Duration) {
	logger.Info("Starting friend request shadow cleanup job (every %s)", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shadow cleanup job stopped")
			return
		case <-ticker.C:
			if err := uc.CleanupResolvedShadows(ctx); err != nil {
				logger.Error("Shadow cleanup pass failed: %v", err)
			}
		}
	}
}

func (uc *FriendUseCase) displayName(ctx context.Context, uid string) string {
	user, degraded := uc.userRepo.ResolveDisplay(ctx, uid)
	if degraded {
		return uid
	}
	return user.Username
}

func (uc *FriendUseCase) notify(ctx context.Context, recipientID string, n *entity.Notification) {
	n.CreatedAt = time.Now().UnixMilli()
	if _, err := uc.notificationRepo.Create(ctx, recipientID, n); err != nil {
		logger.Warn("notify: notification write failed for %s: %v", recipientID, err)
	}
}
