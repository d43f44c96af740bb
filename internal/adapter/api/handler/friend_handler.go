package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"tripmate/internal/usecase"
	"tripmate/pkg/errors"
	"tripmate/pkg/response"
)

type FriendHandler struct {
	friendUseCase *usecase.FriendUseCase
}

func NewFriendHandler(friendUseCase *usecase.FriendUseCase) *FriendHandler {
	return &FriendHandler{
		friendUseCase: friendUseCase,
	}
}

type sendFriendRequestRequest struct {
	FromUserID string `json:"fromUserId" validate:"required"`
	ToUserID   string `json:"toUserId" validate:"required"`
	Message    string `json:"message"`
}

type requestActionRequest struct {
	RequestID string `json:"requestId" validate:"required"`
}

func (h *FriendHandler) SendRequest(c echo.Context) error {
	var req sendFriendRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	request, err := h.friendUseCase.SendRequest(c.Request().Context(), userID, usecase.SendRequestInput{
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		Message:    req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

func (h *FriendHandler) AcceptRequest(c echo.Context) error {
	var req requestActionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	request, err := h.friendUseCase.Accept(c.Request().Context(), userID, req.RequestID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]interface{}{
		"fromUserId": request.FromUserID,
		"toUserId":   request.ToUserID,
	})
}

func (h *FriendHandler) RejectRequest(c echo.Context) error {
	var req requestActionRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	if err := h.friendUseCase.Reject(c.Request().Context(), userID, req.RequestID); err != nil {
		return response.Error(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Friend request rejected",
	})
}

func (h *FriendHandler) GetFriends(c echo.Context) error {
	userID := c.Get("uid").(string)

	friends, err := h.friendUseCase.ListFriends(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]interface{}{
		"friends": friends,
		"count":   len(friends),
	})
}

func (h *FriendHandler) GetRequests(c echo.Context) error {
	userID := c.Get("uid").(string)

	requests, err := h.friendUseCase.ListRequests(c.Request().Context(), userID, c.QueryParam("type"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]interface{}{
		"requests": requests,
		"count":    len(requests),
	})
}

func (h *FriendHandler) RemoveFriend(c echo.Context) error {
	userID := c.Get("uid").(string)
	friendID := c.Param("friendId")

	if err := h.friendUseCase.RemoveFriend(c.Request().Context(), userID, friendID); err != nil {
		return response.Error(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Friend removed",
	})
}

func (h *FriendHandler) GetStatus(c echo.Context) error {
	userID := c.Get("uid").(string)

	currentUserID := c.QueryParam("currentUserId")
	targetUserID := c.QueryParam("targetUserId")
	if currentUserID == "" || targetUserID == "" {
		return response.Error(c, errors.BadRequest("currentUserId and targetUserId are required", nil))
	}
	if currentUserID != userID {
		return response.Error(c, errors.Forbidden("Friendship status can only be checked as yourself", nil))
	}

	status, err := h.friendUseCase.Status(c.Request().Context(), currentUserID, targetUserID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]string{
		"status": status,
	})
}
