package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"tripmate/internal/usecase"
	"tripmate/pkg/errors"
	"tripmate/pkg/response"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createChatRequest struct {
	ParticipantIDs []string `json:"participantIds" validate:"required,len=2,dive,required"`
}

type sendMessageRequest struct {
	ChatID  string `json:"chatId" validate:"required"`
	Content string `json:"content" validate:"required"`
	Type    string `json:"type" validate:"required,oneof=text image file location"`
}

// CreateChat opens (or returns) the direct chat between the caller and the
// other participant.
func (h *ChatHandler) CreateChat(c echo.Context) error {
	var req createChatRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	otherID := ""
	switch userID {
	case req.ParticipantIDs[0]:
		otherID = req.ParticipantIDs[1]
	case req.ParticipantIDs[1]:
		otherID = req.ParticipantIDs[0]
	default:
		return response.Error(c, errors.BadRequest("Caller must be one of the participants", nil))
	}

	result, err := h.chatUseCase.GetOrCreateChat(c.Request().Context(), userID, otherID)
	if err != nil {
		return response.Error(c, err)
	}

	if result.Existing {
		return response.OK(c, map[string]interface{}{
			"message": "Chat already exists",
			"chat":    result.Chat,
		})
	}
	return response.Created(c, map[string]interface{}{
		"chatId": result.Chat.ChatKey,
		"chat":   result.Chat,
	})
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ChatID:  req.ChatID,
		Content: req.Content,
		Type:    req.Type,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]interface{}{
		"messageId": message.ID,
		"data":      message,
	})
}

func (h *ChatHandler) GetUserChats(c echo.Context) error {
	userID := c.Get("uid").(string)

	chats, err := h.chatUseCase.ListChats(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]interface{}{
		"chats": chats,
	})
}

func (h *ChatHandler) GetChatMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("chatId")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	messages, err := h.chatUseCase.ListMessages(c.Request().Context(), userID, chatID, limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]interface{}{
		"messages": messages,
		"count":    len(messages),
	})
}

func (h *ChatHandler) MarkChatAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	chatID := c.Param("chatId")

	updated, err := h.chatUseCase.MarkChatAsRead(c.Request().Context(), userID, chatID)
	if err != nil {
		return response.Error(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":         "Chat marked as read",
		"messagesUpdated": updated,
	})
}

func (h *ChatHandler) SearchUsers(c echo.Context) error {
	userID := c.Get("uid").(string)
	query := c.QueryParam("query")

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	users, err := h.chatUseCase.SearchUsers(c.Request().Context(), userID, query, limit)
	if err != nil {
		return response.Error(c, err)
	}

	return response.OK(c, map[string]interface{}{
		"users": users,
	})
}
