package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/greenhub/internal/client/client"
	"github.com/dmitrijs2005/greenhub/internal/client/models"
	"github.com/dmitrijs2005/greenhub/internal/common"
)

// UntitledChat labels sessions without a title.
const UntitledChat = "Untitled Chat"

// ChatSessionService manages the user's assistant conversations.
type ChatSessionService interface {
	List(ctx context.Context) ([]models.ChatSession, error)
	Create(ctx context.Context, firstMsg string) (*models.ChatSession, error)
	Delete(ctx context.Context, id string) (string, error)
}

type chatSessionService struct {
	api authedAPI
}

func NewChatSessionService(doer client.Doer, tokens TokenSource) ChatSessionService {
	return &chatSessionService{api: authedAPI{doer: doer, tokens: tokens}}
}

func (s *chatSessionService) List(ctx context.Context) ([]models.ChatSession, error) {
	resp, err := s.api.call(ctx, &client.Request{Method: http.MethodGet, Path: "/chatsessions"}, "msg", "message")
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}

	var body struct {
		ChatSessions []models.ChatSession `json:"ChatSessions"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	for i := range body.ChatSessions {
		if body.ChatSessions[i].Title == "" {
			body.ChatSessions[i].Title = UntitledChat
		}
	}
	return body.ChatSessions, nil
}

func (s *chatSessionService) Create(ctx context.Context, firstMsg string) (*models.ChatSession, error) {
	firstMsg = strings.TrimSpace(firstMsg)
	if firstMsg == "" {
		return nil, fmt.Errorf("%w: message is required", common.ErrValidation)
	}

	resp, err := s.api.call(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   "/chatsessions",
		Body:   map[string]string{"msg": firstMsg},
	}, "msg", "message")
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	var body struct {
		NewSession *models.ChatSession `json:"newSession"`
	}
	if err := resp.Decode(&body); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}
	if body.NewSession == nil {
		return nil, fmt.Errorf("create chat: %w: newSession missing", client.ErrDecode)
	}
	return body.NewSession, nil
}

// Delete removes a session and returns the backend's confirmation.
func (s *chatSessionService) Delete(ctx context.Context, id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("%w: id is required", common.ErrValidation)
	}
	resp, err := s.api.call(ctx, &client.Request{
		Method: http.MethodDelete,
		Path:   "/chatsessions/" + url.PathEscape(id),
	}, "msg", "message")
	if err != nil {
		return "", fmt.Errorf("delete chat: %w", err)
	}
	return resp.MessageOf("msg", "message"), nil
}
