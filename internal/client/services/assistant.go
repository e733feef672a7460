package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/greenhub/internal/client/client"
	"github.com/dmitrijs2005/greenhub/internal/client/models"
	"github.com/dmitrijs2005/greenhub/internal/netx"
)

// Assistant defaults.
const (
	DefaultAgent     = "adam"
	ReplyEmptyPrompt = "I didn't catch that. Could you repeat it?"
	DefaultLabel     = "Classified Item"
	FallbackStep     = "Please follow the advice in the Reuse tab for this item."
	DefaultLocation  = "Check local recycling bins"
	MsgNotAnalyzed   = "Could not analyze item."
)

// AssistantService talks to the AI service: chat replies and waste
// classification. The AI service is not authenticated.
type AssistantService interface {
	Reply(ctx context.Context, message string) (string, error)
	Classify(ctx context.Context, imagePath string) (*models.Classification, error)
}

type assistantService struct {
	doer  client.Doer
	agent string
}

// NewAssistantService expects doer to be bound to the AI service base URL.
func NewAssistantService(doer client.Doer, agent string) AssistantService {
	if agent == "" {
		agent = DefaultAgent
	}
	return &assistantService{doer: doer, agent: agent}
}

type aiResponse struct {
	Success   *bool  `json:"success"`
	Response  string `json:"response"`
	WasteType string `json:"waste_type"`
	Error     string `json:"error"`
}

// Reply sends one chat message and returns the assistant's answer. A blank
// message is answered locally.
func (s *assistantService) Reply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return ReplyEmptyPrompt, nil
	}

	resp, err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   "/chat/" + url.PathEscape(s.agent),
		Body:   map[string]string{"message": message},
	})
	if err != nil {
		return "", fmt.Errorf("assistant reply: %w", err)
	}

	var body aiResponse
	_ = resp.Decode(&body)
	if !resp.OK() || (body.Success != nil && !*body.Success) {
		msg := body.Error
		if msg == "" {
			msg = fmt.Sprintf("Status: %d", resp.Status)
		}
		return "", fmt.Errorf("assistant reply: %w", &client.APIError{Status: resp.Status, Message: msg})
	}
	return body.Response, nil
}

// Classify uploads the image at imagePath as "upload.jpg" and shapes the
// verdict for display.
func (s *assistantService) Classify(ctx context.Context, imagePath string) (*models.Classification, error) {
	form := netx.NewForm().File("image", imagePath, "upload.jpg")

	resp, err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   "/waste/classify/" + url.PathEscape(s.agent),
		Form:   form,
	})
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}

	var body aiResponse
	if err := resp.Decode(&body); err != nil || body.Success == nil || !*body.Success {
		msg := body.Error
		if msg == "" {
			msg = MsgNotAnalyzed
		}
		return nil, fmt.Errorf("classify: %w", &client.APIError{Status: resp.Status, Message: msg})
	}

	label := body.WasteType
	if label == "" {
		label = DefaultLabel
	}
	return &models.Classification{
		Label:        label,
		Suggestions:  []string{body.Response},
		RecycleSteps: []string{FallbackStep},
		Location:     DefaultLocation,
	}, nil
}
