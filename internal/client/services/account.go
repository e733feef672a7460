package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/greenhub/internal/client/client"
	"github.com/dmitrijs2005/greenhub/internal/client/media"
	"github.com/dmitrijs2005/greenhub/internal/client/models"
	"github.com/dmitrijs2005/greenhub/internal/common"
)

// MsgResetSent is shown when the backend gives no message of its own.
const MsgResetSent = "If the email exists, a reset link was sent"

// UserSession is the session view profile editing needs.
type UserSession interface {
	TokenSource
	User() (models.User, bool)
	UpdateUser(user models.User) error
}

// AccountService covers password recovery and profile editing.
type AccountService interface {
	ForgotPassword(ctx context.Context, email string) (string, error)
	UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error)
}

type accountService struct {
	doer     client.Doer
	session  UserSession
	api      authedAPI
	uploader media.Uploader
}

// NewAccountService wires the service. uploader may be nil, in which case
// image fields are sent as given.
func NewAccountService(doer client.Doer, session UserSession, uploader media.Uploader) AccountService {
	return &accountService{
		doer:     doer,
		session:  session,
		api:      authedAPI{doer: doer, tokens: session},
		uploader: uploader,
	}
}

// ForgotPassword asks for a reset link. The backend's msg is returned
// whatever the status, so the answer never reveals whether the address is
// registered.
func (s *accountService) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", common.ErrValidation)
	}

	resp, err := s.doer.Do(ctx, &client.Request{
		Method: http.MethodPost,
		Path:   "/auth/forgot-password",
		Body:   map[string]string{"email": email},
	})
	if err != nil {
		return "", fmt.Errorf("forgot password: %w", err)
	}
	if msg := resp.MessageOf("msg"); msg != "" {
		return msg, nil
	}
	return MsgResetSent, nil
}

// UpdateProfile uploads local image files, sends PUT /users/:id and merges
// the result into the session user. The stored copy of the user is not
// touched.
func (s *accountService) UpdateProfile(ctx context.Context, p models.ProfileUpdate) (*models.User, error) {
	if err := models.Validate(p); err != nil {
		return nil, err
	}
	current, ok := s.session.User()
	if !ok || current.ID == "" {
		return nil, common.ErrNotAuthenticated
	}

	var err error
	if p.ProfileImageURL, err = s.resolveImage(ctx, p.ProfileImageURL); err != nil {
		return nil, err
	}
	if p.ProfileBackgroundImageURL, err = s.resolveImage(ctx, p.ProfileBackgroundImageURL); err != nil {
		return nil, err
	}

	resp, err := s.api.call(ctx, &client.Request{
		Method: http.MethodPut,
		Path:   "/users/" + url.PathEscape(current.ID),
		Body:   p,
	}, "msg", "message")
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	updated := current.Merge(p)
	var body struct {
		User *models.User `json:"user"`
	}
	if err := resp.Decode(&body); err == nil && body.User != nil {
		updated = *body.User
	}

	if err := s.session.UpdateUser(updated); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &updated, nil
}

func (s *accountService) resolveImage(ctx context.Context, ref string) (string, error) {
	if s.uploader == nil || !media.IsLocalFile(ref) {
		return ref, nil
	}
	u, err := s.uploader.Upload(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", ref, err)
	}
	return u, nil
}
