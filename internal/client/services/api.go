package services

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/greenhub/internal/client/client"
	"github.com/dmitrijs2005/greenhub/internal/common"
)

// TokenSource is the view of the session the services need.
type TokenSource interface {
	Token() string
	HandleUnauthorized(ctx context.Context)
}

// authedAPI issues bearer-authenticated backend calls.
type authedAPI struct {
	doer   client.Doer
	tokens TokenSource
}

// call sends req with the session token. Non-2xx answers become
// *client.APIError with the message taken from keys; 401 and 403 also end
// the session.
func (a authedAPI) call(ctx context.Context, req *client.Request, keys ...string) (*client.Response, error) {
	token := a.tokens.Token()
	if token == "" {
		return nil, common.ErrNotAuthenticated
	}
	req.Token = token

	resp, err := a.doer.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusUnauthorized || resp.Status == http.StatusForbidden {
		a.tokens.HandleUnauthorized(ctx)
	}
	if len(keys) == 0 {
		keys = []string{"message", "msg", "error"}
	}
	if err := resp.ErrOf(keys...); err != nil {
		return nil, err
	}
	return resp, nil
}
