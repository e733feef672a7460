package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/greenhub/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonResponse(status int, body string) *Response {
	return &Response{Status: status, Raw: []byte(body), Body: json.RawMessage(body)}
}

func TestResponse_MessageOf(t *testing.T) {
	tests := []struct {
		name string
		body string
		keys []string
		want string
	}{
		{"message", `{"message":"Invalid credentials"}`, nil, "Invalid credentials"},
		{"msg before errors", `{"msg":"taken","errors":[{"msg":"bad"}]}`, []string{"msg", "errors", "message"}, "taken"},
		{"first field error", `{"errors":[{"msg":"Email is invalid"},{"msg":"x"}]}`, []string{"msg", "errors", "message"}, "Email is invalid"},
		{"field error message key", `{"errors":[{"message":"too short"}]}`, []string{"errors"}, "too short"},
		{"empty errors", `{"errors":[],"message":"fallback"}`, []string{"errors", "message"}, "fallback"},
		{"empty string skipped", `{"message":"","error":"boom"}`, nil, "boom"},
		{"non-string ignored", `{"message":42}`, nil, ""},
		{"array body", `[1,2]`, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := jsonResponse(http.StatusBadRequest, tt.body)
			if tt.keys == nil {
				assert.Equal(t, tt.want, r.Message())
			} else {
				assert.Equal(t, tt.want, r.MessageOf(tt.keys...))
			}
		})
	}
}

func TestResponse_NilBody(t *testing.T) {
	r := &Response{Status: http.StatusInternalServerError, Raw: []byte("oops")}
	assert.Empty(t, r.Message())
	assert.False(t, r.IsArray())

	err := r.Err()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, MsgGeneric, err.Error())
}

func TestResponse_ErrOnSuccess(t *testing.T) {
	assert.NoError(t, jsonResponse(http.StatusCreated, `{}`).Err())
	assert.NoError(t, jsonResponse(http.StatusNoContent, `{"message":"x"}`).ErrOf("message"))
}

func TestResponse_Decode(t *testing.T) {
	var v struct {
		Token string `json:"token"`
	}
	require.NoError(t, jsonResponse(http.StatusOK, `{"token":"t1"}`).Decode(&v))
	assert.Equal(t, "t1", v.Token)

	err := jsonResponse(http.StatusOK, `{"token":5}`).Decode(&v)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestAPIError_Unauthorized(t *testing.T) {
	assert.ErrorIs(t, &APIError{Status: http.StatusUnauthorized}, ErrUnauthorized)
	assert.ErrorIs(t, &APIError{Status: http.StatusForbidden}, ErrUnauthorized)
	assert.NotErrorIs(t, &APIError{Status: http.StatusBadRequest}, ErrUnauthorized)
}

func TestUserMessage(t *testing.T) {
	validation := fmt.Errorf("%w: email is required", common.ErrValidation)

	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, MsgUnreachable, UserMessage(&TransportError{Op: "GET", URL: "http://x", Err: errors.New("refused")}))
	assert.Equal(t, "nope", UserMessage(fmt.Errorf("login: %w", &APIError{Status: 400, Message: "nope"})))
	assert.Equal(t, validation.Error(), UserMessage(validation))
	assert.Equal(t, MsgLoginFirst, UserMessage(fmt.Errorf("list products: %w", common.ErrNotAuthenticated)))
	assert.Equal(t, MsgGeneric, UserMessage(errors.New("disk on fire")))
}

func TestDoerFunc(t *testing.T) {
	var d Doer = DoerFunc(func(_ context.Context, req *Request) (*Response, error) {
		return jsonResponse(http.StatusOK, fmt.Sprintf(`{"path":%q}`, req.Path)), nil
	})
	resp, err := d.Do(context.Background(), &Request{Path: "/x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"path":"/x"}`, string(resp.Body))
}
