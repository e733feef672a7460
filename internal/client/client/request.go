package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/greenhub/internal/netx"
)

// Request describes one backend call. Path is resolved against the client's
// origin unless it is an absolute URL. At most one of Body and Form is used;
// Form wins.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Form   *netx.Form
	Token  string
	Header http.Header
}

// Doer issues requests. *HTTPClient implements it.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(ctx context.Context, req *Request) (*Response, error)

func (f DoerFunc) Do(ctx context.Context, req *Request) (*Response, error) { return f(ctx, req) }

// Response carries the status and the body. Body holds the raw JSON when the
// payload parsed as JSON and is nil otherwise; Raw always holds the bytes.
type Response struct {
	Status int
	Header http.Header
	Raw    []byte
	Body   json.RawMessage
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if r.Body == nil {
		return fmt.Errorf("%w: not json (status %d)", ErrDecode, r.Status)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// IsArray reports whether the JSON body is an array.
func (r *Response) IsArray() bool {
	b := bytes.TrimLeft(r.Body, " \t\r\n")
	return len(b) > 0 && b[0] == '['
}

// MessageOf returns the first non-empty string found under keys. The key
// "errors" selects the msg (or message) of the first entry of a field-error
// array.
func (r *Response) MessageOf(keys ...string) string {
	var obj map[string]json.RawMessage
	if r.Body == nil || json.Unmarshal(r.Body, &obj) != nil {
		return ""
	}

	for _, key := range keys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		if key == "errors" {
			var list []struct {
				Msg     string `json:"msg"`
				Message string `json:"message"`
			}
			if json.Unmarshal(raw, &list) == nil && len(list) > 0 {
				if list[0].Msg != "" {
					return list[0].Msg
				}
				if list[0].Message != "" {
					return list[0].Message
				}
			}
			continue
		}
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}

// Message looks at message, msg, error and errors, in that order.
func (r *Response) Message() string {
	return r.MessageOf("message", "msg", "error", "errors")
}

// Err is nil for 2xx responses and an *APIError otherwise.
func (r *Response) Err() error {
	return r.ErrOf("message", "msg", "error", "errors")
}

// ErrOf is Err with an explicit message key order.
func (r *Response) ErrOf(keys ...string) error {
	if r.OK() {
		return nil
	}
	return &APIError{Status: r.Status, Message: r.MessageOf(keys...)}
}
