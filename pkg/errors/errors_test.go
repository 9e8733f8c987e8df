package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 200},
		{name: "validation", err: NewValidationError("bad", "youtubeUrl", ""), want: 400},
		{name: "no data", err: NewNoDataError("acme", []string{"youtube"}), want: 404},
		{name: "wrapped no data", err: fmt.Errorf("analyze: %w", NewNoDataError("acme", nil)), want: 404},
		{name: "cache", err: NewCacheError("get failed", "get", "k", cause), want: 500},
		{name: "service", err: NewServiceError("down", "youtube", "fetch", cause), want: 500},
		{name: "api", err: NewAPIError("too many", 429, nil), want: 429},
		{name: "plain", err: cause, want: 500},
		{name: "zero status", err: NewAppError("x", CodeAppError, 0, nil), want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMessageOmitsCause(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewCacheError("get failed", "get", "creator:acme", stderrors.New("secret detail")))

	if got := Message(err); got != "get failed" {
		t.Errorf("Message() = %q, want %q", got, "get failed")
	}
	if got := Message(stderrors.New("plain")); got != "plain" {
		t.Errorf("Message() = %q, want plain", got)
	}
	if got := Message(nil); got != "" {
		t.Errorf("Message(nil) = %q", got)
	}
}

func TestUnwrapReachesCause(t *testing.T) {
	cause := stderrors.New("root")
	err := NewServiceError("failed", "instagram", "fetch", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}

	var serviceErr *ServiceError
	if !stderrors.As(fmt.Errorf("outer: %w", err), &serviceErr) || serviceErr.Service != "instagram" {
		t.Errorf("errors.As = %+v", serviceErr)
	}
}
