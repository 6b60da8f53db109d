package chatclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "transport failure",
			err:  &TransportError{Err: errors.New("connection refused")},
			want: NoticeUnreachable,
		},
		{
			name: "wrapped transport failure",
			err:  fmt.Errorf("turn failed: %w", &TransportError{Err: errors.New("dial tcp")}),
			want: NoticeUnreachable,
		},
		{
			name: "rate limited",
			err:  &RelayStatusError{Status: 429, Message: "Rate limit exceeded. Please try again later."},
			want: NoticeRateLimited,
		},
		{
			name: "credits exhausted",
			err:  &RelayStatusError{Status: 402},
			want: NoticeNoCredits,
		},
		{
			name: "other in-band status collapses to fixed notice",
			err:  &RelayStatusError{Status: 404, Message: "Model not found. Please verify your API key has access to Gemini 1.5 Flash."},
			want: NoticeRelayFailed,
		},
		{
			name: "relay error without message",
			err:  &RelayStatusError{Status: 500},
			want: NoticeRelayFailed,
		},
		{
			name: "unrecognized error",
			err:  errors.New("something odd"),
			want: NoticeGeneric,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
