package chatclient

import (
	"errors"
	"net/http"
)

// User-facing notices for a failed turn. A failed turn surfaces exactly one
// of these; the conversation view never renders a broken turn.
const (
	NoticeUnreachable = "Chat service is unreachable. The coffee-chat function may not be deployed."
	NoticeRateLimited = "Rate limit exceeded. Please try again later."
	NoticeNoCredits   = "AI credits exhausted. Please contact support."
	NoticeRelayFailed = "Failed to get response from AI"
	NoticeGeneric     = "Failed to get response. Please try again."
)

// Classify turns any Submit error into the single notice shown to the
// user. Transport failures are distinguished from in-band relay errors:
// "the relay said no" reads differently from "the relay isn't there".
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return NoticeUnreachable
	}

	var statusErr *RelayStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.Status {
		case http.StatusTooManyRequests:
			return NoticeRateLimited
		case http.StatusPaymentRequired:
			return NoticeNoCredits
		}
		// Every other in-band status collapses to one fixed notice; the
		// relay's own message is for logs, not the conversation view.
		return NoticeRelayFailed
	}

	return NoticeGeneric
}
