// ABOUTME: Error taxonomy for calendar synchronization
// ABOUTME: Maps Google API failures onto the sentinel errors callers branch on
package sync

import (
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

var (
	// ErrUnauthenticated means no token record exists for the user; the
	// operation is aborted before any remote call.
	ErrUnauthenticated = errors.New("calendar not connected")

	// ErrReauthRequired means the refresh token was rejected; the user must
	// redo the OAuth handshake. Never retried automatically.
	ErrReauthRequired = errors.New("calendar authorization expired, reconnect required")

	// ErrAuthExpired means the access token was rejected mid-call. Callers
	// attempt exactly one refresh-and-retry, then give up.
	ErrAuthExpired = errors.New("access token rejected")

	// ErrRemoteUnavailable covers network failures and 5xx responses.
	// Surfaced for a user-visible retry, never silently swallowed.
	ErrRemoteUnavailable = errors.New("google calendar unavailable")

	// ErrNotFound means the remote event does not exist. Deletes treat it
	// as success, updates as a hard failure.
	ErrNotFound = errors.New("remote event not found")

	// ErrValidationRejected means the provider rejected the payload. Fatal,
	// not retried.
	ErrValidationRejected = errors.New("google calendar rejected the payload")
)

// classifyRemoteError maps a Google API error to the taxonomy. Anything that
// is not an HTTP-level rejection is treated as a transport failure.
func classifyRemoteError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401:
			return fmt.Errorf("%w: %s", ErrAuthExpired, apiErr.Message)
		case apiErr.Code == 404 || apiErr.Code == 410:
			return fmt.Errorf("%w: %s", ErrNotFound, apiErr.Message)
		case apiErr.Code == 400 || apiErr.Code == 422:
			return fmt.Errorf("%w: %s", ErrValidationRejected, apiErr.Message)
		case apiErr.Code >= 500:
			return fmt.Errorf("%w: http %d", ErrRemoteUnavailable, apiErr.Code)
		default:
			return fmt.Errorf("%w: http %d: %s", ErrRemoteUnavailable, apiErr.Code, apiErr.Message)
		}
	}

	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}

// classifyRefreshError maps a refresh-token grant failure. A 4xx from the
// token endpoint means the grant itself is dead.
func classifyRefreshError(err error) error {
	if err == nil {
		return nil
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if code := retrieveErr.Response.StatusCode; code >= 400 && code < 500 {
			return fmt.Errorf("%w: %s", ErrReauthRequired, retrieveErr.ErrorCode)
		}
		return fmt.Errorf("%w: token endpoint status %d", ErrRemoteUnavailable, retrieveErr.Response.StatusCode)
	}

	return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
}

// SyncWarning reports a non-fatal remote failure. The local write that
// triggered it has already succeeded and is never rolled back.
type SyncWarning struct {
	Op     string
	Detail string
}

func (w *SyncWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Op, w.Detail)
}

func warnf(op string, err error) *SyncWarning {
	return &SyncWarning{Op: op, Detail: err.Error()}
}
