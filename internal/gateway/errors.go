package gateway

import (
	"errors"
	"fmt"
	"time"

	"github.com/nhle/taskgenius/internal/model"
)

// ErrValidation marks input rejected before any request was sent.
var ErrValidation = errors.New("invalid input")

// connectivityMessage is shown for every transport failure.
const connectivityMessage = "Could not reach the TaskGenius server. Check your connection and try again."

// NetworkError is a transport failure: the request could not be sent or
// the response could not be read.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is a non-2xx response. Message is the server's "error" field,
// or the status text when the body carried none.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Notice maps err to the notice shown to the user. Transport failures get
// a generic connectivity message; server failures show the server's
// message; anything else is shown as-is.
func Notice(err error) model.Notice {
	n := model.Notice{Kind: model.NoticeAlert, CreatedAt: time.Now()}

	var netErr *NetworkError
	var apiErr *APIError
	switch {
	case errors.As(err, &netErr):
		n.Kind = model.NoticeConnectivity
		n.Message = connectivityMessage
	case errors.As(err, &apiErr):
		n.Message = apiErr.Message
	default:
		n.Message = err.Error()
	}
	return n
}
