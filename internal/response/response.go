package response

import (
	"net/http"

	"github.com/balasutharsan1247/student-fitness-app/internal"
)

type APIResponse struct {
	Data  interface{}        `json:"data,omitempty"`
	Meta  map[string]any     `json:"meta,omitempty"`
	Error *internal.AppError `json:"error,omitempty"`
}

func Success(data interface{}, meta map[string]any) APIResponse {
	return APIResponse{Data: data, Meta: meta, Error: nil}
}

func NewAppError(status int, msg string) APIResponse {
	return APIResponse{Error: internal.NewAppError(status, msg)}
}

// FromError maps err to its HTTP status and an envelope. Server errors are
// reported with a generic message.
func FromError(err error) (int, APIResponse) {
	status := internal.StatusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		msg = http.StatusText(status)
	}
	return status, NewAppError(status, msg)
}
