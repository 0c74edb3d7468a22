package net

import (
	"net/http"

	perr "textguard/internal/platform/errors"
)

// Reply is the JSON envelope every endpoint answers with
type Reply struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// Success builds a reply carrying data; status 0 means 200
func Success(status int, data any, reqID string) Reply {
	if status == 0 {
		status = http.StatusOK
	}
	return Reply{
		StatusCode: status,
		Status:     http.StatusText(status),
		RequestID:  reqID,
		Data:       data,
	}
}

// Failure maps err onto its status and wire code; a nil err is an empty 200
func Failure(err error, reqID string) Reply {
	if err == nil {
		return Success(http.StatusOK, nil, reqID)
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return Reply{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}
