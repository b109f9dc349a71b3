package websocket

import (
	"net/http"

	"github.com/thereayou/connectx/pkg/apperr"
)

const eventError = "error"

type errorData struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

type errorEvent struct {
	Type string    `json:"type"`
	Data errorData `json:"data"`
}

func errorFrame(err error) errorEvent {
	code := apperr.CodeOf(err)
	if apperr.HTTPStatus(err) >= http.StatusInternalServerError {
		code = apperr.CodeInternal
	}
	return errorEvent{Type: eventError, Data: errorData{Code: code, Message: apperr.PublicMessage(err)}}
}
