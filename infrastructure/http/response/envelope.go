package response

import (
	"encoding/json"
	"net/http"

	"github.com/unifind/unifind/domain/apperror"
)

type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the catalog code so clients can tell failure kinds apart.
type ErrorBody struct {
	Code    apperror.ErrorCode `json:"code"`
	Details string             `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(envelope)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, Envelope{Status: true, Message: message, Data: data})
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, Envelope{Status: false, Message: message})
}

// AppError renders err with the status and code from the error catalog.
// Internal details never reach the client.
func AppError(w http.ResponseWriter, err error) {
	appErr := apperror.From(err)
	body := &ErrorBody{Code: appErr.Code}
	if appErr.Code == apperror.ErrCodeValidation {
		body.Details = appErr.Details
	}
	WriteJSON(w, appErr.Status(), Envelope{Status: false, Message: appErr.Message, Error: body})
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func TooManyRequests(w http.ResponseWriter) {
	AppError(w, apperror.ErrRateLimitExceeded)
}
