package validator

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/unifind/unifind/domain/apperror"
)

const maxBodyBytes = 1 << 20

// DecodeJSON reads a single JSON object from the request body into dst.
// Unknown fields are ignored.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return apperror.WithMessage(apperror.ErrBadRequest, "Request body is required")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.WithMessage(apperror.ErrBadRequest, "Request body is required")
		}
		return apperror.WithMessage(apperror.ErrBadRequest, "Invalid request body")
	}
	return nil
}
