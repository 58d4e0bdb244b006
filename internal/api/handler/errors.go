package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/colormatch/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// validator is implemented by request bodies with required fields.
type validator interface {
	Validate() error
}

// decodeBody decodes a JSON body into dst and runs its Validate method.
// An empty body leaves dst untouched when optional is true.
func decodeBody(r *http.Request, dst any, optional bool) error {
	if optional && r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	if v, ok := dst.(validator); ok {
		if err := v.Validate(); err != nil {
			return NewInvalidRequestError(err.Error())
		}
	}
	return nil
}
