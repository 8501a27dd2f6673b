package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/validator"
)

// decodeJSON decodes and validates the request body into dst. On failure it
// writes a 400 response and returns false. With allowEmpty an absent body
// leaves dst at its zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	err := validator.DecodeAndValidate(w, r, dst)
	if allowEmpty && errors.Is(err, io.EOF) {
		err = validator.Validate(dst)
	}
	if err == nil {
		return true
	}

	httputil.WriteValidationError(w, err)
	return false
}

// optionalID parses a positive integer query value. Anything else yields nil.
func optionalID(v string) *int64 {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
