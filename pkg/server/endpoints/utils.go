package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/pashioya/marnix13/pkg/approval"
	"github.com/pashioya/marnix13/pkg/logging"
	"github.com/pashioya/marnix13/pkg/server/store"
	"github.com/pashioya/marnix13/pkg/validation"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// respondWithData writes the {success, data} envelope of listing endpoints.
func respondWithData(w http.ResponseWriter, data interface{}) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"success": true, "data": data})
}

// respondWithFailure maps err to a status code and writes it. Unexpected
// errors are logged and reported with message.
func respondWithFailure(w http.ResponseWriter, r *http.Request, err error, message string) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, verr.ToAPIError())
	case errors.Is(err, approval.ErrForbidden), errors.Is(err, store.ErrNotAdmin):
		respondWithError(w, http.StatusForbidden, ErrorBody{Code: "FORBIDDEN", Message: "Admin privileges required"})
	case errors.Is(err, store.ErrAccountNotFound):
		respondWithError(w, http.StatusNotFound, ErrorBody{Code: "NOT_FOUND", Message: "User not found"})
	case errors.Is(err, store.ErrServiceNotFound):
		respondWithError(w, http.StatusNotFound, ErrorBody{Code: "NOT_FOUND", Message: "Service not found"})
	case errors.Is(err, store.ErrInvalidTransition):
		respondWithError(w, http.StatusConflict, ErrorBody{Code: "CONFLICT", Message: "User is no longer pending approval"})
	case errors.Is(err, store.ErrServiceExists):
		respondWithError(w, http.StatusConflict, ErrorBody{Code: "CONFLICT", Message: "A service with this id already exists"})
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(message)
		respondWithError(w, http.StatusInternalServerError, ErrorBody{Code: "INTERNAL_ERROR", Message: message})
	}
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeJSON reads a JSON body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return validation.NewRequestValidationError("body", "json", fmt.Sprintf("Invalid request body: %v", err))
	}
	return nil
}

// formValues reads keys from a JSON object or a form body.
func formValues(r *http.Request, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	if isJSON(r) {
		var body map[string]interface{}
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		if err := dec.Decode(&body); err != nil {
			return nil, validation.NewRequestValidationError("body", "json", fmt.Sprintf("Invalid request body: %v", err))
		}
		for _, k := range keys {
			if s, ok := body[k].(string); ok {
				values[k] = s
			}
		}
		return values, nil
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return nil, validation.NewRequestValidationError("body", "form", "Invalid form data")
	}
	for _, k := range keys {
		values[k] = r.PostForm.Get(k)
	}
	return values, nil
}
