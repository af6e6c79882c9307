package utils

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// ErrorResponse is the wire shape of every error the API returns
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSONResponse writes v as a JSON response with the given status code
func WriteJSONResponse(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Encoding failed after the header was sent; nothing left to do
		// but log via the caller's recovery path.
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// WriteSuccessResponse writes a 200 response
func WriteSuccessResponse(w http.ResponseWriter, v interface{}) {
	WriteJSONResponse(w, http.StatusOK, v)
}

// WriteCreatedResponse writes a 201 response
func WriteCreatedResponse(w http.ResponseWriter, v interface{}) {
	WriteJSONResponse(w, http.StatusCreated, v)
}

// WriteErrorResponse writes {"error": message} with the given status code
func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	WriteJSONResponse(w, statusCode, ErrorResponse{Error: message})
}

// WriteBadRequestResponse writes a 400 error
func WriteBadRequestResponse(w http.ResponseWriter, message string) {
	WriteErrorResponse(w, http.StatusBadRequest, message)
}

// WriteUnauthorizedResponse writes the uniform 401 body. Every
// unauthenticated request gets the same response regardless of cause.
func WriteUnauthorizedResponse(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
}

// WriteNotFoundResponse writes a 404 error. Used both for genuinely missing
// entities and for entities owned by another user, so callers cannot probe
// which ids exist.
func WriteNotFoundResponse(w http.ResponseWriter, message string) {
	WriteErrorResponse(w, http.StatusNotFound, message)
}

// WriteConflictResponse writes a 409 error
func WriteConflictResponse(w http.ResponseWriter, message string) {
	WriteErrorResponse(w, http.StatusConflict, message)
}

// WriteInternalServerErrorResponse writes a 500 error. The message must be
// the generic operation description; internal detail stays in the logs.
func WriteInternalServerErrorResponse(w http.ResponseWriter, message string) {
	WriteErrorResponse(w, http.StatusInternalServerError, message)
}

// ParseJSONBody decodes a JSON request body into v
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// GetQueryParam returns a query parameter or a default when absent
func GetQueryParam(r *http.Request, key, defaultValue string) string {
	if value := r.URL.Query().Get(key); value != "" {
		return value
	}
	return defaultValue
}

// GetQueryInt returns an integer query parameter, falling back to the
// default when absent or unparsable
func GetQueryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
