// backend/src/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/security/validation"
	"github.com/username/finansdefter/backend/src/services"
	"github.com/username/finansdefter/backend/src/utils"
)

const maxJSONBodyBytes = 1 << 20

// statusForError maps service and validation errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, validation.ErrValidationFailed),
		errors.Is(err, services.ErrParsingFailed),
		errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound), errors.Is(err, services.ErrPlanNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateCode):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// sendServiceError reports err to the client. Internal errors are logged and replaced by fallback.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error(fallback, "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, fallback, status)
		return
	}
	utils.SendJSONError(w, err.Error(), status)
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", services.ErrInvalidInput, err)
	}
	return nil
}

// requireUsername writes 401 and returns false when the request carries no user.
func requireUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := GetUsernameFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required or username not found in context", http.StatusUnauthorized)
	}
	return username, ok
}

// sendJSONWithETag writes data as JSON unless the client already holds the same version.
func sendJSONWithETag(w http.ResponseWriter, r *http.Request, data interface{}) {
	log := logger.FromContext(r.Context())

	currentETag, etagErr := utils.GenerateETag(data)
	if etagErr != nil {
		log.Error("Failed to generate ETag", "path", r.URL.Path, "error", etagErr)
	}

	w.Header().Set("Cache-Control", "no-cache, private")

	if etagErr == nil && currentETag != "" {
		quotedETag := fmt.Sprintf("\"%s\"", currentETag)
		w.Header().Set("ETag", quotedETag)
		clientETag := r.Header.Get("If-None-Match")
		for _, cETag := range strings.Split(clientETag, ",") {
			if strings.TrimSpace(cETag) == quotedETag {
				log.Debug("ETag match", "path", r.URL.Path, "etag", currentETag)
				w.WriteHeader(http.StatusNotModified)
				return
			}
		}
	}

	utils.SendJSON(w, data, http.StatusOK)
}
