package handler

// RESPONSE HELPERS:
// Every handler embeds base, which carries the logger and standardises how
// JSON responses and errors are written:
//
//	h.writeJSON(w, http.StatusOK, data)
//	h.writeError(w, r, err)
//
// CONSISTENT ERROR FORMAT:
// Every error response has the same shape, whatever the status:
//
//	{"error": "skill not found: 42"}

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/IsmaelKabore/SkillHub/internal/apperror"
)

// maxBodyBytes caps request bodies. Every payload here is a handful of short
// strings.
const maxBodyBytes = 1 << 20

const internalErrorMessage = "internal server error"

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of responses that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// validate checks the `validate:"..."` tags on request structs. A Validate
// caches struct metadata and is safe for concurrent use, so one instance
// serves every request.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON name ("skill_name"), which is what the
	// client sent, instead of the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type base struct {
	logger *slog.Logger
}

// writeJSON sends a JSON response with the given status code.
//
// HEADER ORDER MATTERS:
// Headers and status must be set before the body. Once Encode writes, the
// headers are on the wire and later changes are silently ignored.
func (b base) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// headers are already sent, all we can do is log
			b.logger.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to its HTTP status and sends it.
//
// ERROR MAPPING (the only place it happens):
//
//	ErrValidation, ErrConflict, ErrInvalidToken → 400
//	ErrUnauthorized, ErrMissingToken            → 401
//	ErrForbidden                                → 403
//	ErrNotFound                                 → 404
//	anything else                               → 500, generic message
//
// errors.Is walks the whole chain, so a service error like
// fmt.Errorf("service/skill: fetching skill 7: %w", apperror.NotFound(...))
// still maps to 404.
func (b base) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	message := internalErrorMessage
	var appErr *apperror.AppError
	if status != http.StatusInternalServerError && errors.As(err, &appErr) {
		message = appErr.Message
	}

	if status == http.StatusInternalServerError {
		// NEVER echo internal details: the raw error can carry SQL, paths or
		// driver messages. The log line has the request id to correlate.
		b.logger.Error("request failed",
			slog.String("requestID", chimiddleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}

	b.writeJSON(w, status, ErrorResponse{Error: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, apperror.ErrConflict),
		errors.Is(err, apperror.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized),
		errors.Is(err, apperror.ErrMissingToken):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON body into dst and checks its validate tags.
//
// Unknown fields are ignored: a client sending {"user_id": 9, ...} to
// POST /skills gets the field dropped, not an error. Ownership always comes
// from the token.
func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperror.ValidationFailed("", "request body is required")
		case errors.As(err, &maxErr):
			return apperror.ValidationFailed("", "request body is too large")
		default:
			return apperror.ValidationFailed("", "invalid JSON body")
		}
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return fmt.Errorf("handler: validating request: %w", err)
	}

	return nil
}

func fieldError(fe validator.FieldError) *apperror.AppError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperror.ValidationFailed(field, field+" is required")
	case "max":
		return apperror.ValidationFailed(field, fmt.Sprintf("%s must be %s characters or less", field, fe.Param()))
	default:
		return apperror.ValidationFailed(field, field+" is invalid")
	}
}
