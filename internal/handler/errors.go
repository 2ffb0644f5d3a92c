package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/brdigitals4u/ttm-eld-backend/internal/domain"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// validate is the package-wide request validator. Field names in messages use
// the struct's json tags so clients see the names they actually sent.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "-" || tag == "" {
			return fld.Name
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		return tag
	})
	return v
}()

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain sentinel errors to HTTP statuses. The 4xx body
// always carries the specific reason string so the driver-facing app can show
// the regulatory cause, not a generic failure.
func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", unwrapMessage(err))
	case errors.Is(err, domain.ErrCertifiedLogLock):
		writeError(w, http.StatusConflict, "certified_log_lock", unwrapMessage(err))
	case errors.Is(err, domain.ErrAlreadyCertified):
		writeError(w, http.StatusConflict, "already_certified", unwrapMessage(err))
	case errors.Is(err, domain.ErrEmptySignature), errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", unwrapMessage(err))
	case errors.Is(err, domain.ErrClockUnavailable):
		writeError(w, http.StatusServiceUnavailable, "clock_unavailable", unwrapMessage(err))
	default:
		// Never leak internals in the body; the slog middleware records err.
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// unwrapMessage strips the "service.Component.Op: " and "repo.Component.Op: "
// prefixes added at each layer boundary, leaving the human-readable cause.
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for strings.HasPrefix(msg, "service.") || strings.HasPrefix(msg, "repo.") {
		i := strings.Index(msg, ": ")
		if i < 0 {
			break
		}
		msg = msg[i+2:]
	}
	return msg
}

// decodeBody parses the request body into dst and validates it.
// Failures are reported as domain.ErrValidation so respondError maps them to 422.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed %s validation", domain.ErrValidation, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: invalid request body", domain.ErrValidation)
	}
	return nil
}

// driverIDParam parses the {driverID} path parameter.
func driverIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "driverID"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: driverID must be a UUID", domain.ErrValidation)
	}
	return id, nil
}

// dateParam parses the {date} path parameter (YYYY-MM-DD).
func dateParam(r *http.Request) (int, time.Month, int, error) {
	d, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation)
	}
	return d.Year(), d.Month(), d.Day(), nil
}
