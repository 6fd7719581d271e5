// Package request decodes and validates JSON request bodies, answering
// with a 400 on its own when the body is unusable.
package request

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	resp "github.com/YusovID/storefront/lib/api/response"
	"github.com/YusovID/storefront/lib/logger/sl"
)

const MaxSessionIDLen = 128

var validate = validator.New(validator.WithRequiredStructEnabled())

// SessionID returns the sessionID URL parameter. An empty or over-long ID
// is answered with a 400 and SessionID returns false.
func SessionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "sessionID")
	if id == "" || len(id) > MaxSessionIDLen {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Error("invalid session id"))

		return "", false
	}

	return id, true
}

// Decode reads the body of r into dst and validates it. On failure the
// error response is already written and Decode returns false.
func Decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		log.Error("failed to decode json body", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, resp.Error("failed to decode request"))

		return false
	}

	return Validate(w, r, log, dst)
}

// Validate checks v against its validate tags.
func Validate(w http.ResponseWriter, r *http.Request, log *slog.Logger, v any) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}

	log.Info("invalid request", sl.Err(err))

	render.Status(r, http.StatusBadRequest)

	var validateErr validator.ValidationErrors
	if errors.As(err, &validateErr) {
		render.JSON(w, r, resp.ValidationError(validateErr))
	} else {
		render.JSON(w, r, resp.Error("invalid request"))
	}

	return false
}
