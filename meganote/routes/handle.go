package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"meganote/meganote/middlewares"
	"meganote/meganote/types"
	"meganote/meganote/utils/apperrors"
	"meganote/meganote/utils/logging"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// generic wrapper to reduce boilerplate; errors are mapped to their status
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, status, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		logging.ErrorLogger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("route", logging.RoutePattern(r)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeJSON(w, status, map[string]string{"message": apperrors.PublicMessage(err)})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is empty", apperrors.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body", apperrors.ErrInvalidInput)
	}
	return nil
}

// identity returns the caller resolved by the access gate.
func identity(r *http.Request) (types.Identity, error) {
	id, ok := middlewares.IdentityFrom(r.Context())
	if !ok {
		return types.Identity{}, apperrors.ErrUnauthenticated
	}
	return id, nil
}
