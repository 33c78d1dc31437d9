package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ariefcatur/haritham-market/internal/backend"
	"github.com/ariefcatur/haritham-market/internal/catalog"
	"github.com/ariefcatur/haritham-market/internal/forms"
	"github.com/ariefcatur/haritham-market/internal/imagehost"
	"github.com/ariefcatur/haritham-market/internal/market"
	"github.com/ariefcatur/haritham-market/internal/session"
	"github.com/ariefcatur/haritham-market/internal/workflow"
)

const (
	msgNotLoggedIn = "User not logged in."
	msgNetwork     = "Network error. Please try again."
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// writeError maps a service error onto a status code and a user-facing
// message. Anything unexpected is logged and reported as a 500.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var (
		ve *forms.ValidationError
		ae *backend.APIError
		te *backend.TransportError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Fields: ve.Fields})
	case errors.Is(err, session.ErrNotLoggedIn):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: msgNotLoggedIn})
	case errors.As(err, &ae):
		writeJSON(w, ae.StatusCode, errorBody{Error: ae.Message})
	case errors.As(err, &te):
		log.Error("marketplace unreachable", "op", te.Op, "err", te.Err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: msgNetwork})
	case errors.Is(err, imagehost.ErrUploadFailed):
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "Image upload failed. Please try again."})
	case errors.Is(err, catalog.ErrNotOwner),
		errors.Is(err, market.ErrTransitionNotAllowed),
		errors.Is(err, market.ErrTerminal):
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	case errors.Is(err, workflow.ErrOrderNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, workflow.ErrUpdateInFlight),
		errors.Is(err, catalog.ErrOutOfStock),
		errors.Is(err, catalog.ErrQuantityOutOfRange),
		errors.Is(err, catalog.ErrProductUnavailable):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, catalog.ErrImageRequired),
		errors.Is(err, catalog.ErrConfirmationRequired),
		errors.Is(err, market.ErrUnknownStatus):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	default:
		log.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

const maxJSONBody = 1 << 20

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		return &forms.ValidationError{Fields: map[string]string{"body": "invalid json"}}
	}
	return nil
}
