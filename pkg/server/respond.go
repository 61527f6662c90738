package server

import (
	"encoding/json"
	"errors"
	"net/http"

	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/session"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error string    `json:"error"`
	Code  errs.Code `json:"code,omitempty"`
}

// StatusFor maps an error to the HTTP status the API answers with.
func StatusFor(err error) int {
	if errors.Is(err, session.ErrNotFound) {
		return http.StatusNotFound
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeEmptyAddress, errs.ErrCodeInvalidInput, errs.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errs.ErrCodeNotFound, errs.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errs.ErrCodeNoMorePages:
		return http.StatusConflict
	case errs.ErrCodeProvider, errs.ErrCodeNetworkFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	if errors.Is(err, session.ErrNotFound) {
		code = errs.ErrCodeSessionNotFound
	}
	writeJSON(w, StatusFor(err), errorBody{Error: errs.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
