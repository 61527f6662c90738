package proxy

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/txgraph"
)

// Register mounts GET /api/wallet/{address} on r.
func (s *Service) Register(r chi.Router) {
	r.Get("/api/wallet/{address}", s.ServeWallet)
}

// ServeWallet answers one unified page request. Query parameters: limit
// (default 10, clamped to [1, 50]), cursor, and refresh=true to bypass the
// page cache.
func (s *Service) ServeWallet(w http.ResponseWriter, r *http.Request) {
	address, err := errs.ValidateAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: errs.UserMessage(err)})
		return
	}

	q := r.URL.Query()
	limit := ParseLimit(q.Get("limit"))
	refresh, _ := strconv.ParseBool(q.Get("refresh"))

	page, err := s.Page(r.Context(), address, limit, q.Get("cursor"), refresh)
	if err != nil {
		status, body := errorResponse(err)
		writeJSON(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ParseLimit reads the limit query parameter. Missing or malformed values
// give txgraph.DefaultLimit; numbers are clamped to [1, txgraph.MaxLimit].
func ParseLimit(raw string) int {
	if raw == "" {
		return txgraph.DefaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return txgraph.DefaultLimit
	}
	return max(1, min(n, txgraph.MaxLimit))
}

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func errorResponse(err error) (int, errorBody) {
	var ue *UpstreamError
	switch {
	case errors.As(err, &ue):
		return http.StatusBadGateway, errorBody{Error: "provider error (" + ue.Stage + ")", Detail: ue.Detail}
	case errs.Is(err, errs.ErrCodeInvalidInput):
		return http.StatusBadRequest, errorBody{Error: errs.UserMessage(err)}
	default:
		return http.StatusInternalServerError, errorBody{Error: "Server error", Detail: err.Error()}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
