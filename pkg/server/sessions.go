package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	errs "github.com/matzehuels/walletgraph/pkg/errors"
	"github.com/matzehuels/walletgraph/pkg/explorer"
	"github.com/matzehuels/walletgraph/pkg/graph"
)

// resultBody reports an expand or load-more outcome.
type resultBody struct {
	Kind     string        `json:"kind"`
	NewNodes int           `json:"newNodes"`
	Error    string        `json:"error,omitempty"`
	View     explorer.View `json:"view"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, map[string]string{"id": sess.ID})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address string `json:"address"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	ctrl := sessionFrom(r).Controller
	if err := ctrl.Submit(r.Context(), req.Address); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ctrl.View())
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	ctrl := sessionFrom(r).Controller
	ctrl.Clear()
	writeJSON(w, http.StatusOK, ctrl.View())
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	ctrl := sessionFrom(r).Controller
	s.writeResult(w, ctrl, ctrl.ExpandIfNeeded(r.Context(), chi.URLParam(r, "address")))
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	ctrl := sessionFrom(r).Controller
	s.writeResult(w, ctrl, ctrl.LoadMore(r.Context(), chi.URLParam(r, "address")))
}

func (s *Server) writeResult(w http.ResponseWriter, ctrl *explorer.Controller, res explorer.Result) {
	body := resultBody{Kind: res.Kind.String(), NewNodes: res.NewNodes, View: ctrl.View()}
	status := http.StatusOK
	if res.Err != nil {
		body.Error = errs.UserMessage(res.Err)
		status = StatusFor(res.Err)
	}
	writeJSON(w, status, body)
}

func (s *Server) handleRelayout(w http.ResponseWriter, r *http.Request) {
	ctrl := sessionFrom(r).Controller
	ctrl.Relayout()
	writeJSON(w, http.StatusOK, ctrl.View())
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	var pos graph.Position
	if err := decodeJSON(w, r, &pos); err != nil {
		writeError(w, err)
		return
	}

	ctrl := sessionFrom(r).Controller
	nodeID := chi.URLParam(r, "nodeID")
	if !ctrl.MoveNode(nodeID, pos) {
		writeError(w, errs.New(errs.ErrCodeNotFound, "node %s not in graph", nodeID))
		return
	}
	writeJSON(w, http.StatusOK, ctrl.View())
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	ctrl := sessionFrom(r).Controller
	ctrl.Select(req.ID)
	writeJSON(w, http.StatusOK, ctrl.View())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Controller.View())
}

func (s *Server) handleDetails(w http.ResponseWriter, r *http.Request) {
	d, err := sessionFrom(r).Controller.Details(r.Context(), chi.URLParam(r, "address"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, sessionFrom(r).Log.Entries())
}
