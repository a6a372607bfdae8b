package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/memozise/memozise/internal/models"
	"github.com/memozise/memozise/internal/session"
	"github.com/memozise/memozise/internal/srs"
)

type sessionView struct {
	DeckID            string       `json:"deckId"`
	DeckName          string       `json:"deckName"`
	State             string       `json:"state"`
	DueCount          int          `json:"dueCount"`
	Position          int          `json:"position"`
	Saving            bool         `json:"saving"`
	HasUnsavedChanges bool         `json:"hasUnsavedChanges"`
	AdvanceDelayMs    int          `json:"advanceDelayMs"`
	Current           *models.Card `json:"currentCard,omitempty"`
	CurrentDueIn      string       `json:"currentDueIn,omitempty"`
}

func (s *Server) viewOf(snap session.Snapshot) sessionView {
	v := sessionView{
		DeckID:            snap.DeckID,
		DeckName:          snap.DeckName,
		State:             string(snap.State),
		DueCount:          snap.DueCount,
		Position:          snap.Position,
		Saving:            snap.Saving,
		HasUnsavedChanges: snap.HasUnsavedChanges,
		AdvanceDelayMs:    s.AdvanceDelayMs,
		Current:           snap.Current,
	}
	if snap.Current != nil {
		v.CurrentDueIn = srs.DueDisplay(snap.Current.NextReview, time.Now())
	}
	return v
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ReviewService.StartSession(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, s.viewOf(snap))
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.ReviewService.SessionState(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, s.viewOf(snap))
}

type reviewRequest struct {
	Rating string `json:"rating"`
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	ack, snap, err := s.ReviewService.SubmitRating(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := map[string]any{"session": s.viewOf(snap)}
	if ack.Skipped {
		resp["skipped"] = true
		resp["notice"] = ack.Notice
	}
	if ack.Update != nil {
		resp["update"] = ack.Update
	}
	respondJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleFinishSession(w http.ResponseWriter, r *http.Request) {
	if err := s.ReviewService.FinishSession(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleDiscardSession(w http.ResponseWriter, r *http.Request) {
	if err := s.ReviewService.DiscardSession(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "discarded"})
}

type signalRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	var req signalRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ReviewService.Signal(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), req.Reason); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusAccepted, map[string]string{"status": "accepted"})
}
