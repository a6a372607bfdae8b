package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/memozise/memozise/internal/models"
	"github.com/memozise/memozise/internal/services"
	"github.com/memozise/memozise/internal/srs"
)

type deckSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	QuestionType string `json:"questionType"`
	CardCount    int    `json:"cardCount"`
	DueCount     int    `json:"dueCount"`
	CreatedAt    string `json:"createdAt"`
}

type cardView struct {
	models.Card
	DueIn string `json:"dueIn"`
}

func summarize(d models.Deck, now time.Time) deckSummary {
	return deckSummary{
		ID:           d.ID,
		Name:         d.Name,
		QuestionType: d.QuestionType,
		CardCount:    len(d.Cards),
		DueCount:     len(srs.SelectDue(d.Cards, now)),
		CreatedAt:    d.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleCreateDeck(w http.ResponseWriter, r *http.Request) {
	var req services.CreateDeckRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	deck, err := s.DeckService.CreateDeck(r.Context(), userFromContext(r.Context()), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, summarize(*deck, time.Now()))
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	decks, total, err := s.DeckService.ListDecks(r.Context(), userFromContext(r.Context()), limit, offset)
	if err != nil {
		handleError(w, r, err)
		return
	}

	now := time.Now()
	summaries := make([]deckSummary, 0, len(decks))
	for _, d := range decks {
		summaries = append(summaries, summarize(d, now))
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"decks": summaries,
		"total": total,
	})
}

func (s *Server) handleDeckDetail(w http.ResponseWriter, r *http.Request) {
	deck, err := s.DeckService.GetDeck(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}

	now := time.Now()
	cards := make([]cardView, 0, len(deck.Cards))
	for _, c := range deck.Cards {
		cards = append(cards, cardView{Card: c, DueIn: srs.DueDisplay(c.NextReview, now)})
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"deck":  summarize(*deck, now),
		"cards": cards,
	})
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var req services.AddCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.DeckService.AddCard(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id"), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleDeleteDeck(w http.ResponseWriter, r *http.Request) {
	if err := s.DeckService.DeleteDeck(r.Context(), userFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "deleted"})
}
