package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(userMiddleware)

		r.Post("/decks", s.handleCreateDeck)
		r.Get("/decks", s.handleListDecks)
		r.Get("/decks/{id}", s.handleDeckDetail)
		r.Post("/decks/{id}/cards", s.handleAddCard)
		r.Post("/decks/{id}/delete", s.handleDeleteDeck)

		r.Post("/decks/{id}/session", s.handleStartSession)
		r.Get("/decks/{id}/session", s.handleSessionState)
		r.Post("/decks/{id}/session/review", s.handleReview)
		r.Post("/decks/{id}/session/finish", s.handleFinishSession)
		r.Post("/decks/{id}/session/discard", s.handleDiscardSession)
		r.Post("/decks/{id}/session/signal", s.handleSignal)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
