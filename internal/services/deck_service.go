package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apperrors "github.com/memozise/memozise/internal/errors"
	"github.com/memozise/memozise/internal/logger"
	"github.com/memozise/memozise/internal/models"
	"github.com/memozise/memozise/internal/repository"
)

// CreateDeckRequest is the payload for creating a deck, optionally seeded
// with an initial batch of cards.
type CreateDeckRequest struct {
	Name         string           `json:"name" validate:"required,max=200"`
	QuestionType string           `json:"questionType" validate:"omitempty,oneof=text multiple-choice"`
	Cards        []AddCardRequest `json:"cards" validate:"omitempty,dive"`
}

// AddCardRequest is the payload for authoring one card.
type AddCardRequest struct {
	Question string   `json:"question" validate:"required"`
	Answer   string   `json:"answer" validate:"required"`
	Options  []string `json:"options" validate:"omitempty,max=8,dive,required"`
}

// DeckService handles deck and card authoring
type DeckService interface {
	CreateDeck(ctx context.Context, userID string, req CreateDeckRequest) (*models.Deck, error)
	ListDecks(ctx context.Context, userID string, limit, offset int) ([]models.Deck, int, error)
	GetDeck(ctx context.Context, userID, deckID string) (*models.Deck, error)
	AddCard(ctx context.Context, userID, deckID string, req AddCardRequest) (*models.Card, error)
	DeleteDeck(ctx context.Context, userID, deckID string) error
}

type deckService struct {
	repo     repository.DeckRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewDeckService creates a new DeckService
func NewDeckService(repo repository.DeckRepository, now func() time.Time) DeckService {
	return &deckService{
		repo:     repo,
		validate: validator.New(),
		now:      now,
	}
}

func (s *deckService) CreateDeck(ctx context.Context, userID string, req CreateDeckRequest) (*models.Deck, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	now := s.now()
	deck := models.Deck{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		QuestionType: req.QuestionType,
		CreatedAt:    now,
	}
	if deck.QuestionType == "" {
		deck.QuestionType = "text"
	}
	for _, c := range req.Cards {
		deck.Cards = append(deck.Cards, models.NewCard(uuid.NewString(), c.Question, c.Answer, c.Options, now))
	}

	if err := s.repo.Insert(ctx, deck); err != nil {
		log.Error("failed to insert deck: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	log.Info("deck created: id=%s cards=%d", deck.ID, len(deck.Cards))
	return &deck, nil
}

func (s *deckService) ListDecks(ctx context.Context, userID string, limit, offset int) ([]models.Deck, int, error) {
	log := logger.FromContext(ctx)

	filter := models.DeckFilter{UserID: userID, Limit: limit, Offset: offset}
	decks, err := s.repo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list decks: %v", err)
		return nil, 0, apperrors.NewInternalError(err)
	}
	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count decks: %v", err)
		return nil, 0, apperrors.NewInternalError(err)
	}
	return decks, total, nil
}

func (s *deckService) GetDeck(ctx context.Context, userID, deckID string) (*models.Deck, error) {
	deck, err := s.repo.Get(ctx, deckID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get deck: %v", err)
		return nil, apperrors.NewInternalError(err)
	}
	if deck == nil || deck.UserID != userID {
		return nil, apperrors.NewNotFoundError("deck", deckID)
	}
	return deck, nil
}

func (s *deckService) AddCard(ctx context.Context, userID, deckID string, req AddCardRequest) (*models.Card, error) {
	log := logger.FromContext(ctx)

	if err := s.validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	deck, err := s.GetDeck(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	card := models.NewCard(uuid.NewString(), req.Question, req.Answer, req.Options, s.now())
	cards := append(deck.Cards, card)

	if err := s.repo.UpdateCards(ctx, deckID, cards); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("deck", deckID)
		}
		log.Error("failed to add card: %v", err)
		return nil, apperrors.NewInternalError(err)
	}

	log.Info("card added: deck=%s card=%s", deckID, card.UniqueID)
	return &card, nil
}

func (s *deckService) DeleteDeck(ctx context.Context, userID, deckID string) error {
	log := logger.FromContext(ctx)

	if _, err := s.GetDeck(ctx, userID, deckID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, deckID); err != nil {
		log.Error("failed to delete deck: %v", err)
		return apperrors.NewInternalError(err)
	}
	log.Info("deck deleted: id=%s", deckID)
	return nil
}

// validationError flattens validator output into a single field-level error,
// matching the error shape used everywhere else.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return apperrors.NewValidationError(strings.ToLower(first.Field()), "failed on the '"+first.Tag()+"' rule")
	}
	return apperrors.NewBadRequestError(err.Error())
}
