package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/memozise/memozise/internal/logger"
	"github.com/memozise/memozise/internal/models"
	"github.com/memozise/memozise/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

type deckRepository struct {
	db *sql.DB
}

// NewDeckRepository creates a new DeckRepository implementation
func NewDeckRepository(db *sql.DB) repository.DeckRepository {
	return &deckRepository{db: db}
}

func (r *deckRepository) Insert(ctx context.Context, d models.Deck) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("inserting deck: id=%s, user_id=%s, cards=%d", d.ID, d.UserID, len(d.Cards))

	cardsJSON, err := json.Marshal(d.Cards)
	if err != nil {
		log.Error("failed to marshal cards: %v", err)
		return fmt.Errorf("marshal cards: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO decks (id, user_id, name, question_type, cards_json, created_at)
VALUES (?, ?, ?, ?, ?, ?)
`, d.ID, d.UserID, d.Name, d.QuestionType, string(cardsJSON), d.CreatedAt)
	if err != nil {
		log.Error("failed to insert deck: %v", err)
		return err
	}
	return nil
}

func (r *deckRepository) Get(ctx context.Context, id string) (*models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("fetching deck: id=%s", id)

	var d models.Deck
	var cardsJSON string
	err := r.db.QueryRowContext(ctx, `
SELECT id, user_id, name, question_type, cards_json, created_at
FROM decks
WHERE id = ?
`, id).Scan(&d.ID, &d.UserID, &d.Name, &d.QuestionType, &cardsJSON, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("deck not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get deck: %v", err)
		return nil, err
	}

	cards, err := decodeCards(cardsJSON, d.ID)
	if err != nil {
		log.Error("failed to decode cards for deck %s: %v", d.ID, err)
		return nil, err
	}
	d.Cards = cards
	return &d, nil
}

func (r *deckRepository) List(ctx context.Context, filter models.DeckFilter) ([]models.Deck, error) {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("listing decks: user_id=%s, limit=%d, offset=%d", filter.UserID, filter.Limit, filter.Offset)

	query := sqlBuilder.
		Select("id", "user_id", "name", "question_type", "cards_json", "created_at").
		From("decks").
		OrderBy("created_at DESC", "id")
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to query decks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var decks []models.Deck
	for rows.Next() {
		var d models.Deck
		var cardsJSON string
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.QuestionType, &cardsJSON, &d.CreatedAt); err != nil {
			log.Error("failed to scan deck row: %v", err)
			return nil, err
		}
		cards, err := decodeCards(cardsJSON, d.ID)
		if err != nil {
			log.Error("failed to decode cards for deck %s: %v", d.ID, err)
			return nil, err
		}
		d.Cards = cards
		decks = append(decks, d)
	}
	log.Debug("found %d decks", len(decks))
	return decks, rows.Err()
}

func (r *deckRepository) Count(ctx context.Context, filter models.DeckFilter) (int, error) {
	query := sqlBuilder.Select("COUNT(*)").From("decks")
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"user_id": filter.UserID})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count)
	return count, err
}

func (r *deckRepository) UpdateCards(ctx context.Context, id string, cards []models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("updating deck cards: id=%s, cards=%d", id, len(cards))

	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		log.Error("failed to marshal cards: %v", err)
		return fmt.Errorf("marshal cards: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE decks SET cards_json = ? WHERE id = ?`, string(cardsJSON), id)
	if err != nil {
		log.Error("failed to update deck cards: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *deckRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("deck_repo")
	log.Debug("deleting deck: id=%s", id)

	_, err := r.db.ExecContext(ctx, `DELETE FROM decks WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete deck: %v", err)
	}
	return err
}

// decodeCards unmarshals a stored card payload and normalizes it. This is the
// single ingestion boundary for heterogeneous timestamp shapes.
func decodeCards(cardsJSON, deckID string) ([]models.Card, error) {
	var cards []models.Card
	if err := json.Unmarshal([]byte(cardsJSON), &cards); err != nil {
		return nil, fmt.Errorf("decode cards: %w", err)
	}
	return models.NormalizeCards(cards, deckID), nil
}
