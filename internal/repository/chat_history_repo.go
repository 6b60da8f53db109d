package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"brewhaven-backend/internal/models"
)

type ChatHistoryRepo struct {
	pool *pgxpool.Pool
}

func NewChatHistoryRepo(pool *pgxpool.Pool) *ChatHistoryRepo {
	return &ChatHistoryRepo{pool: pool}
}

// Save stores one turn as a single paired row. BotResponse may be empty if
// the reply was never recorded; it is stored as NULL in that case.
func (r *ChatHistoryRepo) Save(ctx context.Context, userID uuid.UUID, message, botResponse string) (*models.ChatExchange, error) {
	ex := &models.ChatExchange{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
	}
	if botResponse != "" {
		ex.BotResponse = &botResponse
	}

	err := r.pool.QueryRow(ctx, `
		INSERT INTO chat_history (id, user_id, message, bot_response)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		ex.ID, ex.UserID, ex.Message, ex.BotResponse,
	).Scan(&ex.CreatedAt)
	if err != nil {
		return nil, err
	}
	return ex, nil
}

// ListRecent returns the newest limit exchanges for the user in ascending
// created_at order, ready for oldest-first rendering.
func (r *ChatHistoryRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatExchange, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, message, bot_response, created_at FROM (
			SELECT id, user_id, message, bot_response, created_at
			FROM chat_history
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exchanges := make([]models.ChatExchange, 0)
	for rows.Next() {
		var ex models.ChatExchange
		if err := rows.Scan(&ex.ID, &ex.UserID, &ex.Message, &ex.BotResponse, &ex.CreatedAt); err != nil {
			return nil, err
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, rows.Err()
}

func (r *ChatHistoryRepo) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM chat_history").Scan(&count)
	return count, err
}
