package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lexpage/landing-service/internal/domain"
)

// ChatRepository manages chat sessions and their ordered messages.
type ChatRepository interface {
	CreateSession(ctx context.Context, session *domain.ChatSession) error
	GetSession(ctx context.Context, id string) (*domain.ChatSession, error)
	AppendMessage(ctx context.Context, msg *domain.ChatMessage) error
	ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
}

type chatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository builds repository.
func NewChatRepository(pool *pgxpool.Pool) ChatRepository {
	return &chatRepository{pool: pool}
}

func (r *chatRepository) CreateSession(ctx context.Context, session *domain.ChatSession) error {
	const query = `
        INSERT INTO chat_sessions (id, user_id)
        VALUES ($1, $2)
        RETURNING created_at`
	return mapPgError(r.pool.QueryRow(ctx, query, session.ID, session.UserID).Scan(&session.CreatedAt))
}

func (r *chatRepository) GetSession(ctx context.Context, id string) (*domain.ChatSession, error) {
	const query = `SELECT id, user_id, created_at FROM chat_sessions WHERE id=$1`

	var session domain.ChatSession
	if err := r.pool.QueryRow(ctx, query, id).Scan(&session.ID, &session.UserID, &session.CreatedAt); err != nil {
		return nil, mapPgError(err)
	}
	return &session, nil
}

func (r *chatRepository) AppendMessage(ctx context.Context, msg *domain.ChatMessage) error {
	const query = `
        INSERT INTO chat_messages (session_id, role, content, tokens)
        VALUES ($1, $2, $3, $4)
        RETURNING id::text, created_at`
	return mapPgError(r.pool.QueryRow(ctx, query,
		msg.SessionID,
		msg.Role,
		msg.Content,
		msg.Tokens,
	).Scan(&msg.ID, &msg.CreatedAt))
}

func (r *chatRepository) ListMessages(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	const query = `
        SELECT id::text, session_id, role, content, tokens, created_at
        FROM chat_messages WHERE session_id=$1 ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.ChatMessage{}
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.Role,
			&msg.Content,
			&msg.Tokens,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
