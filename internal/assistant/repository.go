package assistant

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for chat messages.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListMessages returns the full transcript for a user, oldest first.
func (r *Repository) ListMessages(ctx context.Context, userID string) ([]Message, error) {
	const query = `
		SELECT id, user_id, role, content, created_at
		FROM messages
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// AppendMessage stores one transcript entry.
func (r *Repository) AppendMessage(ctx context.Context, userID string, role Role, content string) (*Message, error) {
	msg := Message{ID: uuid.NewString(), UserID: userID, Role: role, Content: content}

	const query = `
		INSERT INTO messages (id, user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at`

	if err := r.pool.QueryRow(ctx, query, msg.ID, msg.UserID, msg.Role, msg.Content).Scan(&msg.CreatedAt); err != nil {
		return nil, err
	}
	return &msg, nil
}
