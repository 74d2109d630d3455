package convrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/miccx-24/boardinghousebackend/model"
)

type Repo interface {
	GetOrCreate(ctx context.Context, tenantID, landlordID int64) (*model.Conversation, error)
	ByID(ctx context.Context, id int64) (*model.Conversation, error)
	ListForLandlord(ctx context.Context, landlordID int64) ([]model.Conversation, error)
	InsertMessage(ctx context.Context, tx *sql.Tx, m *model.Message) error
	TouchLastMessage(ctx context.Context, tx *sql.Tx, conversationID int64, at time.Time) error
	Messages(ctx context.Context, conversationID int64) ([]model.Message, error)
	MarkRead(ctx context.Context, conversationID, readerID int64) (int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db} }

const convCols = `id, tenant_id, landlord_id, status, last_message_at, created_at`

func scanConv(row interface{ Scan(...any) error }) (*model.Conversation, error) {
	c := &model.Conversation{}
	err := row.Scan(&c.ID, &c.TenantID, &c.LandlordID, &c.Status, &c.LastMessageAt, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repo) GetOrCreate(ctx context.Context, tenantID, landlordID int64) (*model.Conversation, error) {
	const q = `
INSERT INTO conversations (tenant_id, landlord_id, status)
VALUES ($1,$2,'active')
ON CONFLICT (tenant_id, landlord_id) DO UPDATE SET status = conversations.status
RETURNING ` + convCols
	return scanConv(r.db.QueryRowContext(ctx, q, tenantID, landlordID))
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Conversation, error) {
	return scanConv(r.db.QueryRowContext(ctx,
		`SELECT `+convCols+` FROM conversations WHERE id=$1`, id))
}

func (r *repo) ListForLandlord(ctx context.Context, landlordID int64) ([]model.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+convCols+` FROM conversations
WHERE landlord_id=$1
ORDER BY last_message_at DESC`, landlordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Conversation
	for rows.Next() {
		c, err := scanConv(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *repo) InsertMessage(ctx context.Context, tx *sql.Tx, m *model.Message) error {
	return tx.QueryRowContext(ctx, `
INSERT INTO messages (conversation_id, sender_id, content)
VALUES ($1,$2,$3)
RETURNING id, read, created_at`,
		m.ConversationID, m.SenderID, m.Content,
	).Scan(&m.ID, &m.Read, &m.CreatedAt)
}

func (r *repo) TouchLastMessage(ctx context.Context, tx *sql.Tx, conversationID int64, at time.Time) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE conversations SET last_message_at=$2 WHERE id=$1`, conversationID, at)
	return err
}

func (r *repo) Messages(ctx context.Context, conversationID int64) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, conversation_id, sender_id, content, read, created_at
FROM messages
WHERE conversation_id=$1
ORDER BY created_at ASC`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repo) MarkRead(ctx context.Context, conversationID, readerID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
UPDATE messages SET read=true
WHERE conversation_id=$1 AND sender_id <> $2 AND read=false`, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
