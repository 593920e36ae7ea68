package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/maheshrc27/postboard/internal/models"
)

type ClientRepository interface {
	UpsertPage(ctx context.Context, tx *sql.Tx, c *models.Client) (*models.Client, error)
	Count(ctx context.Context, userID string) (int, error)
	GetByID(ctx context.Context, userID, id string) (*models.Client, error)
	ListByUserID(ctx context.Context, userID string) ([]*models.Client, error)
	UpdateDisplayName(ctx context.Context, userID, id, name string) error
	UpdateColor(ctx context.Context, userID, id, color string) error
}

type clientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) ClientRepository {
	return &clientRepository{db: db}
}

const clientColumns = `id, user_id, name, display_name, facebook_page_id, instagram_account_id,
	avatar, color, is_active, position, access_token, created_at, updated_at`

// UpsertPage inserts a page or refreshes its name, token and linked
// accounts. Color, display name and position survive re-syncs.
func (r *clientRepository) UpsertPage(ctx context.Context, tx *sql.Tx, c *models.Client) (*models.Client, error) {
	query := `
		INSERT INTO clients (
			id,
			user_id,
			name,
			facebook_page_id,
			instagram_account_id,
			avatar,
			color,
			is_active,
			position,
			access_token
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, facebook_page_id) DO UPDATE
		SET name = EXCLUDED.name,
			instagram_account_id = EXCLUDED.instagram_account_id,
			avatar = EXCLUDED.avatar,
			access_token = EXCLUDED.access_token,
			is_active = TRUE,
			updated_at = CURRENT_TIMESTAMP
		RETURNING ` + clientColumns

	args := []interface{}{
		c.ID,
		c.UserID,
		c.Name,
		c.FacebookPageID,
		c.InstagramAccountID,
		c.Avatar,
		c.Color,
		c.IsActive,
		c.Position,
		c.AccessToken,
	}

	var row *sql.Row
	if tx != nil {
		row = tx.QueryRowContext(ctx, query, args...)
	} else {
		row = r.db.QueryRowContext(ctx, query, args...)
	}

	saved, err := scanClient(row)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return saved, nil
}

func (r *clientRepository) Count(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return n, nil
}

func (r *clientRepository) GetByID(ctx context.Context, userID, id string) (*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1 AND id = $2`

	c, err := scanClient(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return c, nil
}

func (r *clientRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE user_id = $1 ORDER BY position ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) UpdateDisplayName(ctx context.Context, userID, id, name string) error {
	query := `
		UPDATE clients
		SET display_name = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND id = $2
	`
	return r.execOne(ctx, query, userID, id, name)
}

func (r *clientRepository) UpdateColor(ctx context.Context, userID, id, color string) error {
	query := `
		UPDATE clients
		SET color = $3,
			updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1 AND id = $2
	`
	return r.execOne(ctx, query, userID, id, color)
}

func (r *clientRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrNoRecord
	}
	return nil
}

func scanClient(row rowScanner) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.DisplayName,
		&c.FacebookPageID,
		&c.InstagramAccountID,
		&c.Avatar,
		&c.Color,
		&c.IsActive,
		&c.Position,
		&c.AccessToken,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
