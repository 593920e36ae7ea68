package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/maheshrc27/postboard/internal/models"
)

type SelectionRepository interface {
	GetSelection(ctx context.Context, userID string) (*models.ClientSelection, error)
	SetSelection(ctx context.Context, sel *models.ClientSelection) error
}

type selectionRepository struct {
	db *sql.DB
}

func NewSelectionRepository(db *sql.DB) SelectionRepository {
	return &selectionRepository{db: db}
}

// GetSelection never returns nil for a known user: an empty selection means
// every client is in scope.
func (r *selectionRepository) GetSelection(ctx context.Context, userID string) (*models.ClientSelection, error) {
	sel := &models.ClientSelection{UserID: userID}

	err := r.db.QueryRowContext(ctx,
		`SELECT client_id FROM client_filters WHERE user_id = $1`, userID,
	).Scan(&sel.Filter)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.Info(err.Error())
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT client_id FROM selected_clients WHERE user_id = $1 ORDER BY client_id`, userID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		sel.ClientIDs = append(sel.ClientIDs, id)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return sel, nil
}

// SetSelection replaces the stored selection in one transaction.
func (r *selectionRepository) SetSelection(ctx context.Context, sel *models.ClientSelection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM selected_clients WHERE user_id = $1`, sel.UserID); err != nil {
		slog.Info(err.Error())
		return err
	}

	for _, id := range sel.ClientIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO selected_clients (user_id, client_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			sel.UserID, id)
		if err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	if sel.Filter == "" {
		_, err = tx.ExecContext(ctx, `DELETE FROM client_filters WHERE user_id = $1`, sel.UserID)
	} else {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO client_filters (user_id, client_id) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE SET client_id = EXCLUDED.client_id
		`, sel.UserID, sel.Filter)
	}
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	if err = tx.Commit(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
