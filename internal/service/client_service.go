package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/board"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/repository"
	"github.com/maheshrc27/postboard/pkg/utils"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// SelectionListener is notified whenever a user's client selection changes.
type SelectionListener interface {
	Select(ctx context.Context, userID string, sel board.Selection)
	Invalidator
}

type ClientService interface {
	SyncPages(ctx context.Context, userID string, pages []models.FacebookPage) ([]*models.Client, error)
	List(ctx context.Context, userID string) ([]*models.Client, error)
	Selection(ctx context.Context, userID string) (*models.ClientSelection, error)
	Rename(ctx context.Context, userID, id, displayName string) error
	SetColor(ctx context.Context, userID, id, color string) error
	Toggle(ctx context.Context, userID, id string) (*models.ClientSelection, error)
	SetFilter(ctx context.Context, userID string, id *string) (*models.ClientSelection, error)
}

type clientService struct {
	cfg      config.Config
	db       *sql.DB
	cr       repository.ClientRepository
	sr       repository.SelectionRepository
	listener SelectionListener
}

func NewClientService(
	cfg config.Config,
	db *sql.DB,
	cr repository.ClientRepository,
	sr repository.SelectionRepository,
	listener SelectionListener) ClientService {
	return &clientService{
		cfg:      cfg,
		db:       db,
		cr:       cr,
		sr:       sr,
		listener: listener,
	}
}

// SyncPages registers every listed page as a client. New clients take the
// next palette color by registration order; known ones keep theirs.
func (s *clientService) SyncPages(ctx context.Context, userID string, pages []models.FacebookPage) ([]*models.Client, error) {
	existing, err := s.cr.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	known := make(map[string]*models.Client, len(existing))
	for _, c := range existing {
		known[c.FacebookPageID] = c
	}
	next := len(existing)

	var tx *sql.Tx
	if s.db != nil {
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to start transaction: %w", err)
		}
		defer tx.Rollback()
	}

	clients := make([]*models.Client, 0, len(pages))
	for _, page := range pages {
		token, err := utils.Encrypt([]byte(page.AccessToken), []byte(s.cfg.SecretKey))
		if err != nil {
			return nil, err
		}

		c := &models.Client{
			UserID:             userID,
			Name:               page.Name,
			FacebookPageID:     page.ID,
			InstagramAccountID: page.InstagramAccountID,
			Avatar:             page.Picture,
			IsActive:           true,
			AccessToken:        token,
		}
		if prev, ok := known[page.ID]; ok {
			c.ID, c.Color, c.Position = prev.ID, prev.Color, prev.Position
		} else {
			if c.ID, err = gonanoid.New(); err != nil {
				return nil, err
			}
			c.Position = next
			c.Color = models.PaletteColor(next)
			next++
		}

		saved, err := s.cr.UpsertPage(ctx, tx, c)
		if err != nil {
			return nil, fmt.Errorf("error saving page %s: %w", page.ID, err)
		}
		clients = append(clients, saved)
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
	}
	s.invalidate(userID)
	return clients, nil
}

func (s *clientService) List(ctx context.Context, userID string) ([]*models.Client, error) {
	return s.cr.ListByUserID(ctx, userID)
}

func (s *clientService) Selection(ctx context.Context, userID string) (*models.ClientSelection, error) {
	return s.sr.GetSelection(ctx, userID)
}

func (s *clientService) Rename(ctx context.Context, userID, id, displayName string) error {
	return s.mutate(ctx, userID, id, s.cr.UpdateDisplayName(ctx, userID, id, displayName))
}

func (s *clientService) SetColor(ctx context.Context, userID, id, color string) error {
	return s.mutate(ctx, userID, id, s.cr.UpdateColor(ctx, userID, id, color))
}

func (s *clientService) mutate(ctx context.Context, userID, id string, err error) error {
	if err != nil {
		if errors.Is(err, repository.ErrNoRecord) {
			return fmt.Errorf("client %s: %w", id, ErrNotFound)
		}
		return err
	}
	s.invalidate(userID)
	return nil
}

// Toggle adds or removes a client from the selection. Removing the client
// the selection is filtered on also clears the filter.
func (s *clientService) Toggle(ctx context.Context, userID, id string) (*models.ClientSelection, error) {
	if err := s.ensureClient(ctx, userID, id); err != nil {
		return nil, err
	}

	sel, err := s.sr.GetSelection(ctx, userID)
	if err != nil {
		return nil, err
	}

	if i := slices.Index(sel.ClientIDs, id); i >= 0 {
		sel.ClientIDs = slices.Delete(sel.ClientIDs, i, i+1)
		if sel.Filter == id {
			sel.Filter = ""
		}
	} else {
		sel.ClientIDs = append(sel.ClientIDs, id)
	}
	return s.save(ctx, sel)
}

// SetFilter narrows the display to one client; nil clears it. The selected
// set is kept.
func (s *clientService) SetFilter(ctx context.Context, userID string, id *string) (*models.ClientSelection, error) {
	sel, err := s.sr.GetSelection(ctx, userID)
	if err != nil {
		return nil, err
	}

	sel.Filter = ""
	if id != nil && *id != "" {
		if err := s.ensureClient(ctx, userID, *id); err != nil {
			return nil, err
		}
		sel.Filter = *id
	}
	return s.save(ctx, sel)
}

func (s *clientService) save(ctx context.Context, sel *models.ClientSelection) (*models.ClientSelection, error) {
	if err := s.sr.SetSelection(ctx, sel); err != nil {
		return nil, err
	}
	if s.listener != nil {
		s.listener.Select(ctx, sel.UserID, board.SelectionFrom(sel))
	}
	return sel, nil
}

func (s *clientService) ensureClient(ctx context.Context, userID, id string) error {
	c, err := s.cr.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *clientService) invalidate(userID string) {
	if s.listener != nil {
		s.listener.Invalidate(userID)
	}
}
