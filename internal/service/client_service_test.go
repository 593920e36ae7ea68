package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/pkg/utils"
)

func newClientFixture(clients ...*models.Client) (*clientService, *fakeClientRepo, *fakeSelectionRepo, *fakeListener) {
	cr := &fakeClientRepo{clients: clients}
	sr := newFakeSelectionRepo()
	l := &fakeListener{}
	return NewClientService(testConfig(), nil, cr, sr, l).(*clientService), cr, sr, l
}

func TestSyncPagesAssignsPaletteByRegistrationOrder(t *testing.T) {
	s, _, _, l := newClientFixture(&models.Client{
		ID: "old", UserID: "u1", FacebookPageID: "p0", Color: "#000000", Position: 0,
	})

	pages := []models.FacebookPage{
		{ID: "p1", Name: "Bakery", AccessToken: "tok1"},
		{ID: "p0", Name: "Renamed", AccessToken: "tok0", InstagramAccountID: "ig0"},
		{ID: "p2", Name: "Gym", AccessToken: "tok2"},
	}
	clients, err := s.SyncPages(context.Background(), "u1", pages)
	if err != nil {
		t.Fatal(err)
	}
	if len(clients) != 3 {
		t.Fatalf("got %d clients", len(clients))
	}

	byPage := make(map[string]*models.Client)
	for _, c := range clients {
		byPage[c.FacebookPageID] = c
	}
	if c := byPage["p0"]; c.ID != "old" || c.Color != "#000000" || c.Name != "Renamed" {
		t.Errorf("existing client = %+v", c)
	}
	if got := byPage["p1"].Color; got != models.PaletteColor(1) {
		t.Errorf("p1 color = %s, want %s", got, models.PaletteColor(1))
	}
	if got := byPage["p2"].Color; got != models.PaletteColor(2) {
		t.Errorf("p2 color = %s, want %s", got, models.PaletteColor(2))
	}

	plain, err := utils.Decrypt(byPage["p2"].AccessToken, []byte(testKey))
	if err != nil || plain != "tok2" {
		t.Errorf("token = %q, %v", plain, err)
	}
	if len(l.invalidated) != 1 {
		t.Errorf("invalidated %d times", len(l.invalidated))
	}
}

func TestToggleAndFilter(t *testing.T) {
	s, _, sr, l := newClientFixture(
		&models.Client{ID: "a", UserID: "u1"},
		&models.Client{ID: "b", UserID: "u1", Position: 1},
	)
	ctx := context.Background()

	if _, err := s.Toggle(ctx, "u1", "a"); err != nil {
		t.Fatal(err)
	}
	sel, err := s.Toggle(ctx, "u1", "b")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(sel.ClientIDs, []string{"a", "b"}) {
		t.Errorf("selected = %v", sel.ClientIDs)
	}

	b := "b"
	if sel, err = s.SetFilter(ctx, "u1", &b); err != nil {
		t.Fatal(err)
	}
	if sel.Filter != "b" || len(sel.ClientIDs) != 2 {
		t.Errorf("selection = %+v", sel)
	}

	sel, err = s.Toggle(ctx, "u1", "b")
	if err != nil {
		t.Fatal(err)
	}
	if sel.Filter != "" || !slices.Equal(sel.ClientIDs, []string{"a"}) {
		t.Errorf("after deselecting filtered client: %+v", sel)
	}

	if stored := sr.sels["u1"]; stored.Filter != "" || len(stored.ClientIDs) != 1 {
		t.Errorf("stored = %+v", stored)
	}
	if len(l.selects) != 4 {
		t.Errorf("listener saw %d selections, want 4", len(l.selects))
	}
	last := l.selects[len(l.selects)-1]
	if last.Filter != "" || !slices.Equal(last.ClientIDs, []string{"a"}) {
		t.Errorf("last selection = %+v", last)
	}
}

func TestSetFilterNilClears(t *testing.T) {
	s, _, sr, _ := newClientFixture(&models.Client{ID: "a", UserID: "u1"})
	sr.sels["u1"] = models.ClientSelection{UserID: "u1", ClientIDs: []string{"a"}, Filter: "a"}

	sel, err := s.SetFilter(context.Background(), "u1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Filter != "" || !slices.Equal(sel.ClientIDs, []string{"a"}) {
		t.Errorf("selection = %+v", sel)
	}
}

func TestUnknownClient(t *testing.T) {
	s, _, _, l := newClientFixture(&models.Client{ID: "a", UserID: "u1"})
	ctx := context.Background()
	missing := "zz"

	if _, err := s.Toggle(ctx, "u1", "zz"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Toggle: err = %v", err)
	}
	if _, err := s.SetFilter(ctx, "u1", &missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetFilter: err = %v", err)
	}
	if err := s.Rename(ctx, "u1", "zz", "New"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename: err = %v", err)
	}
	if _, err := s.Toggle(ctx, "u2", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Toggle other user's client: err = %v", err)
	}
	if len(l.selects) != 0 || len(l.invalidated) != 0 {
		t.Error("listener notified for a failed mutation")
	}
}

func TestRenameAndColor(t *testing.T) {
	s, cr, _, l := newClientFixture(&models.Client{ID: "a", UserID: "u1", Name: "Acme Inc"})
	ctx := context.Background()

	if err := s.Rename(ctx, "u1", "a", "Acme"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetColor(ctx, "u1", "a", "#123456"); err != nil {
		t.Fatal(err)
	}
	c := cr.clients[0]
	if c.Label() != "Acme" || c.Color != "#123456" {
		t.Errorf("client = %+v", c)
	}
	if len(l.invalidated) != 2 {
		t.Errorf("invalidated %d times", len(l.invalidated))
	}
}
