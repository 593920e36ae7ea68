package board

import (
	"slices"
	"time"

	"github.com/maheshrc27/postboard/internal/models"
)

// Selection is the client selection a view is derived from. An empty
// ClientIDs set means no filtering. Filter narrows the display to a single
// client without discarding ClientIDs.
type Selection struct {
	ClientIDs []string `json:"selectedClients"`
	Filter    string   `json:"selectedClientFilter,omitempty"`
}

func (s Selection) Allows(clientID string) bool {
	if s.Filter != "" && clientID != s.Filter {
		return false
	}
	return len(s.ClientIDs) == 0 || slices.Contains(s.ClientIDs, clientID)
}

// Scope returns the client ids a loader has to fetch for. all is true when
// every known client is in scope.
func (s Selection) Scope(known []string) (ids []string, all bool) {
	if s.Filter == "" && len(s.ClientIDs) == 0 {
		return known, true
	}
	for _, id := range known {
		if s.Allows(id) {
			ids = append(ids, id)
		}
	}
	return ids, false
}

func (s Selection) Equal(o Selection) bool {
	if s.Filter != o.Filter || len(s.ClientIDs) != len(o.ClientIDs) {
		return false
	}
	a, b := slices.Clone(s.ClientIDs), slices.Clone(o.ClientIDs)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func SelectionFrom(cs *models.ClientSelection) Selection {
	if cs == nil {
		return Selection{}
	}
	return Selection{ClientIDs: slices.Clone(cs.ClientIDs), Filter: cs.Filter}
}

// Filter keeps the posts whose client the selection allows.
func Filter(posts []models.Post, sel Selection) []models.Post {
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if sel.Allows(p.ClientID) {
			out = append(out, p)
		}
	}
	return out
}

// InRange keeps the groups scheduled in [from, to). A zero bound is open.
func InRange(groups []models.GroupedPost, from, to time.Time) []models.GroupedPost {
	out := make([]models.GroupedPost, 0, len(groups))
	for _, g := range groups {
		if !from.IsZero() && g.ScheduledDate.Before(from) {
			continue
		}
		if !to.IsZero() && !g.ScheduledDate.Before(to) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func ByStatus(groups []models.GroupedPost, statuses ...models.PostStatus) []models.GroupedPost {
	out := make([]models.GroupedPost, 0, len(groups))
	for _, g := range groups {
		if slices.Contains(statuses, g.Status) {
			out = append(out, g)
		}
	}
	return out
}
