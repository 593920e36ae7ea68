package board

import (
	"slices"
	"testing"
	"time"

	"github.com/maheshrc27/postboard/internal/models"
)

func clientIDs(posts []models.Post) []string {
	var ids []string
	for _, p := range posts {
		ids = append(ids, p.ClientID)
	}
	return ids
}

func TestFilter(t *testing.T) {
	posts := []models.Post{
		storePost("1", "A", day, models.ChannelFacebook),
		storePost("2", "B", day, models.ChannelFacebook),
		storePost("3", "C", day, models.ChannelFacebook),
	}

	tests := []struct {
		name string
		sel  Selection
		want []string
	}{
		{"empty selection passes all", Selection{}, []string{"A", "B", "C"}},
		{"selection intersects", Selection{ClientIDs: []string{"A", "C"}}, []string{"A", "C"}},
		{"filter narrows selection", Selection{ClientIDs: []string{"A", "C"}, Filter: "C"}, []string{"C"}},
		{"filter outside selection", Selection{ClientIDs: []string{"A"}, Filter: "B"}, nil},
		{"filter without selection", Selection{Filter: "B"}, []string{"B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clientIDs(Filter(posts, tt.sel))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Filter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectionScope(t *testing.T) {
	known := []string{"A", "B", "C"}

	ids, all := Selection{}.Scope(known)
	if !all || !slices.Equal(ids, known) {
		t.Errorf("empty selection scope = %v, %v", ids, all)
	}

	ids, all = Selection{ClientIDs: []string{"B", "C"}, Filter: "C"}.Scope(known)
	if all || !slices.Equal(ids, []string{"C"}) {
		t.Errorf("filtered scope = %v, %v", ids, all)
	}
}

func TestSelectionEqualIgnoresOrder(t *testing.T) {
	a := Selection{ClientIDs: []string{"A", "B"}}
	b := Selection{ClientIDs: []string{"B", "A"}}
	if !a.Equal(b) {
		t.Error("selections with the same clients should be equal")
	}
	b.Filter = "A"
	if a.Equal(b) {
		t.Error("different filters should not be equal")
	}
}

func TestInRange(t *testing.T) {
	groups := Group([]models.Post{
		storePost("1", "A", day.Add(-time.Hour), models.ChannelFacebook),
		storePost("2", "A", day, models.ChannelFacebook),
		storePost("3", "A", day.Add(24*time.Hour), models.ChannelFacebook),
	}, nil)

	got := InRange(groups, day, day.Add(24*time.Hour))
	if len(got) != 1 || got[0].Posts[0].ID != "2" {
		t.Errorf("InRange = %v", got)
	}
	if n := len(InRange(groups, time.Time{}, time.Time{})); n != 3 {
		t.Errorf("open range kept %d, want 3", n)
	}
}

func TestByStatus(t *testing.T) {
	p1 := storePost("1", "A", day, models.ChannelFacebook)
	p2 := storePost("2", "A", day, models.ChannelFacebook)
	p2.Status = models.PostStatusPendingApproval
	groups := Group([]models.Post{p1, p2}, nil)

	got := ByStatus(groups, models.PostStatusPendingApproval)
	if len(got) != 1 || got[0].Status != models.PostStatusPendingApproval {
		t.Errorf("ByStatus = %v", got)
	}
}
