// Package board holds the dashboard core: grouping per-channel post records
// into grouped posts, filtering them by client selection and paginating the
// result.
package board

import (
	"slices"
	"sort"

	"github.com/maheshrc27/postboard/internal/models"
)

// GroupKey is the key a post is grouped under. Feed imports carry a
// combined id and group with their siblings on other channels; everything
// else is its own singleton group.
func GroupKey(p *models.Post) string {
	if p.CombinedID != "" {
		return p.ClientID + "_" + p.CombinedID
	}
	return p.ClientID + "_" + p.ID
}

// Group merges posts into grouped posts, denormalizing client fields from
// clients. Output is sorted by scheduled date, newest first; ties keep the
// order in which their keys were first seen.
func Group(posts []models.Post, clients []models.Client) []models.GroupedPost {
	byID := make(map[string]*models.Client, len(clients))
	for i := range clients {
		byID[clients[i].ID] = &clients[i]
	}

	index := make(map[string]int, len(posts))
	groups := make([]models.GroupedPost, 0, len(posts))

	for _, p := range posts {
		key := GroupKey(&p)
		if i, ok := index[key]; ok {
			g := &groups[i]
			g.Channels = union(g.Channels, p.Channels)
			g.PublishedChannels = union(g.PublishedChannels, publishedChannels(&p))
			g.Posts = append(g.Posts, p)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, seed(key, p, byID[p.ClientID]))
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].ScheduledDate.After(groups[j].ScheduledDate)
	})
	return groups
}

// Flatten returns the member posts of groups in group order.
func Flatten(groups []models.GroupedPost) []models.Post {
	var posts []models.Post
	for _, g := range groups {
		posts = append(posts, g.Posts...)
	}
	return posts
}

func seed(key string, p models.Post, c *models.Client) models.GroupedPost {
	g := models.GroupedPost{
		ID:                key,
		ClientID:          p.ClientID,
		Content:           p.Content,
		Media:             slices.Clone(p.Media),
		Format:            p.Format,
		Channels:          union(nil, p.Channels),
		PublishedChannels: union(nil, publishedChannels(&p)),
		ScheduledDate:     p.ScheduledDate,
		Status:            p.Status,
		CreatedAt:         p.CreatedAt,
		ApprovalLink:      p.ApprovalLink,
		Posts:             []models.Post{p},
	}
	if c != nil {
		g.ClientName = c.Name
		g.DisplayName = c.DisplayName
		g.Avatar = c.Avatar
		g.Color = c.Color
	}
	return g
}

// publishedChannels are the channels a record confirms as realized. Feed
// records only count once the source reports them published.
func publishedChannels(p *models.Post) []models.Channel {
	if p.Imported() && p.Status != models.PostStatusPublished {
		return nil
	}
	return p.Channels
}

func union(set, add []models.Channel) []models.Channel {
	if set == nil {
		set = []models.Channel{}
	}
	for _, c := range add {
		if !slices.Contains(set, c) {
			set = append(set, c)
		}
	}
	return set
}
