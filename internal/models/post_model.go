package models

import (
	"slices"
	"time"
)

type PostFormat string

const (
	FormatSingle   PostFormat = "single"
	FormatCarousel PostFormat = "carousel"
	FormatStory    PostFormat = "story"
	FormatReels    PostFormat = "reels"
)

type Channel string

const (
	ChannelFacebook  Channel = "facebook"
	ChannelInstagram Channel = "instagram"
)

func (c Channel) Valid() bool {
	return c == ChannelFacebook || c == ChannelInstagram
}

type PostStatus string

const (
	PostStatusDraft           PostStatus = "draft"
	PostStatusScheduled       PostStatus = "scheduled"
	PostStatusPendingApproval PostStatus = "pending_approval"
	PostStatusApproved        PostStatus = "approved"
	PostStatusRejected        PostStatus = "rejected"
	PostStatusPublished       PostStatus = "published"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPendingApproval,
		PostStatusApproved, PostStatusRejected, PostStatusPublished:
		return true
	}
	return false
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type MediaFile struct {
	ID        string    `json:"id"`
	Type      MediaType `json:"type"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
}

// Post is a single per-channel content record.
type Post struct {
	ID              string      `db:"id" json:"id"`
	UserID          string      `db:"user_id" json:"-"`
	ClientID        string      `db:"client_id" json:"clientId"`
	Content         string      `db:"content" json:"content"`
	Media           []MediaFile `db:"media" json:"media"`
	Format          PostFormat  `db:"format" json:"format"`
	Channels        []Channel   `db:"channels" json:"channels"`
	ScheduledDate   time.Time   `db:"scheduled_date" json:"scheduledDate"`
	Status          PostStatus  `db:"status" json:"status"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
	ApprovalLink    string      `db:"approval_link" json:"approvalLink,omitempty"`
	FacebookPostID  string      `db:"facebook_post_id" json:"facebookPostId,omitempty"`
	InstagramPostID string      `db:"instagram_post_id" json:"instagramPostId,omitempty"`
	CombinedID      string      `db:"combined_id" json:"combinedId,omitempty"`
}

// Imported reports whether the record came from the external feed rather
// than the dashboard store.
func (p *Post) Imported() bool {
	return p.FacebookPostID != "" || p.InstagramPostID != ""
}

func (p *Post) HasChannel(c Channel) bool {
	return slices.Contains(p.Channels, c)
}

// PostDraft is a Post before the store has assigned id and createdAt.
type PostDraft struct {
	UserID        string
	ClientID      string
	Content       string
	Media         []MediaFile
	Format        PostFormat
	Channels      []Channel
	ScheduledDate time.Time
	Status        PostStatus
	ApprovalLink  string
	CombinedID    string
}

// PostFilter narrows a store listing. Empty ClientIDs means every client.
type PostFilter struct {
	UserID    string
	ClientIDs []string
	Statuses  []PostStatus
	DueBefore time.Time
}
