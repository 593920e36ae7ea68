package models

import "time"

// GroupedPost is the view-level aggregate of one piece of content across
// channels. It is rebuilt on every grouping pass and never persisted.
type GroupedPost struct {
	ID                string      `json:"id"`
	ClientID          string      `json:"clientId"`
	ClientName        string      `json:"clientName,omitempty"`
	DisplayName       string      `json:"displayName,omitempty"`
	Avatar            string      `json:"avatar,omitempty"`
	Color             string      `json:"color,omitempty"`
	Content           string      `json:"content"`
	Media             []MediaFile `json:"media"`
	Format            PostFormat  `json:"format"`
	Channels          []Channel   `json:"channels"`
	PublishedChannels []Channel   `json:"publishedChannels"`
	ScheduledDate     time.Time   `json:"scheduledDate"`
	Status            PostStatus  `json:"status"`
	CreatedAt         time.Time   `json:"createdAt"`
	ApprovalLink      string      `json:"approvalLink,omitempty"`
	Posts             []Post      `json:"posts"`
}
