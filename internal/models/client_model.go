package models

import "time"

// Palette is assigned to clients by registration order.
var Palette = []string{
	"#3B82F6",
	"#10B981",
	"#F59E0B",
	"#EF4444",
	"#8B5CF6",
	"#06B6D4",
	"#84CC16",
	"#F97316",
	"#EC4899",
	"#6366F1",
}

func PaletteColor(position int) string {
	if position < 0 {
		position = -position
	}
	return Palette[position%len(Palette)]
}

type Client struct {
	ID                 string    `db:"id" json:"id"`
	UserID             string    `db:"user_id" json:"-"`
	Name               string    `db:"name" json:"name"`
	DisplayName        string    `db:"display_name" json:"displayName,omitempty"`
	FacebookPageID     string    `db:"facebook_page_id" json:"facebookPageId"`
	InstagramAccountID string    `db:"instagram_account_id" json:"instagramAccountId"`
	Avatar             string    `db:"avatar" json:"avatar,omitempty"`
	Color              string    `db:"color" json:"color,omitempty"`
	IsActive           bool      `db:"is_active" json:"isActive"`
	Position           int       `db:"position" json:"-"`
	AccessToken        string    `db:"access_token" json:"-"`
	CreatedAt          time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time `db:"updated_at" json:"updatedAt"`
}

// Label is the name shown in the dashboard: the user override wins.
func (c *Client) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// ClientSelection is the per-user selection state of the registry.
type ClientSelection struct {
	UserID    string   `json:"-"`
	ClientIDs []string `json:"selectedClients"`
	Filter    string   `json:"selectedClientFilter,omitempty"`
}

// FacebookPage is a page entry as listed by /me/accounts.
type FacebookPage struct {
	ID                 string
	Name               string
	AccessToken        string
	InstagramAccountID string
	Picture            string
}
