package models

import "time"

type PublishHistory struct {
	ID           int64     `db:"id" json:"id"`
	PostID       string    `db:"post_id" json:"post_id"`
	Channel      Channel   `db:"channel" json:"channel"`
	RemoteID     string    `db:"remote_id" json:"remote_id"`
	ErrorMessage string    `db:"error_message" json:"error_message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
