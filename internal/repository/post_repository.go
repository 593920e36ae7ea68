package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/goccy/go-json"
	"github.com/lib/pq"
	"github.com/maheshrc27/postboard/internal/models"
)

// PostUpdate is a partial update; nil fields are left untouched.
type PostUpdate struct {
	Status       *models.PostStatus
	Content      *string
	ApprovalLink *string
}

type PostRepository interface {
	Insert(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, id string, u PostUpdate) (*models.Post, error)
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	Remove(ctx context.Context, id string) error
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, user_id, client_id, content, media, format, channels, scheduled_date,
	status, created_at, approval_link, facebook_post_id, instagram_post_id, combined_id`

func (r *postRepository) Insert(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (` + postColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	media, err := json.Marshal(post.Media)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.ClientID,
		post.Content,
		media,
		post.Format,
		pq.Array(channelStrings(post.Channels)),
		post.ScheduledDate,
		post.Status,
		post.CreatedAt,
		post.ApprovalLink,
		post.FacebookPostID,
		post.InstagramPostID,
		post.CombinedID,
	)
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Update(ctx context.Context, id string, u PostUpdate) (*models.Post, error) {
	query := `
		UPDATE posts
		SET status = COALESCE($2, status),
			content = COALESCE($3, content),
			approval_link = COALESCE($4, approval_link),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns

	var status *string
	if u.Status != nil {
		s := string(*u.Status)
		status = &s
	}

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id, status, u.Content, u.ApprovalLink))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoRecord
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	var (
		where []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.UserID != "" {
		add("user_id = $%d", filter.UserID)
	}
	if len(filter.ClientIDs) > 0 {
		add("client_id = ANY($%d)", pq.Array(filter.ClientIDs))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		add("status = ANY($%d)", pq.Array(statuses))
	}
	if !filter.DueBefore.IsZero() {
		add("scheduled_date <= $%d", filter.DueBefore)
	}

	query := `SELECT ` + postColumns + ` FROM posts`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY scheduled_date DESC, created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, *post)
	}

	if err := rows.Err(); err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) Remove(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if affected == 0 {
		return ErrNoRecord
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		post     models.Post
		media    []byte
		channels []string
	)

	err := row.Scan(
		&post.ID,
		&post.UserID,
		&post.ClientID,
		&post.Content,
		&media,
		&post.Format,
		pq.Array(&channels),
		&post.ScheduledDate,
		&post.Status,
		&post.CreatedAt,
		&post.ApprovalLink,
		&post.FacebookPostID,
		&post.InstagramPostID,
		&post.CombinedID,
	)
	if err != nil {
		return nil, err
	}

	if len(media) > 0 {
		if err := json.Unmarshal(media, &post.Media); err != nil {
			return nil, fmt.Errorf("decode media of post %s: %w", post.ID, err)
		}
	}
	for _, c := range channels {
		post.Channels = append(post.Channels, models.Channel(c))
	}
	return &post, nil
}

func channelStrings(channels []models.Channel) []string {
	out := make([]string, 0, len(channels))
	for _, c := range channels {
		out = append(out, string(c))
	}
	return out
}
