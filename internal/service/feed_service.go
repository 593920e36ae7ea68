package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/board"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/transfer"
	"github.com/maheshrc27/postboard/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// FeedService is the read-only social feed source. It converts the page's
// facebook posts and linked instagram media into post records.
type FeedService interface {
	ClientPosts(ctx context.Context, client *models.Client) ([]models.Post, error)
}

type feedService struct {
	cfg   config.Config
	graph GraphService
	cache FeedCache
}

// NewFeedService accepts a nil cache.
func NewFeedService(cfg config.Config, graph GraphService, cache FeedCache) FeedService {
	return &feedService{cfg: cfg, graph: graph, cache: cache}
}

// ClientPosts fetches both sources of a client concurrently. A failing source
// contributes no records; its error is returned wrapped in
// ErrSourceUnavailable next to whatever the other source produced.
func (s *feedService) ClientPosts(ctx context.Context, client *models.Client) ([]models.Post, error) {
	token, err := utils.Decrypt(client.AccessToken, []byte(s.cfg.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("client %s token: %w", client.ID, ErrSourceUnavailable)
	}

	var (
		fb, ig       []models.Post
		fbErr, igErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fb, fbErr = s.cached(gctx, client, models.ChannelFacebook, func(ctx context.Context) ([]models.Post, error) {
			data, err := s.graph.PagePosts(ctx, client.FacebookPageID, token, s.cfg.FeedLimit)
			if err != nil {
				return nil, err
			}
			return FacebookPosts(client, data), nil
		})
		return nil
	})
	if client.InstagramAccountID != "" {
		g.Go(func() error {
			ig, igErr = s.cached(gctx, client, models.ChannelInstagram, func(ctx context.Context) ([]models.Post, error) {
				data, err := s.graph.InstagramMedia(ctx, client.InstagramAccountID, token, s.cfg.FeedLimit)
				if err != nil {
					return nil, err
				}
				return InstagramPosts(client, data), nil
			})
			return nil
		})
	}
	_ = g.Wait()

	return append(fb, ig...), errors.Join(fbErr, igErr)
}

func (s *feedService) cached(ctx context.Context, client *models.Client, channel models.Channel, fetch func(context.Context) ([]models.Post, error)) ([]models.Post, error) {
	key := feedCacheKey(client.ID, channel, s.cfg.FeedLimit)
	if s.cache != nil {
		if posts, ok := s.cache.Get(ctx, key); ok {
			return posts, nil
		}
	}

	posts, err := fetch(ctx)
	if err != nil {
		slog.Warn("feed fetch failed", "client_id", client.ID, "source", channel, "error", err)
		return nil, fmt.Errorf("%s feed of client %s: %w: %v", channel, client.ID, ErrSourceUnavailable, err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, key, posts)
	}
	return posts, nil
}

// FacebookPosts converts raw page posts. Records without a parseable
// timestamp are skipped.
func FacebookPosts(client *models.Client, data []transfer.FacebookPostData) []models.Post {
	posts := make([]models.Post, 0, len(data))
	for _, d := range data {
		ts, err := facebookTime(d)
		if err != nil {
			slog.Warn("skipping facebook post", "id", d.ID, "error", err)
			continue
		}

		status := models.PostStatusPublished
		if d.IsPublished != nil && !*d.IsPublished {
			status = models.PostStatusScheduled
		}

		media, subCount := facebookMedia(d.Attachments.Data)
		format := models.FormatSingle
		if subCount > 1 {
			format = models.FormatCarousel
		}

		posts = append(posts, models.Post{
			ID:             "fb_" + d.ID,
			UserID:         client.UserID,
			ClientID:       client.ID,
			Content:        d.Message,
			Media:          media,
			Format:         format,
			Channels:       []models.Channel{models.ChannelFacebook},
			ScheduledDate:  ts,
			Status:         status,
			CreatedAt:      ts,
			FacebookPostID: d.ID,
			CombinedID:     board.CombinedID(d.Message, ts),
		})
	}
	return posts
}

func facebookTime(d transfer.FacebookPostData) (time.Time, error) {
	if d.ScheduledPublishTime > 0 {
		return time.Unix(d.ScheduledPublishTime, 0).UTC(), nil
	}
	return transfer.GraphTime(d.CreatedTime)
}

func facebookMedia(attachments []transfer.FacebookAttachment) ([]models.MediaFile, int) {
	var (
		media []models.MediaFile
		subs  int
	)
	add := func(a transfer.FacebookAttachment) {
		if a.Media.Image.Src == "" && a.Media.Source == "" {
			return
		}
		m := models.MediaFile{
			ID:        fmt.Sprintf("m%d", len(media)),
			Type:      models.MediaImage,
			URL:       a.Media.Image.Src,
			Thumbnail: a.Media.Image.Src,
		}
		if strings.Contains(a.Type, "video") {
			m.Type = models.MediaVideo
			if a.Media.Source != "" {
				m.URL = a.Media.Source
			}
		}
		media = append(media, m)
	}

	for _, a := range attachments {
		if n := len(a.Subattachments.Data); n > 0 {
			subs += n
			for _, sub := range a.Subattachments.Data {
				add(sub)
			}
			continue
		}
		add(a)
	}
	return media, subs
}

func InstagramPosts(client *models.Client, data []transfer.InstagramMediaData) []models.Post {
	posts := make([]models.Post, 0, len(data))
	for _, d := range data {
		ts, err := transfer.GraphTime(d.Timestamp)
		if err != nil {
			slog.Warn("skipping instagram media", "id", d.ID, "error", err)
			continue
		}

		format := models.FormatSingle
		m := models.MediaFile{ID: "m0", Type: models.MediaImage, URL: d.MediaURL, Thumbnail: d.MediaURL}
		switch d.MediaType {
		case "VIDEO":
			format = models.FormatReels
			m.Type = models.MediaVideo
			m.Thumbnail = d.ThumbnailURL
		case "CAROUSEL_ALBUM":
			format = models.FormatCarousel
		}

		var media []models.MediaFile
		if m.URL != "" {
			media = []models.MediaFile{m}
		}

		posts = append(posts, models.Post{
			ID:              "ig_" + d.ID,
			UserID:          client.UserID,
			ClientID:        client.ID,
			Content:         d.Caption,
			Media:           media,
			Format:          format,
			Channels:        []models.Channel{models.ChannelInstagram},
			ScheduledDate:   ts,
			Status:          models.PostStatusPublished,
			CreatedAt:       ts,
			InstagramPostID: d.ID,
			CombinedID:      board.CombinedID(d.Caption, ts),
		})
	}
	return posts
}
