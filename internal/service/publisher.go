package service

import (
	"context"
	"errors"
	"fmt"

	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/pkg/utils"
)

// Publisher publishes a post to one channel of a client and returns the
// remote id of the created object.
type Publisher interface {
	Publish(ctx context.Context, channel models.Channel, client *models.Client, post *models.Post) (string, error)
}

var ErrNoInstagramAccount = errors.New("client has no linked instagram account")

type graphPublisher struct {
	cfg   config.Config
	graph GraphService
}

func NewGraphPublisher(cfg config.Config, graph GraphService) Publisher {
	return &graphPublisher{cfg: cfg, graph: graph}
}

func (p *graphPublisher) Publish(ctx context.Context, channel models.Channel, client *models.Client, post *models.Post) (string, error) {
	token, err := utils.Decrypt(client.AccessToken, []byte(p.cfg.SecretKey))
	if err != nil {
		return "", fmt.Errorf("decrypt page token: %w", err)
	}

	switch channel {
	case models.ChannelFacebook:
		return p.graph.PublishFacebook(ctx, client.FacebookPageID, token, post.Content)
	case models.ChannelInstagram:
		if client.InstagramAccountID == "" {
			return "", ErrNoInstagramAccount
		}
		return p.graph.PublishInstagram(ctx, client.InstagramAccountID, token, post.Content, post.Media)
	}
	return "", fmt.Errorf("unsupported channel %q", channel)
}
