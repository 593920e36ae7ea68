package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/repository"
	"github.com/maheshrc27/postboard/pkg/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
)

var facebookScopes = []string{
	"email",
	"pages_show_list",
	"pages_read_engagement",
	"pages_manage_posts",
	"instagram_basic",
	"instagram_content_publish",
}

type AuthService interface {
	AuthCodeURL(state string) string
	LoginCallback(ctx context.Context, code string) (string, error)
}

type authService struct {
	cfg     config.Config
	oauth   *oauth2.Config
	u       repository.UserRepository
	graph   GraphService
	clients ClientService
}

func NewAuthService(cfg config.Config, u repository.UserRepository, graph GraphService, clients ClientService) AuthService {
	return &authService{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.FacebookAppID,
			ClientSecret: cfg.FacebookAppSecret,
			RedirectURL:  cfg.FacebookRedirectURI,
			Scopes:       facebookScopes,
			Endpoint:     facebook.Endpoint,
		},
		u:       u,
		graph:   graph,
		clients: clients,
	}
}

func (s *authService) AuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// LoginCallback exchanges the code, stores the user and registers their
// pages as clients. It returns the Facebook user id.
func (s *authService) LoginCallback(ctx context.Context, code string) (string, error) {
	if code == "" {
		err := errors.New("code is empty")
		slog.Info(err.Error())
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if s.oauth.ClientID == "" || s.oauth.ClientSecret == "" || s.oauth.RedirectURL == "" {
		err := errors.New("OAuth2 configuration is incomplete")
		slog.Error(err.Error())
		return "", err
	}

	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	info, err := s.graph.Me(ctx, token.AccessToken)
	if err != nil {
		return "", err
	}

	encrypted, err := utils.Encrypt([]byte(token.AccessToken), []byte(s.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	err = s.u.Upsert(ctx, nil, &models.User{
		ID:          info.ID,
		Email:       info.Email,
		Name:        info.Name,
		AccessToken: encrypted,
	})
	if err != nil {
		return "", err
	}

	pages, err := s.graph.Pages(ctx, token.AccessToken)
	if err != nil {
		return "", err
	}
	if _, err := s.clients.SyncPages(ctx, info.ID, pages); err != nil {
		return "", err
	}

	return info.ID, nil
}
