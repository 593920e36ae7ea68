package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/models"
	"github.com/maheshrc27/postboard/internal/transfer"
)

const (
	facebookPostFields   = "id,message,created_time,attachments{type,media,subattachments},status_type,scheduled_publish_time,is_published"
	instagramMediaFields = "id,caption,media_type,media_url,thumbnail_url,timestamp,permalink"
)

// GraphService is the HTTP client for the Facebook Graph API. It is both the
// read side (pages, feeds) and the publishing collaborator.
type GraphService interface {
	Me(ctx context.Context, token string) (*transfer.FacebookUserInfo, error)
	Pages(ctx context.Context, userToken string) ([]models.FacebookPage, error)
	PagePosts(ctx context.Context, pageID, token string, limit int) ([]transfer.FacebookPostData, error)
	InstagramMedia(ctx context.Context, igID, token string, limit int) ([]transfer.InstagramMediaData, error)
	PublishFacebook(ctx context.Context, pageID, token, message string) (string, error)
	PublishInstagram(ctx context.Context, igID, token, caption string, media []models.MediaFile) (string, error)
}

type graphService struct {
	client       *resty.Client
	pollInterval time.Duration
	pollAttempts int
}

func NewGraphService(cfg config.Config) GraphService {
	client := resty.New().
		SetBaseURL(fmt.Sprintf("%s/%s", strings.TrimRight(cfg.GraphBaseURL, "/"), cfg.GraphAPIVersion)).
		SetTimeout(30*time.Second).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &graphService{
		client:       client,
		pollInterval: 3 * time.Second,
		pollAttempts: 20,
	}
}

// GraphRequestError carries the remote error message of a failed Graph call.
type GraphRequestError struct {
	Status  int
	Code    int
	Message string
}

func (e *GraphRequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("graph api: status %d", e.Status)
	}
	return fmt.Sprintf("graph api: %s", e.Message)
}

func (s *graphService) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	var gerr transfer.GraphError
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		SetError(&gerr).
		Get(path)
	return graphResult(resp, err, &gerr)
}

func (s *graphService) post(ctx context.Context, path string, form map[string]string, out interface{}) error {
	var gerr transfer.GraphError
	resp, err := s.client.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(out).
		SetError(&gerr).
		Post(path)
	return graphResult(resp, err, &gerr)
}

func graphResult(resp *resty.Response, err error, gerr *transfer.GraphError) error {
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	if resp.IsError() {
		e := &GraphRequestError{
			Status:  resp.StatusCode(),
			Code:    gerr.Error.Code,
			Message: gerr.Error.Message,
		}
		slog.Info(e.Error(), "path", resp.Request.URL)
		return e
	}
	return nil
}

func (s *graphService) Me(ctx context.Context, token string) (*transfer.FacebookUserInfo, error) {
	var info transfer.FacebookUserInfo
	err := s.get(ctx, "/me", map[string]string{
		"fields":       "id,name,email",
		"access_token": token,
	}, &info)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *graphService) Pages(ctx context.Context, userToken string) ([]models.FacebookPage, error) {
	var res transfer.FacebookPagesResponse
	err := s.get(ctx, "/me/accounts", map[string]string{
		"fields":       "id,name,access_token,instagram_business_account,picture{url}",
		"access_token": userToken,
	}, &res)
	if err != nil {
		return nil, err
	}

	pages := make([]models.FacebookPage, 0, len(res.Data))
	for _, p := range res.Data {
		page := models.FacebookPage{
			ID:          p.ID,
			Name:        p.Name,
			AccessToken: p.AccessToken,
			Picture:     p.Picture.Data.URL,
		}
		if p.InstagramBusinessAccount != nil {
			page.InstagramAccountID = p.InstagramBusinessAccount.ID
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func (s *graphService) PagePosts(ctx context.Context, pageID, token string, limit int) ([]transfer.FacebookPostData, error) {
	var res transfer.FacebookPostsResponse
	err := s.get(ctx, "/"+pageID+"/posts", map[string]string{
		"fields":       facebookPostFields,
		"limit":        strconv.Itoa(limit),
		"access_token": token,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (s *graphService) InstagramMedia(ctx context.Context, igID, token string, limit int) ([]transfer.InstagramMediaData, error) {
	var res transfer.InstagramMediaResponse
	err := s.get(ctx, "/"+igID+"/media", map[string]string{
		"fields":       instagramMediaFields,
		"limit":        strconv.Itoa(limit),
		"access_token": token,
	}, &res)
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (s *graphService) PublishFacebook(ctx context.Context, pageID, token, message string) (string, error) {
	var res transfer.GraphID
	err := s.post(ctx, "/"+pageID+"/feed", map[string]string{
		"message":      message,
		"published":    "true",
		"access_token": token,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

// PublishInstagram creates a media container (a carousel container with one
// child per file when there is more than one) and publishes it.
func (s *graphService) PublishInstagram(ctx context.Context, igID, token, caption string, media []models.MediaFile) (string, error) {
	if len(media) == 0 {
		return "", errors.New("instagram requires at least one media file")
	}

	var (
		creationID string
		err        error
	)
	if len(media) == 1 {
		form := mediaForm(media[0], token)
		form["caption"] = caption
		creationID, err = s.container(ctx, igID, form, media[0].Type == models.MediaVideo)
	} else {
		children := make([]string, 0, len(media))
		for _, m := range media {
			form := mediaForm(m, token)
			form["is_carousel_item"] = "true"
			id, err := s.container(ctx, igID, form, m.Type == models.MediaVideo)
			if err != nil {
				return "", err
			}
			children = append(children, id)
		}
		creationID, err = s.container(ctx, igID, map[string]string{
			"media_type":   "CAROUSEL",
			"caption":      caption,
			"children":     strings.Join(children, ","),
			"access_token": token,
		}, false)
	}
	if err != nil {
		return "", err
	}

	var res transfer.GraphID
	err = s.post(ctx, "/"+igID+"/media_publish", map[string]string{
		"creation_id":  creationID,
		"access_token": token,
	}, &res)
	if err != nil {
		return "", err
	}
	return res.ID, nil
}

func mediaForm(m models.MediaFile, token string) map[string]string {
	form := map[string]string{"access_token": token}
	if m.Type == models.MediaVideo {
		form["media_type"] = "REELS"
		form["video_url"] = m.URL
	} else {
		form["image_url"] = m.URL
	}
	return form
}

func (s *graphService) container(ctx context.Context, igID string, form map[string]string, video bool) (string, error) {
	var res transfer.GraphID
	if err := s.post(ctx, "/"+igID+"/media", form, &res); err != nil {
		return "", err
	}
	if res.ID == "" {
		return "", errors.New("no media container id returned from instagram")
	}
	if video {
		if err := s.waitReady(ctx, res.ID, form["access_token"]); err != nil {
			return "", err
		}
	}
	return res.ID, nil
}

// waitReady polls a video container until instagram has finished processing.
func (s *graphService) waitReady(ctx context.Context, containerID, token string) error {
	for i := 0; i < s.pollAttempts; i++ {
		var res struct {
			StatusCode string `json:"status_code"`
		}
		err := s.get(ctx, "/"+containerID, map[string]string{
			"fields":       "status_code",
			"access_token": token,
		}, &res)
		if err != nil {
			return err
		}

		switch res.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR", "EXPIRED":
			return fmt.Errorf("media container %s: %s", containerID, strings.ToLower(res.StatusCode))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.pollInterval):
		}
	}
	return fmt.Errorf("media container %s not ready", containerID)
}
