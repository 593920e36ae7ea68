package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/maheshrc27/postboard/configs"
	"github.com/maheshrc27/postboard/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const thumbnailWidth = 400

var allowedMedia = map[string]models.MediaType{
	"jpg": models.MediaImage,
	"png": models.MediaImage,
	"mp4": models.MediaVideo,
	"mov": models.MediaVideo,
}

// ObjectStore is where uploaded media lives.
type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	URL(key string) string
}

type r2Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Store builds an S3 client against the Cloudflare R2 endpoint of the
// configured account.
func NewR2Store(ctx context.Context, cfg config.Config) (ObjectStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2.AccessKey, cfg.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2.AccountID))
	})
	return &r2Store{
		client:    client,
		bucket:    cfg.R2.BucketName,
		publicURL: strings.TrimRight(cfg.R2.PublicURL, "/"),
	}, nil
}

func (r *r2Store) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (r *r2Store) URL(key string) string {
	return r.publicURL + "/" + key
}

type MediaService interface {
	Upload(ctx context.Context, data []byte) (*models.MediaFile, error)
}

type mediaService struct {
	store ObjectStore
}

func NewMediaService(store ObjectStore) MediaService {
	return &mediaService{store: store}
}

// Upload sniffs the content type, stores the object under a fresh key and,
// for images, a 400px wide JPEG thumbnail beside it.
func (s *mediaService) Upload(ctx context.Context, data []byte) (*models.MediaFile, error) {
	kind, err := filetype.Match(data)
	if err != nil || kind == types.Unknown {
		return nil, fmt.Errorf("unsupported file type: %w", ErrInvalidInput)
	}
	mediaType, ok := allowedMedia[kind.Extension]
	if !ok {
		return nil, fmt.Errorf("file type %s is not allowed: %w", kind.Extension, ErrInvalidInput)
	}

	id, err := gonanoid.New()
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	key := fmt.Sprintf("media/%s.%s", id, kind.Extension)
	if err := s.store.Put(ctx, key, data, kind.MIME.Value); err != nil {
		return nil, fmt.Errorf("error uploading file: %w", err)
	}

	media := &models.MediaFile{
		ID:   id,
		Type: mediaType,
		URL:  s.store.URL(key),
	}

	if mediaType == models.MediaImage {
		thumb, err := thumbnail(data)
		if err != nil {
			slog.Warn("thumbnail failed", "media_id", id, "error", err)
			return media, nil
		}
		thumbKey := fmt.Sprintf("media/%s_thumb.jpg", id)
		if err := s.store.Put(ctx, thumbKey, thumb, "image/jpeg"); err != nil {
			slog.Warn("thumbnail upload failed", "media_id", id, "error", err)
			return media, nil
		}
		media.Thumbnail = s.store.URL(thumbKey)
	}
	return media, nil
}

func thumbnail(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if img.Bounds().Dx() > thumbnailWidth {
		img = imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
