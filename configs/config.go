package config

import (
	"os"
	"strconv"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Config struct {
	FacebookAppID       string
	FacebookAppSecret   string
	FacebookRedirectURI string
	GraphAPIVersion     string
	GraphBaseURL        string
	PostgresURI         string
	RedisURI            string
	FrontendURL         string
	R2                  R2
	SecretKey           string
	CookieName          string
	Port                string

	PageSize           int
	FeedLimit          int
	FeedCacheTTL       time.Duration
	ApprovalTokenTTL   time.Duration
	PublishConcurrency int
}

func LoadConfig() *Config {
	return &Config{
		FacebookAppID:       getEnv("FACEBOOK_APP_ID", ""),
		FacebookAppSecret:   getEnv("FACEBOOK_APP_SECRET", ""),
		FacebookRedirectURI: getEnv("FACEBOOK_REDIRECT_URI", "http://localhost:3000/login/callback"),
		GraphAPIVersion:     getEnv("GRAPH_API_VERSION", "v23.0"),
		GraphBaseURL:        getEnv("GRAPH_BASE_URL", "https://graph.facebook.com"),
		PostgresURI:         getEnv("POSTGRES_URI", ""),
		RedisURI:            getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:5173"),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("MEDIA_PUBLIC_URL", ""),
		},
		SecretKey:  getEnv("SECRET_KEY", ""),
		CookieName: getEnv("COOKIE_NAME", "postboard_session"),
		Port:       getEnv("PORT", "3000"),

		PageSize:           getEnvInt("PAGE_SIZE", 10),
		FeedLimit:          getEnvInt("FEED_LIMIT", 100),
		FeedCacheTTL:       getEnvDuration("FEED_CACHE_TTL", 2*time.Minute),
		ApprovalTokenTTL:   getEnvDuration("APPROVAL_TOKEN_TTL", 7*24*time.Hour),
		PublishConcurrency: getEnvInt("PUBLISH_CONCURRENCY", 10),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
