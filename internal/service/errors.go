package service

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/maheshrc27/postboard/internal/models"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrSourceUnavailable = errors.New("source unavailable")
	ErrPublishFailed     = errors.New("publish failed")
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthorized      = errors.New("unauthorized")
)

// ChannelResult is the outcome of publishing a post to one channel.
type ChannelResult struct {
	Channel  models.Channel `json:"channel"`
	RemoteID string         `json:"remoteId,omitempty"`
	Err      error          `json:"-"`
}

func (r ChannelResult) OK() bool {
	return r.Err == nil
}

// PublishError reports a publish in which at least one channel failed. It
// carries every channel's result, successful ones included.
type PublishError struct {
	PostID  string
	Results []ChannelResult
}

func (e *PublishError) Error() string {
	var failed []string
	for _, r := range e.Results {
		if r.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", r.Channel, r.Err))
		}
	}
	return fmt.Sprintf("publish post %s: %s", e.PostID, strings.Join(failed, "; "))
}

func (e *PublishError) Unwrap() error {
	return ErrPublishFailed
}

// Failed returns the channels whose publish call failed.
func (e *PublishError) Failed() []models.Channel {
	var out []models.Channel
	for _, r := range e.Results {
		if r.Err != nil {
			out = append(out, r.Channel)
		}
	}
	return out
}

// Result returns the outcome for channel c.
func (e *PublishError) Result(c models.Channel) (ChannelResult, bool) {
	for _, r := range e.Results {
		if r.Channel == c {
			return r, true
		}
	}
	return ChannelResult{}, false
}

var ErrorMap = map[error]int{
	ErrNotFound:          http.StatusNotFound,
	ErrInvalidInput:      http.StatusBadRequest,
	ErrUnauthorized:      http.StatusUnauthorized,
	ErrPublishFailed:     http.StatusBadGateway,
	ErrSourceUnavailable: http.StatusServiceUnavailable,
}

// StatusFor maps err onto an HTTP status, falling back to 500.
func StatusFor(err error) int {
	for target, status := range ErrorMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
