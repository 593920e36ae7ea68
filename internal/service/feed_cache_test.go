package service

import (
	"reflect"
	"testing"

	"github.com/maheshrc27/postboard/internal/transfer"
)

func TestFeedCacheEntryMatchesFetchedRecords(t *testing.T) {
	posts := FacebookPosts(feedClient(), []transfer.FacebookPostData{
		{ID: "page1_1", Message: "Fresh bread", CreatedTime: "2025-03-10T09:15:00+0000"},
	})

	raw, err := encodeFeed(posts)
	if err != nil {
		t.Fatal(err)
	}
	cached, err := decodeFeed(raw)
	if err != nil {
		t.Fatal(err)
	}

	if cached[0].UserID != "u1" {
		t.Errorf("cached user id = %q, want u1", cached[0].UserID)
	}
	// compare instants; the decoded zone differs from the parsed one
	want := posts[0]
	got := cached[0]
	if !got.ScheduledDate.Equal(want.ScheduledDate) || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("dates = %v/%v, want %v/%v", got.ScheduledDate, got.CreatedAt, want.ScheduledDate, want.CreatedAt)
	}
	got.ScheduledDate, got.CreatedAt = want.ScheduledDate, want.CreatedAt
	if !reflect.DeepEqual(got, want) {
		t.Errorf("cached = %+v\nfetched = %+v", got, want)
	}
}

func TestDecodeFeedRejectsGarbage(t *testing.T) {
	if _, err := decodeFeed([]byte("{not json")); err == nil {
		t.Error("expected an error")
	}
	if posts, err := decodeFeed([]byte("[]")); err != nil || len(posts) != 0 {
		t.Errorf("empty entry = %v, %v", posts, err)
	}
}
