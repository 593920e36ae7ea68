package transfer

import "time"

// GraphError is the error envelope returned by the Graph API.
type GraphError struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
		IsTransient  bool   `json:"is_transient"`
		FbtraceID    string `json:"fbtrace_id"`
	} `json:"error"`
}

type GraphID struct {
	ID string `json:"id"`
}

type FacebookUserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type FacebookPagesResponse struct {
	Data []FacebookPageData `json:"data"`
}

type FacebookPageData struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	AccessToken              string   `json:"access_token"`
	InstagramBusinessAccount *GraphID `json:"instagram_business_account,omitempty"`
	Picture                  struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

type FacebookPostsResponse struct {
	Data []FacebookPostData `json:"data"`
}

type FacebookPostData struct {
	ID                   string `json:"id"`
	Message              string `json:"message"`
	CreatedTime          string `json:"created_time"`
	StatusType           string `json:"status_type"`
	ScheduledPublishTime int64  `json:"scheduled_publish_time"`
	IsPublished          *bool  `json:"is_published"`
	Attachments          struct {
		Data []FacebookAttachment `json:"data"`
	} `json:"attachments"`
}

type FacebookAttachment struct {
	Type  string `json:"type"`
	Media struct {
		Image struct {
			Src string `json:"src"`
		} `json:"image"`
		Source string `json:"source"`
	} `json:"media"`
	Subattachments struct {
		Data []FacebookAttachment `json:"data"`
	} `json:"subattachments"`
}

type InstagramMediaResponse struct {
	Data []InstagramMediaData `json:"data"`
}

type InstagramMediaData struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Timestamp    string `json:"timestamp"`
	Permalink    string `json:"permalink"`
}

// GraphTime parses the timestamp layout used by the Graph API
// (2006-01-02T15:04:05-0700), falling back to RFC 3339.
func GraphTime(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02T15:04:05-0700", s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
