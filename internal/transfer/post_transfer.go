package transfer

import (
	"time"

	"github.com/maheshrc27/postboard/internal/models"
)

type Workflow string

const (
	WorkflowApproval   Workflow = "approval"
	WorkflowSchedule   Workflow = "schedule"
	WorkflowPublishNow Workflow = "publish_now"
)

type PostCreation struct {
	ClientID      string             `json:"clientId" validate:"required"`
	Content       string             `json:"content" validate:"required,max=2200"`
	Media         []models.MediaFile `json:"media" validate:"dive"`
	Format        models.PostFormat  `json:"format" validate:"required,oneof=single carousel story reels"`
	Channels      []models.Channel   `json:"channels" validate:"required,min=1,dive,oneof=facebook instagram"`
	ScheduledDate time.Time          `json:"scheduledDate"`
	Workflow      Workflow           `json:"workflow" validate:"required,oneof=approval schedule publish_now"`
}

type StatusUpdate struct {
	Status models.PostStatus `json:"status" validate:"required,oneof=draft scheduled pending_approval approved rejected published"`
}

type ContentUpdate struct {
	Content string `json:"content" validate:"required,max=2200"`
}

type ClientUpdate struct {
	DisplayName *string `json:"displayName" validate:"omitempty,max=100"`
	Color       *string `json:"color" validate:"omitempty,hexcolor"`
}

type FilterUpdate struct {
	ClientID *string `json:"clientId"`
}

type ClientResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	DisplayName        string `json:"displayName,omitempty"`
	FacebookPageID     string `json:"facebookPageId"`
	InstagramAccountID string `json:"instagramAccountId"`
	Avatar             string `json:"avatar,omitempty"`
	Color              string `json:"color"`
	IsActive           bool   `json:"isActive"`
	Selected           bool   `json:"selected"`
}

type ClientsResponse struct {
	Clients         []ClientResponse `json:"clients"`
	SelectedClients []string         `json:"selectedClients"`
	Filter          string           `json:"selectedClientFilter,omitempty"`
}
