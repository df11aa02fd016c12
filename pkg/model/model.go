package model

import "time"

type EventType string

const (
	CampaignCreated EventType = "campaign.created"
	CampaignUpdated EventType = "campaign.updated"
	CampaignDeleted EventType = "campaign.deleted"
)

// CampaignEvent is published on the campaign events queue after every
// successful mutation.
type CampaignEvent struct {
	Type    EventType `json:"type"`
	Slug    string    `json:"slug"`
	ActorID string    `json:"actor_id,omitempty"`
	At      time.Time `json:"at"`
}
