package campaign

import (
	"context"
	"time"

	"github.com/Mutter0815/PageBuilder/internal/section"
)

const DefaultBackground = "#FFFFFF"

type Campaign struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Sections        []section.Section `json:"sections"`
	IsActive        bool              `json:"isActive"`
	BackgroundColor string            `json:"backgroundColor"`
	CreatedBy       string            `json:"createdBy,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// Draft is the input of a create. An empty Slug is derived from Name.
type Draft struct {
	Name            string
	Slug            string
	Sections        []section.Section
	IsActive        *bool
	BackgroundColor string
}

// Patch is a partial update. Nil fields are left unchanged; Sections
// replaces the whole list.
type Patch struct {
	Name            *string
	Sections        *[]section.Section
	IsActive        *bool
	BackgroundColor *string
	UpdatedAt       time.Time
}

// Apply returns c with p applied.
func (p Patch) Apply(c Campaign) Campaign {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Sections != nil {
		c.Sections = section.CloneAll(*p.Sections)
	}
	if p.IsActive != nil {
		c.IsActive = *p.IsActive
	}
	if p.BackgroundColor != nil {
		c.BackgroundColor = *p.BackgroundColor
	}
	if !p.UpdatedAt.IsZero() {
		c.UpdatedAt = p.UpdatedAt
	}
	return c
}

type ListResult struct {
	Items      []Campaign `json:"items"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"totalPages"`
}

// Store is the persistence gateway for campaigns.
type Store interface {
	CreateCampaign(ctx context.Context, c *Campaign) error
	GetCampaign(ctx context.Context, slug string) (Campaign, error)
	UpdateCampaign(ctx context.Context, slug string, p Patch) (Campaign, error)
	DeleteCampaign(ctx context.Context, slug string) error
	ListCampaigns(ctx context.Context, q ListQuery) (ListResult, error)
}

// Publisher sends campaign events.
type Publisher interface {
	PublishJSON(ctx context.Context, body []byte) error
}
