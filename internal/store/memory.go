package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/section"
)

// Memory keeps everything in process. Used for local runs and tests.
type Memory struct {
	mu        sync.RWMutex
	campaigns map[string]campaign.Campaign
	users     map[string]auth.User
}

func NewMemory() *Memory {
	return &Memory{
		campaigns: map[string]campaign.Campaign{},
		users:     map[string]auth.User{},
	}
}

func cloneCampaign(c campaign.Campaign) campaign.Campaign {
	c.Sections = section.CloneAll(c.Sections)
	return c
}

func (m *Memory) CreateCampaign(_ context.Context, c *campaign.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[c.Slug]; ok {
		return slugTaken(c.Slug)
	}
	c.ID = uuid.NewString()
	m.campaigns[c.Slug] = cloneCampaign(*c)
	return nil
}

func (m *Memory) GetCampaign(_ context.Context, slug string) (campaign.Campaign, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.campaigns[slug]
	if !ok {
		return campaign.Campaign{}, notFound(slug)
	}
	return cloneCampaign(c), nil
}

func (m *Memory) UpdateCampaign(_ context.Context, slug string, p campaign.Patch) (campaign.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.campaigns[slug]
	if !ok {
		return campaign.Campaign{}, notFound(slug)
	}
	c = p.Apply(c)
	m.campaigns[slug] = c
	return cloneCampaign(c), nil
}

func (m *Memory) DeleteCampaign(_ context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.campaigns[slug]; !ok {
		return notFound(slug)
	}
	delete(m.campaigns, slug)
	return nil
}

func (m *Memory) ListCampaigns(_ context.Context, q campaign.ListQuery) (campaign.ListResult, error) {
	q = q.Normalize()
	needle := strings.ToLower(q.Search)

	m.mu.RLock()
	var all []campaign.Campaign
	for _, c := range m.campaigns {
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Name), needle) &&
			!strings.Contains(strings.ToLower(c.Slug), needle) {
			continue
		}
		all = append(all, cloneCampaign(c))
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		var less, equal bool
		switch q.Sort {
		case campaign.SortName:
			less, equal = a.Name < b.Name, a.Name == b.Name
		case campaign.SortSlug:
			less, equal = a.Slug < b.Slug, a.Slug == b.Slug
		case campaign.SortUpdatedAt:
			less, equal = a.UpdatedAt.Before(b.UpdatedAt), a.UpdatedAt.Equal(b.UpdatedAt)
		default:
			less, equal = a.CreatedAt.Before(b.CreatedAt), a.CreatedAt.Equal(b.CreatedAt)
		}
		if equal {
			return a.Slug < b.Slug
		}
		if q.Desc() {
			return !less
		}
		return less
	})

	total := int64(len(all))
	from := q.Offset()
	if from > len(all) {
		from = len(all)
	}
	to := from + q.Limit
	if to > len(all) {
		to = len(all)
	}
	return q.Result(all[from:to], total), nil
}

func (m *Memory) CreateUser(_ context.Context, u *auth.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return usernameTaken(u.Username)
	}
	u.ID = uuid.NewString()
	m.users[u.Username] = *u
	return nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (auth.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return auth.User{}, apperr.ErrUserNotFound
	}
	return u, nil
}
