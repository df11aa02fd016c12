package campaign

import "strings"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Sort keys accepted by ListCampaigns.
const (
	SortName      = "name"
	SortSlug      = "slug"
	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
)

type ListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Sort   string `form:"sort"`
	Order  string `form:"order"`
	Search string `form:"search"`
}

// Normalize applies defaults and clamps q into the supported range.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	switch q.Sort {
	case SortName, SortSlug, SortCreatedAt, SortUpdatedAt:
	default:
		q.Sort = SortCreatedAt
	}
	q.Order = strings.ToLower(q.Order)
	if q.Order != "desc" {
		q.Order = "asc"
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (q ListQuery) Desc() bool { return q.Order == "desc" }

func (q ListQuery) Offset() int { return (q.Page - 1) * q.Limit }

// Result wraps a page of items with the pagination envelope.
func (q ListQuery) Result(items []Campaign, total int64) ListResult {
	if items == nil {
		items = []Campaign{}
	}
	pages := 0
	if total > 0 {
		pages = int((total + int64(q.Limit) - 1) / int64(q.Limit))
	}
	return ListResult{Items: items, Total: total, Page: q.Page, Limit: q.Limit, TotalPages: pages}
}
