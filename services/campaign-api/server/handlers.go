package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/Mutter0815/PageBuilder/internal/apperr"
	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/internal/builder"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/page"
	"github.com/Mutter0815/PageBuilder/internal/section"
	"github.com/Mutter0815/PageBuilder/pkg/i18n"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
)

type authAPI interface {
	Login(ctx context.Context, username, password string) (auth.Session, error)
	Authenticate(raw string) (auth.Principal, error)
	Register(ctx context.Context, actor auth.Principal, username, password string, role auth.Role) (auth.User, error)
}

type campaignAPI interface {
	Create(ctx context.Context, p auth.Principal, d campaign.Draft) (campaign.Campaign, error)
	Update(ctx context.Context, p auth.Principal, slug string, patch campaign.Patch) (campaign.Campaign, error)
	Delete(ctx context.Context, p auth.Principal, slug string) error
	Get(ctx context.Context, p auth.Principal, slug string) (campaign.Campaign, error)
	List(ctx context.Context, p auth.Principal, q campaign.ListQuery) (campaign.ListResult, error)
	Public(ctx context.Context, slug string) (campaign.Campaign, error)
}

type Handlers struct {
	Auth      authAPI
	Campaigns campaignAPI
	Editor    *builder.Registry

	Timeout     time.Duration
	DefaultLang language.Tag
	CORSOrigins []string
}

func NewHandlers(a *auth.Service, cs *campaign.Service, reg *builder.Registry) *Handlers {
	return &Handlers{
		Auth:        a,
		Campaigns:   cs,
		Editor:      reg,
		Timeout:     5 * time.Second,
		DefaultLang: language.English,
	}
}

func (h *Handlers) ctx(c *gin.Context) (context.Context, context.CancelFunc) {
	d := h.Timeout
	if d <= 0 {
		d = 5 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), d)
}

func (h *Handlers) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// --- auth ---

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerReq struct {
	Username string    `json:"username" binding:"required,max=64"`
	Password string    `json:"password" binding:"required,min=6,max=128"`
	Role     auth.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

func (h *Handlers) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	sess, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		logx.L().Infow("login_failed", "rid", requestID(c), "username", req.Username, "code", apperr.CodeOf(err))
		writeError(c, err)
		return
	}
	setSessionCookie(c, sess.Token, time.Until(sess.ExpiresAt))
	c.JSON(http.StatusOK, sess)
}

func (h *Handlers) Logout(c *gin.Context) {
	clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *Handlers) Me(c *gin.Context) {
	p := principalOf(c)
	if p.Anonymous() {
		writeError(c, apperr.Unauthorized(apperr.CodeAuthRequired, "authentication required"))
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) RegisterUser(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	u, err := h.Auth.Register(ctx, principalOf(c), req.Username, req.Password, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// --- campaigns ---

type createCampaignReq struct {
	Name            string            `json:"name" binding:"max=200"`
	Slug            string            `json:"slug" binding:"omitempty,slug"`
	Sections        []section.Section `json:"sections"`
	IsActive        *bool             `json:"isActive"`
	BackgroundColor string            `json:"backgroundColor" binding:"omitempty,hexcolor"`
}

type updateCampaignReq struct {
	Name            *string            `json:"name" binding:"omitempty,max=200"`
	Slug            *string            `json:"slug"`
	Sections        *[]section.Section `json:"sections"`
	IsActive        *bool              `json:"isActive"`
	BackgroundColor *string            `json:"backgroundColor" binding:"omitempty,hexcolor"`
}

func (h *Handlers) CreateCampaign(c *gin.Context) {
	var req createCampaignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	out, err := h.Campaigns.Create(ctx, principalOf(c), campaign.Draft{
		Name:            req.Name,
		Slug:            req.Slug,
		Sections:        req.Sections,
		IsActive:        req.IsActive,
		BackgroundColor: req.BackgroundColor,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handlers) ListCampaigns(c *gin.Context) {
	var q campaign.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, bindError(err))
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	res, err := h.Campaigns.List(ctx, principalOf(c), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) GetCampaign(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	out, err := h.Campaigns.Get(ctx, principalOf(c), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) UpdateCampaign(c *gin.Context) {
	var req updateCampaignReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, bindError(err))
		return
	}
	slug := c.Param("slug")
	if req.Slug != nil && strings.TrimSpace(*req.Slug) != slug {
		writeError(c, apperr.Validation(apperr.CodeSlugImmutable, "slug", "slug of %q cannot change", slug))
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	out, err := h.Campaigns.Update(ctx, principalOf(c), slug, campaign.Patch{
		Name:            req.Name,
		Sections:        req.Sections,
		IsActive:        req.IsActive,
		BackgroundColor: req.BackgroundColor,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) DeleteCampaign(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	if err := h.Campaigns.Delete(ctx, principalOf(c), c.Param("slug")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- variants ---

type fieldDTO struct {
	section.FormField
	Label string `json:"label"`
}

type variantDTO struct {
	Type       section.Type `json:"type"`
	Label      string       `json:"label"`
	MaxButtons int          `json:"maxButtons"`
	FAQ        bool         `json:"faq"`
	Fields     []fieldDTO   `json:"fields"`
}

// Variants lists the section types with their builder inputs, localized.
func (h *Handlers) Variants(c *gin.Context) {
	tag := langOf(c)
	out := make([]variantDTO, len(section.Variants))
	for i, v := range section.Variants {
		fields := make([]fieldDTO, len(v.Fields))
		for j, f := range v.Fields {
			fields[j] = fieldDTO{FormField: f, Label: i18n.T(tag, f.Label)}
		}
		out[i] = variantDTO{
			Type:       v.Type,
			Label:      i18n.T(tag, v.LabelKey),
			MaxButtons: v.MaxButtons,
			FAQ:        v.FAQ,
			Fields:     fields,
		}
	}
	c.JSON(http.StatusOK, out)
}

// --- public ---

func (h *Handlers) publicPage(c *gin.Context) (page.Page, error) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	camp, err := h.Campaigns.Public(ctx, c.Param("slug"))
	if err != nil {
		return page.Page{}, err
	}
	return page.Compose(camp, langOf(c)), nil
}

func (h *Handlers) PageJSON(c *gin.Context) {
	p, err := h.publicPage(c)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			c.JSON(http.StatusNotFound, page.NotFound(langOf(c)))
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) PageHTML(c *gin.Context) {
	tag := langOf(c)
	p, err := h.publicPage(c)
	if err != nil {
		if errors.Is(err, apperr.ErrCampaignNotFound) {
			c.HTML(http.StatusNotFound, "notice.html", page.NotFound(tag))
			return
		}
		status, _ := errorBody(c, err)
		c.HTML(status, "notice.html", page.NewNotice(tag, "page.error"))
		return
	}
	c.HTML(http.StatusOK, "page.html", p)
}
