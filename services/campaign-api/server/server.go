package server

import (
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"

	"github.com/Mutter0815/PageBuilder/docs"
	"github.com/Mutter0815/PageBuilder/internal/campaign"
	"github.com/Mutter0815/PageBuilder/internal/page"
	"github.com/Mutter0815/PageBuilder/pkg/metrics"
)

var registerOnce sync.Once

// registerValidators adds the slug rule and reports fields by their JSON
// names.
func registerValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return campaign.ValidSlug(fl.Field().String())
		})
	})
}

func NewHTTPServer(addr string, h *Handlers) *http.Server {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), Observability(), Language(h.DefaultLang))
	r.SetHTMLTemplate(page.Templates)

	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/docs", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", docs.SwaggerHTML)
	})
	r.GET("/docs/page-builder-api/openapi.yaml", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/yaml; charset=utf-8", docs.OpenAPI)
	})

	r.GET("/api/variants", h.Variants)
	r.GET("/api/pages/:slug", h.PageJSON)
	r.GET("/p/:slug", h.PageHTML)

	// login and logout must work while a stale token is still being sent
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/me", Authenticate(h.Auth), h.Me)

	admin := r.Group("/api/admin", Authenticate(h.Auth))
	admin.POST("/users", h.RegisterUser)

	admin.GET("/campaigns", h.ListCampaigns)
	admin.POST("/campaigns", h.CreateCampaign)
	admin.GET("/campaigns/:slug", h.GetCampaign)
	admin.PATCH("/campaigns/:slug", h.UpdateCampaign)
	admin.DELETE("/campaigns/:slug", h.DeleteCampaign)

	ed := admin.Group("/editor/sessions")
	ed.POST("", h.OpenSession)
	ed.GET("/:id", h.GetSession)
	ed.DELETE("/:id", h.CloseSession)
	ed.PATCH("/:id", h.UpdateForm)
	ed.POST("/:id/load", h.LoadSession)
	ed.POST("/:id/submit", h.SubmitSession)
	ed.POST("/:id/sections", h.AddSection)
	ed.DELETE("/:id/sections/:index", h.RemoveSection)
	ed.PATCH("/:id/sections/:index", h.UpdateSection)
	ed.POST("/:id/sections/:index/move", h.MoveSection)
	ed.POST("/:id/sections/:index/buttons", h.AddButton)
	ed.DELETE("/:id/sections/:index/buttons/:button", h.RemoveButton)
	ed.PATCH("/:id/sections/:index/buttons/:button", h.UpdateButton)

	var handler http.Handler = r
	// no origins configured means same-origin only
	if len(h.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins:   h.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Authorization", "Accept-Language", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
		}).Handler(r)
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
