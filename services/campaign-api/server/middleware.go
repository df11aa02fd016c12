package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/Mutter0815/PageBuilder/internal/auth"
	"github.com/Mutter0815/PageBuilder/pkg/i18n"
	"github.com/Mutter0815/PageBuilder/pkg/logx"
	"github.com/Mutter0815/PageBuilder/pkg/metrics"
)

const (
	SessionCookieName = "pb_session"

	ctxRequestID = "request_id"
	ctxLang      = "lang"
	ctxPrincipal = "principal"
)

func Observability() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.Request.Header.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", rid)

		c.Set(ctxRequestID, rid)
		c.Next()

		lat := time.Since(start).Seconds()
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		metrics.APIRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		metrics.APIRequestDuration.WithLabelValues(c.Request.Method, path).Observe(lat)

		logx.L().Infow("http_access",
			"rid", rid,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration", lat,
			"client_ip", c.ClientIP(),
		)
	}
}

// Language resolves the response language once per request. An explicit
// ?lang= is remembered in the pb_lang cookie.
func Language(def language.Tag) gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := i18n.ResolveTag(c.Request, def)
		if raw := c.Query(i18n.LangParam); raw != "" {
			if _, ok := i18n.Parse(raw); ok {
				c.SetSameSite(http.SameSiteLaxMode)
				c.SetCookie(i18n.LangCookieName, tag.String(), 365*24*3600, "/", "", false, false)
			}
		}
		c.Set(ctxLang, tag)
		c.Next()
	}
}

// Authenticate reads the bearer token or session cookie. No credentials
// leave the request anonymous; bad credentials end it with 401.
func Authenticate(a authAPI) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearer(c.GetHeader("Authorization"))
		fromCookie := false
		if raw == "" {
			if v, err := c.Cookie(SessionCookieName); err == nil {
				raw, fromCookie = v, true
			}
		}
		if raw == "" {
			c.Next()
			return
		}
		p, err := a.Authenticate(raw)
		if err != nil {
			if fromCookie {
				clearSessionCookie(c)
			}
			writeError(c, err)
			c.Abort()
			return
		}
		c.Set(ctxPrincipal, p)
		c.Next()
	}
}

func bearer(h string) string {
	const prefix = "bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

func principalOf(c *gin.Context) auth.Principal {
	if v, ok := c.Get(ctxPrincipal); ok {
		if p, ok := v.(auth.Principal); ok {
			return p
		}
	}
	return auth.Principal{}
}

func langOf(c *gin.Context) language.Tag {
	if v, ok := c.Get(ctxLang); ok {
		if tag, ok := v.(language.Tag); ok {
			return tag
		}
	}
	return language.English
}

func requestID(c *gin.Context) string { return c.GetString(ctxRequestID) }

func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", c.Request.TLS != nil, true)
}
