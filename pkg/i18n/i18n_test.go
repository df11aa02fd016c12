package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"
)

func TestTranslate(t *testing.T) {
	if got := T(language.English, "page.faq_heading"); got != "Frequently asked questions" {
		t.Fatalf("en faq heading = %q", got)
	}
	if got := T(language.Persian, "page.faq_heading"); got != "سوالات متداول" {
		t.Fatalf("fa faq heading = %q", got)
	}
	if got := T(language.English, "no.such.key"); got != "no.such.key" {
		t.Fatalf("unknown key = %q", got)
	}
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	for k := range english {
		if _, ok := persian[k]; !ok {
			t.Errorf("fa missing %q", k)
		}
	}
	for k := range persian {
		if _, ok := english[k]; !ok {
			t.Errorf("en missing %q", k)
		}
	}
}

func TestResolveTag(t *testing.T) {
	t.Run("query wins", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/p/x?lang=fa", nil)
		r.Header.Set("Accept-Language", "en-US")
		if got := ResolveTag(r, language.English); got != language.Persian {
			t.Fatalf("got %v", got)
		}
	})
	t.Run("cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/p/x", nil)
		r.AddCookie(&http.Cookie{Name: LangCookieName, Value: "fa"})
		if got := ResolveTag(r, language.English); got != language.Persian {
			t.Fatalf("got %v", got)
		}
	})
	t.Run("accept-language", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/p/x", nil)
		r.Header.Set("Accept-Language", "fa-IR,fa;q=0.9")
		if got := ResolveTag(r, language.English); got != language.Persian {
			t.Fatalf("got %v", got)
		}
	})
	t.Run("default", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/p/x?lang=zz-invalid-", nil)
		if got := ResolveTag(r, language.English); got != language.English {
			t.Fatalf("got %v", got)
		}
	})
}

func TestIsRTL(t *testing.T) {
	if !IsRTL(language.Persian) || IsRTL(language.English) {
		t.Fatal("rtl detection wrong")
	}
}
