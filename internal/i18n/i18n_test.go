package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMatch(t *testing.T) {
	cases := map[string]string{
		"":                    LocaleEN,
		"fr-CA,fr;q=0.9":      LocaleFR,
		"zh-Hans-CN":          LocaleZH,
		"de-DE":               LocaleEN,
		"en-GB,en;q=0.8":      LocaleEN,
		"not a language tag!": LocaleEN,
	}
	for input, want := range cases {
		if got := Match(input); got != want {
			t.Fatalf("Match(%q) want %s got %s", input, want, got)
		}
	}
}

func TestTFallsBack(t *testing.T) {
	if got := T(LocaleFR, "error.unauthorized"); got == "error.unauthorized" {
		t.Fatalf("french message should exist")
	}
	if got := T("xx-XX", "error.unauthorized"); got != T(LocaleEN, "error.unauthorized") {
		t.Fatalf("unknown locale should fall back to default")
	}
	if got := T(LocaleEN, "no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key should return key, got %s", got)
	}
}

func TestCatalogsShareKeys(t *testing.T) {
	for key := range catalogs[DefaultLocale] {
		for locale, catalog := range catalogs {
			if _, ok := catalog[key]; !ok {
				t.Fatalf("locale %s missing key %s", locale, key)
			}
		}
	}
}

func TestResolveLocaleFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?lang=fr", nil)
	c.Request.Header.Set("Accept-Language", "zh-CN")
	if got := ResolveLocale(c); got != LocaleFR {
		t.Fatalf("query should win, got %s", got)
	}
}
