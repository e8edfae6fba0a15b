package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

// 支持的语言
const (
	LocaleEN = "en-US"
	LocaleFR = "fr-FR"
	LocaleZH = "zh-CN"
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleEN

var supported = []language.Tag{
	language.AmericanEnglish,
	language.French,
	language.SimplifiedChinese,
}

var tagLocales = []string{LocaleEN, LocaleFR, LocaleZH}

var matcher = language.NewMatcher(supported)

// T 翻译消息，缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if msg, ok := lookup(locale, key); ok {
		return msg
	}
	if msg, ok := lookup(DefaultLocale, key); ok {
		return msg
	}
	return key
}

// Sprintf 翻译并格式化消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}

func lookup(locale, key string) (string, bool) {
	catalog, ok := catalogs[locale]
	if !ok {
		return "", false
	}
	msg, ok := catalog[key]
	return msg, ok
}

// ResolveLocale 从请求解析语言：?lang= 优先，其次 Accept-Language
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if value, ok := c.Get("locale"); ok {
		if locale, ok := value.(string); ok && locale != "" {
			return locale
		}
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Match(lang)
	}
	return Match(c.GetHeader("Accept-Language"))
}

// Match 将任意语言描述匹配到支持的语言
func Match(accept string) string {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return tagLocales[index]
}
