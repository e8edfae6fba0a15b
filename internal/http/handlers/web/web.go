package web

import (
	"embed"
	"html/template"
	"time"

	"github.com/palmapernia/tp-django/internal/provider"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler 服务端渲染页面处理器
// 说明：页面请求会经过访问统计中间件。
type Handler struct {
	*provider.Container
}

// New 创建页面处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

// Templates 解析内嵌页面模板
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
		"percent": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
	}).ParseFS(templateFS, "templates/*.html")
}
