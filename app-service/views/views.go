package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templates embed.FS

// ProvideViews returns the html engine over the embedded templates.
func ProvideViews() (fiber.Views, error) {
	root, err := fs.Sub(templates, "templates")
	if err != nil {
		return nil, err
	}

	engine := html.NewFileSystem(http.FS(root), ".html")
	engine.AddFunc("orDash", func(value string) string {
		if value == "" {
			return "—"
		}
		return value
	})

	engine.AddFunc("odd", func(i int) bool {
		return i%2 == 1
	})

	return engine, nil
}
