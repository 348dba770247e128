package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/utils-go"
)

func RegisterPagesController(r *utils.Router) {
	r.Get("/", welcome)
	r.Get("/about", about)
	r.Get("/authenticated", authenticationStatus)
	r.Get("/alert", alert)
	r.Get("/layout", layoutPage)
}

// alertMessage is user-like content that must reach the page escaped.
const alertMessage = `<script>alert("I am a modal")</script>`

func welcome(c *fiber.Ctx) error {
	return render(c, "welcome", fiber.Map{
		"PageTitle": "Homepage",
		"MetaTitle": "Blade Test",
	})
}

func about(c *fiber.Ctx) error {
	return render(c, "pages/about", fiber.Map{
		"PageTitle": "About",
	})
}

func authenticationStatus(c *fiber.Ctx) error {
	return render(c, "auth/status", nil)
}

func alert(c *fiber.Ctx) error {
	return render(c, "pages/alert", fiber.Map{
		"PageTitle": "Alert",
		"Message":   alertMessage,
	})
}

func layoutPage(c *fiber.Ctx) error {
	return render(c, "pages/layout", nil, "layouts/plain")
}
