package controllers

import (
	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"go.uber.org/fx"
)

type SessionController struct {
	fx.In

	Users *repos.UserRepo
}

// RegisterSessionController must run before every other controller so the
// identity is resolved ahead of their routes.
func RegisterSessionController(r *utils.Router, config *config.Config, c SessionController) {
	r.Use(utils.Session(utils.SessionConfig{
		Secret: config.JwtSecretBytes(),
		Loader: c.Users.GetIdentity,
	}))
}
