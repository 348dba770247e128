package controllers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rellab/rellab-server/app-service/providers"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/utils-go"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
)

type AuthController struct {
	fx.In

	Users   *repos.UserRepo
	Mailer  providers.Mailer
	Storage fiber.Storage `optional:"true"`
}

var (
	jwtSecret     []byte
	sessionTtl    time.Duration
	secureCookies bool
)

func RegisterAuthController(r *utils.Router, config *config.Config, c AuthController) {
	jwtSecret = config.JwtSecretBytes()
	sessionTtl = config.SessionTtl
	secureCookies = config.IsProduction

	r.Get("/login", c.loginForm)
	r.Post("/login", utils.LoginLimiter(config.LoginRateLimit, c.Storage), c.login)
	r.Post("/logout", c.logout)
	r.Post("/register", c.register)

	profile := r.Group("/profile", utils.Authenticated(config.LoginPath))
	profile.Get("/", c.profile)
	profile.Put("/", c.updateProfile)
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type registerRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=1,max=255"`
	Email    string `json:"email" form:"email" validate:"required,email,max=255"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=128"`
}

type profileRequest struct {
	Name                 string `json:"name" form:"name" validate:"required,min=1,max=255"`
	Email                string `json:"email" form:"email" validate:"required,email,max=255"`
	Password             string `json:"password" form:"password" validate:"omitempty,min=8,max=128"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation"`
}

func (r *AuthController) loginForm(c *fiber.Ctx) error {
	return render(c, "auth/login", fiber.Map{
		"PageTitle": "Log in",
	})
}

func (r *AuthController) login(c *fiber.Ctx) error {
	req := new(loginRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	user, err := r.Users.GetUserByEmail(c.Context(), req.Email)
	if err != nil && !errors.Is(err, repos.ErrNotFound) {
		return utils.StandardInternalError(c, err)
	}

	if user == nil || !utils.VerifyHash(req.Password, user.PasswordHash) {
		log.Info().Str("email", req.Email).Msg("Rejected login")
		c.Status(fiber.StatusUnauthorized)
		return render(c, "auth/login", fiber.Map{
			"PageTitle": "Log in",
			"Email":     req.Email,
			"Error":     "These credentials do not match our records.",
		})
	}

	token, err := utils.CreateSessionToken(user.Id, sessionTtl, jwtSecret)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	utils.SetSessionCookie(c, token, sessionTtl, secureCookies)
	return c.Redirect("/app/dashboard", fiber.StatusFound)
}

func (r *AuthController) logout(c *fiber.Ctx) error {
	utils.ClearSessionCookie(c)
	return c.Redirect("/", fiber.StatusFound)
}

func (r *AuthController) register(c *fiber.Ctx) error {
	req := new(registerRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.StandardInternalError(c, err)
	}

	user := &userdata.User{Name: req.Name, Email: req.Email, PasswordHash: hash}
	if err := r.Users.Create(c.Context(), user); err != nil {
		return repoError(c, err, "user")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (r *AuthController) profile(c *fiber.Ctx) error {
	identity, _ := utils.CurrentIdentity(c)

	user, err := r.Users.GetUser(c.Context(), identity.UserId)
	if err != nil {
		return repoError(c, err, "user")
	}

	return render(c, "auth/profile", fiber.Map{
		"PageTitle": "Profile",
		"User":      user,
	})
}

func (r *AuthController) updateProfile(c *fiber.Ctx) error {
	identity, _ := utils.CurrentIdentity(c)

	req := new(profileRequest)
	if err := c.BodyParser(req); err != nil {
		return utils.StandardCouldNotParse(c)
	}

	if errs := utils.ValidateInput(req); errs != nil {
		return utils.StandardValidationError(c, errs)
	}

	if req.Password != req.PasswordConfirmation {
		return utils.StandardUnprocessable(c, "password", "The password confirmation does not match.")
	}

	hash := ""
	if req.Password != "" {
		var err error
		if hash, err = utils.HashPassword(req.Password); err != nil {
			return utils.StandardInternalError(c, err)
		}
	}

	if err := r.Users.UpdateProfile(c.Context(), identity.UserId, req.Name, req.Email, hash); err != nil {
		return repoError(c, err, "user")
	}

	if hash != "" {
		if err := r.Mailer.Send(req.Email, "Your password was changed", providers.PasswordChangedBody(req.Name)); err != nil {
			log.Warn().Err(err).Int64("user", identity.UserId).Msg("Could not send password change notice")
		}
	}

	return c.Redirect("/profile", fiber.StatusFound)
}
