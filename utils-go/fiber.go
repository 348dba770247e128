package utils

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt"
	"github.com/rs/zerolog/log"
)

const (
	authScheme        = "Bearer"
	identityKey       = "identity"
	AccessTokenCookie = "accessToken"
	sessionSubject    = "access"
)

type Router struct {
	fiber.Router
}

// Identity is the authenticated user attached to a request by Session.
type Identity struct {
	UserId  int64
	Name    string
	Email   string
	IsAdmin bool
}

// IdentityLoader resolves a user id taken from a session token. It returns
// (nil, nil) when the user no longer exists.
type IdentityLoader func(ctx context.Context, userId int64) (*Identity, error)

type SessionConfig struct {
	Secret []byte
	Loader IdentityLoader
}

type JwtConfig struct {
	User     string
	ExpireIn time.Duration
	Subject  string
	Secret   []byte
}

type sessionClaims struct {
	User string `json:"user"`
	jwt.StandardClaims
}

func GetDefaultRouter(app *fiber.App) *Router {
	temp := app.Group("")
	return &Router{Router: temp}
}

func CreateJwt(c JwtConfig) (string, error) {
	now := time.Now().UTC()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		User: c.User,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			NotBefore: now.Unix(),
			Subject:   c.Subject,
			ExpiresAt: now.Add(c.ExpireIn).Unix(),
		},
	}).SignedString(c.Secret)
}

func ParseJwt(rawToken string, secret []byte) (*sessionClaims, error) {
	claims := new(sessionClaims)
	tok, err := jwt.ParseWithClaims(rawToken, claims, func(jwtToken *jwt.Token) (interface{}, error) {
		if _, ok := jwtToken.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected method: %s", jwtToken.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errors.New("invalid JWT")
	}
	return claims, nil
}

// CreateSessionToken issues the access token stored in the session cookie.
func CreateSessionToken(userId int64, ttl time.Duration, secret []byte) (string, error) {
	return CreateJwt(JwtConfig{
		User:     strconv.FormatInt(userId, 10),
		ExpireIn: ttl,
		Subject:  sessionSubject,
		Secret:   secret,
	})
}

func readToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	l := len(authScheme)
	if len(auth) > l+1 && strings.EqualFold(auth[:l], authScheme) {
		return auth[l+1:]
	}
	return c.Cookies(AccessTokenCookie)
}

// Session attaches the identity carried by a valid token. Requests without a
// usable token continue anonymously.
func Session(config SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawToken := readToken(c)
		if rawToken == "" {
			return c.Next()
		}

		claims, err := ParseJwt(rawToken, config.Secret)
		if err != nil || claims.Subject != sessionSubject {
			log.Debug().Err(err).Msg("Discarding session token")
			return c.Next()
		}

		id, err := strconv.ParseInt(claims.User, 10, 64)
		if err != nil {
			return c.Next()
		}

		identity, err := config.Loader(c.UserContext(), id)
		if err != nil {
			return StandardInternalError(c, err)
		}
		if identity != nil {
			c.Locals(identityKey, identity)
		}

		return c.Next()
	}
}

func CurrentIdentity(c *fiber.Ctx) (*Identity, bool) {
	identity, ok := c.Locals(identityKey).(*Identity)
	return identity, ok && identity != nil
}

func Authenticated(loginPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentIdentity(c); !ok {
			return c.Redirect(loginPath, fiber.StatusFound)
		}
		return c.Next()
	}
}

// AuthenticatedApi rejects anonymous API calls with 401 instead of redirecting.
func AuthenticatedApi() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentIdentity(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error":             "unauthenticated",
				"error_description": "A valid session is required",
			})
		}
		return c.Next()
	}
}

// AdminOnly must be mounted after Authenticated.
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		if !ok || !identity.IsAdmin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":             "access_denied",
				"error_description": "Admin access required",
			})
		}
		return c.Next()
	}
}

func SetSessionCookie(c *fiber.Ctx, token string, ttl time.Duration, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx) {
	c.ClearCookie(AccessTokenCookie)
}

func ParamId(c *fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

func StandardInternalError(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("Request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func StandardCouldNotParse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Could not parse request",
	})
}

func StandardNotFound(c *fiber.Ctx, what string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": what + " not found",
	})
}

func StandardConflict(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func StandardValidationError(c *fiber.Ctx, errs []*ErrorResponse) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errors": errs,
	})
}

// StandardUnprocessable rejects a request whose fields parsed but failed a
// content rule, such as an upload size limit.
func StandardUnprocessable(c *fiber.Ctx, field, message string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"errors": map[string]string{field: message},
	})
}
