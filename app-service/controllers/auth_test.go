package controllers

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/utils-go"
)

func TestRegisterAndLogin(t *testing.T) {
	h := newHarness(t)

	resp := h.sendJson(t, fiber.MethodPost, "/register", `{"name":"Alex","email":"alex@example.com","password":"secret-password"}`, "")
	if resp.status != fiber.StatusCreated || strings.Contains(resp.body, "argon2") {
		t.Fatalf("register = %d %s", resp.status, resp.body)
	}

	resp = h.sendJson(t, fiber.MethodPost, "/register", `{"name":"Other","email":"alex@example.com","password":"secret-password"}`, "")
	if resp.status != fiber.StatusConflict {
		t.Fatalf("duplicate register = %d", resp.status)
	}

	resp = h.get(t, "/login", "")
	if resp.status != fiber.StatusOK || !strings.Contains(resp.body, `action="/login"`) {
		t.Fatalf("login form = %d", resp.status)
	}

	resp = h.sendForm(t, fiber.MethodPost, "/login", url.Values{"email": {"alex@example.com"}, "password": {"wrong-password"}}, "")
	if resp.status != fiber.StatusUnauthorized || !strings.Contains(resp.body, "These credentials do not match our records.") {
		t.Fatalf("bad login = %d %s", resp.status, resp.body)
	}

	resp = h.sendForm(t, fiber.MethodPost, "/login", url.Values{"email": {"alex@example.com"}, "password": {"secret-password"}}, "")
	if resp.status != fiber.StatusFound || resp.header.Get("Location") != "/app/dashboard" {
		t.Fatalf("login = %d %q", resp.status, resp.header.Get("Location"))
	}

	cookie := sessionCookieFrom(resp.header.Values("Set-Cookie"))
	if cookie == "" {
		t.Fatalf("login did not set the session cookie")
	}

	resp = h.get(t, "/app/dashboard", cookie)
	if resp.status != fiber.StatusOK || !strings.Contains(resp.body, "Welcome back, Alex") {
		t.Fatalf("dashboard = %d %s", resp.status, resp.body)
	}

	resp = h.do(t, newRequest(fiber.MethodPost, "/logout"), cookie)
	if resp.status != fiber.StatusFound || resp.header.Get("Location") != "/" {
		t.Fatalf("logout = %d", resp.status)
	}
}

func TestProfileUpdate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	alex := h.createUser(t, "Alex", "alex@example.com", false)
	h.createUser(t, "Sam", "sam@example.com", false)
	cookie := h.sessionCookie(t, alex)

	resp := h.get(t, "/profile", "")
	if resp.status != fiber.StatusFound {
		t.Fatalf("anonymous profile = %d", resp.status)
	}

	resp = h.get(t, "/profile", cookie)
	if resp.status != fiber.StatusOK || !strings.Contains(resp.body, `value="alex@example.com"`) {
		t.Fatalf("profile = %d %s", resp.status, resp.body)
	}

	resp = h.sendForm(t, fiber.MethodPut, "/profile", url.Values{
		"name": {"Alex"}, "email": {"alex@example.com"},
		"password": {"new-password"}, "password_confirmation": {"different"},
	}, cookie)
	if resp.status != fiber.StatusUnprocessableEntity {
		t.Fatalf("mismatched confirmation = %d", resp.status)
	}

	resp = h.sendForm(t, fiber.MethodPut, "/profile", url.Values{"name": {"Alex"}, "email": {"sam@example.com"}}, cookie)
	if resp.status != fiber.StatusConflict {
		t.Fatalf("taken email = %d", resp.status)
	}

	resp = h.sendForm(t, fiber.MethodPut, "/profile", url.Values{"name": {"Alexander"}, "email": {"alex@example.com"}}, cookie)
	if resp.status != fiber.StatusFound || resp.header.Get("Location") != "/profile" {
		t.Fatalf("update = %d %s", resp.status, resp.body)
	}
	if len(h.mailer.sent) != 0 {
		t.Fatalf("mail sent without a password change")
	}

	resp = h.sendForm(t, fiber.MethodPost, "/profile", url.Values{
		"_method": {"PUT"}, "name": {"Alexander"}, "email": {"alex@example.com"},
		"password": {"new-password"}, "password_confirmation": {"new-password"},
	}, cookie)
	if resp.status != fiber.StatusFound {
		t.Fatalf("password update = %d %s", resp.status, resp.body)
	}

	user, err := h.users.GetUser(ctx, alex.Id)
	if err != nil {
		t.Fatal(err)
	}
	if user.Name != "Alexander" || !utils.VerifyHash("new-password", user.PasswordHash) {
		t.Fatalf("profile not saved: %+v", user)
	}
	if len(h.mailer.sent) != 1 || h.mailer.sent[0].to != "alex@example.com" {
		t.Fatalf("password notice = %+v", h.mailer.sent)
	}
}

func sessionCookieFrom(setCookies []string) string {
	for _, value := range setCookies {
		pair := strings.SplitN(value, ";", 2)[0]
		if strings.HasPrefix(pair, utils.AccessTokenCookie+"=") {
			return pair
		}
	}
	return ""
}
