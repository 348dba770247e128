package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/internal/testdb"
	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rellab/rellab-server/app-service/repos"
	"github.com/rellab/rellab-server/app-service/views"
	"github.com/rellab/rellab-server/server-go"
	"github.com/rellab/rellab-server/storage-go"
	"github.com/rellab/rellab-server/utils-go"
	"github.com/uptrace/bun"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	sent []sentMail
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.sent = append(m.sent, sentMail{to, subject, body})
	return nil
}

type harness struct {
	app    *fiber.App
	db     *bun.DB
	config *config.Config
	disks  *config.Disks
	mailer *recordingMailer

	users       *repos.UserRepo
	countries   *repos.CountryRepo
	teams       *repos.TeamRepo
	projects    *repos.ProjectRepo
	roles       *repos.RoleRepo
	tasks       *repos.TaskRepo
	comments    *repos.CommentRepo
	attachments *repos.AttachmentRepo
	houses      *repos.HouseRepo
	offices     *repos.OfficeRepo
	shops       *repos.ShopRepo
	companies   *repos.CompanyRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	root := t.TempDir()
	cfg := &config.Config{
		AppName:        "Rellab",
		Timeout:        5,
		ReadBufferSize: 4096,
		BodyLimit:      4 * 1024 * 1024,
		JwtSecret:      "test-secret",
		SessionTtl:     time.Hour,
		LoginPath:      "/login",
		LoginRateLimit: 100,
		Storage: config.StorageConfig{
			Root:       filepath.Join(root, "app"),
			PublicRoot: filepath.Join(root, "public"),
			PublicUrl:  "/storage",
		},
		Uploads: config.UploadConfig{MaxLogoKb: 1},
	}

	serverConfig, err := config.ProvideServerConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}

	engine, err := views.ProvideViews()
	if err != nil {
		t.Fatal(err)
	}

	disks, err := config.ProvideDisks(cfg)
	if err != nil {
		t.Fatal(err)
	}

	db := testdb.New(t)
	h := &harness{
		app:         server.CreateServer(serverConfig, engine),
		db:          db,
		config:      cfg,
		disks:       disks,
		mailer:      &recordingMailer{},
		users:       repos.NewUserRepo(db),
		countries:   repos.NewCountryRepo(db),
		teams:       repos.NewTeamRepo(db),
		projects:    repos.NewProjectRepo(db),
		roles:       repos.NewRoleRepo(db),
		tasks:       repos.NewTaskRepo(db),
		comments:    repos.NewCommentRepo(db),
		attachments: repos.NewAttachmentRepo(db),
		houses:      repos.NewHouseRepo(db),
		offices:     repos.NewOfficeRepo(db),
		shops:       repos.NewShopRepo(db),
		companies:   repos.NewCompanyRepo(db),
	}

	r := utils.GetDefaultRouter(h.app)
	RegisterSessionController(r, cfg, SessionController{Users: h.users})
	RegisterPagesController(r)
	RegisterAuthController(r, cfg, AuthController{Users: h.users, Mailer: h.mailer})
	RegisterCountriesController(r, CountriesController{Repo: h.countries})
	RegisterTeamsController(r, TeamsController{Repo: h.teams, CountryRepo: h.countries})
	RegisterUsersController(r, UsersController{Repo: h.users})
	RegisterRolesController(r, RolesController{Repo: h.roles})
	RegisterProjectsController(r, cfg, ProjectsController{Repo: h.projects, Disks: disks})
	RegisterTasksController(r, cfg, TasksController{Repo: h.tasks, CommentRepo: h.comments, Disks: disks})
	RegisterAttachmentsController(r, AttachmentsController{Repo: h.attachments, Disks: disks})
	RegisterHousesController(r, cfg, HousesController{Repo: h.houses, OfficeRepo: h.offices, Disks: disks})
	RegisterShopsController(r, ShopsController{Repo: h.shops, CompanyRepo: h.companies, Disks: disks})
	RegisterAdminController(r, cfg, AdminController{Users: h.users, Projects: h.projects, Tasks: h.tasks})

	return h
}

func (h *harness) createUser(t *testing.T, name, email string, admin bool) *userdata.User {
	t.Helper()

	hash, err := utils.HashPassword("password")
	if err != nil {
		t.Fatal(err)
	}

	user := &userdata.User{Name: name, Email: email, PasswordHash: hash, IsAdmin: admin}
	if err := h.users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// sessionCookie returns a Cookie header value authenticating as user.
func (h *harness) sessionCookie(t *testing.T, user *userdata.User) string {
	t.Helper()

	token, err := utils.CreateSessionToken(user.Id, time.Hour, h.config.JwtSecretBytes())
	if err != nil {
		t.Fatal(err)
	}
	return utils.AccessTokenCookie + "=" + token
}

type response struct {
	status int
	header http.Header
	body   string
}

func (h *harness) do(t *testing.T, req *http.Request, cookie string) response {
	t.Helper()

	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := h.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}

	return response{status: resp.StatusCode, header: resp.Header, body: string(body)}
}

func (h *harness) get(t *testing.T, path, cookie string) response {
	return h.do(t, httptest.NewRequest(fiber.MethodGet, path, nil), cookie)
}

func (h *harness) sendJson(t *testing.T, method, path, body, cookie string) response {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return h.do(t, req, cookie)
}

func (h *harness) sendForm(t *testing.T, method, path string, form url.Values, cookie string) response {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return h.do(t, req, cookie)
}

type upload struct {
	field, filename string
	content         []byte
}

func (h *harness) sendMultipart(t *testing.T, method, path string, fields map[string]string, files []upload, cookie string) response {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return h.do(t, req, cookie)
}

// attach uploads content as filename to an attachment route and returns the
// created attachment.
func (h *harness) attach(t *testing.T, path, filename, content string) *tasks.Attachment {
	t.Helper()

	resp := h.sendMultipart(t, fiber.MethodPost, path, nil, []upload{{"file", filename, []byte(content)}}, "")
	if resp.status != fiber.StatusCreated {
		t.Fatalf("attach %s = %d %s", path, resp.status, resp.body)
	}

	attachment := new(tasks.Attachment)
	if err := json.Unmarshal([]byte(resp.body), attachment); err != nil {
		t.Fatal(err)
	}
	return attachment
}

func (h *harness) blob(t *testing.T, disk *storage.Disk, key string) string {
	t.Helper()

	f, err := disk.Open(key)
	if err != nil {
		t.Fatalf("open %s: %v", key, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	return string(content)
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}
