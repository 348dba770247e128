package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/rellab/rellab-server/app-service/models/userdata"
)

func TestCountriesShowAverageTeamSize(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	uk := &userdata.Country{Name: "United Kingdom"}
	iceland := &userdata.Country{Name: "Iceland"}
	for _, c := range []*userdata.Country{uk, iceland} {
		if err := h.countries.Create(ctx, c); err != nil {
			t.Fatal(err)
		}
	}

	for _, size := range []int{3, 5} {
		resp := h.sendJson(t, fiber.MethodPost, "/teams", fmt.Sprintf(`{"name":"Team %d","size":%d,"country_id":%d}`, size, size, uk.Id), "")
		if resp.status != fiber.StatusCreated {
			t.Fatalf("create team: %d %s", resp.status, resp.body)
		}
	}

	resp := h.get(t, "/countries", "")
	if resp.status != fiber.StatusOK {
		t.Fatalf("status = %d", resp.status)
	}
	if !strings.Contains(resp.body, "United Kingdom: avg team size 4") {
		t.Fatalf("missing average in %s", resp.body)
	}
	if !strings.Contains(resp.body, "Iceland") || strings.Contains(resp.body, "Iceland:") {
		t.Fatalf("country without teams rendered wrong: %s", resp.body)
	}
}

func TestCreateTeamForUnknownCountry(t *testing.T) {
	h := newHarness(t)

	resp := h.sendJson(t, fiber.MethodPost, "/teams", `{"name":"Lost","size":2,"country_id":99}`, "")
	if resp.status != fiber.StatusNotFound {
		t.Fatalf("status = %d", resp.status)
	}

	resp = h.sendJson(t, fiber.MethodPost, "/teams", `{"name":"","size":2}`, "")
	if resp.status != fiber.StatusBadRequest {
		t.Fatalf("validation status = %d", resp.status)
	}
}

func TestShowTeamWithCountry(t *testing.T) {
	h := newHarness(t)

	resp := h.sendJson(t, fiber.MethodPost, "/countries", `{"name":"United Kingdom"}`, "")
	if resp.status != fiber.StatusCreated {
		t.Fatalf("create country = %d %s", resp.status, resp.body)
	}

	resp = h.sendJson(t, fiber.MethodPost, "/teams", `{"name":"Red","size":3,"country_id":1}`, "")
	if resp.status != fiber.StatusCreated {
		t.Fatalf("create team = %d %s", resp.status, resp.body)
	}

	resp = h.get(t, "/teams/1", "")
	if resp.status != fiber.StatusOK || !strings.Contains(resp.body, `"name":"United Kingdom"`) {
		t.Fatalf("show team = %d %s", resp.status, resp.body)
	}

	resp = h.get(t, "/teams/99", "")
	if resp.status != fiber.StatusNotFound {
		t.Fatalf("show missing team = %d", resp.status)
	}
}

func TestTeamsPageShowsPivotColumns(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	user := h.createUser(t, "Taylor", "taylor@example.com", false)
	team := &userdata.Team{Name: "Backend", Size: 4}
	if err := h.teams.Create(ctx, team); err != nil {
		t.Fatal(err)
	}

	path := fmt.Sprintf("/teams/%d/users", team.Id)
	resp := h.sendJson(t, fiber.MethodPost, path, fmt.Sprintf(`{"user_id":%d,"position":"Manager"}`, user.Id), "")
	if resp.status != fiber.StatusCreated {
		t.Fatalf("add member: %d %s", resp.status, resp.body)
	}

	resp = h.sendJson(t, fiber.MethodPost, path, fmt.Sprintf(`{"user_id":%d,"position":"Again"}`, user.Id), "")
	if resp.status != fiber.StatusConflict {
		t.Fatalf("duplicate member status = %d", resp.status)
	}

	rosters, err := h.teams.ListWithMembers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	joinedAt := rosters[0].Members[0].JoinedAt()

	resp = h.get(t, "/teams", "")
	if resp.status != fiber.StatusOK {
		t.Fatalf("status = %d", resp.status)
	}
	for _, want := range []string{"Backend", "Taylor", "Manager", joinedAt} {
		if !strings.Contains(resp.body, want) {
			t.Fatalf("teams page misses %q: %s", want, resp.body)
		}
	}
}

func TestUsersPageListsOnlyProjectMembers(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	alex := h.createUser(t, "Alex", "alex@example.com", false)
	h.createUser(t, "Sam", "sam@example.com", false)

	project := &userdata.Project{Name: "Apollo"}
	if err := h.projects.Create(ctx, project); err != nil {
		t.Fatal(err)
	}

	path := fmt.Sprintf("/projects/%d/join", project.Id)

	resp := h.sendJson(t, fiber.MethodPost, path, `{"start_date":"2022-01-01"}`, "")
	if resp.status != fiber.StatusFound || resp.header.Get("Location") != "/login" {
		t.Fatalf("anonymous join = %d %q", resp.status, resp.header.Get("Location"))
	}

	cookie := h.sessionCookie(t, alex)
	resp = h.sendJson(t, fiber.MethodPost, path, `{"start_date":"2022-01-01"}`, cookie)
	if resp.status != fiber.StatusOK || !strings.Contains(resp.body, `"message":"Success"`) {
		t.Fatalf("join = %d %s", resp.status, resp.body)
	}

	resp = h.sendJson(t, fiber.MethodPost, path, `{"start_date":"2022-01-01"}`, cookie)
	if resp.status != fiber.StatusConflict {
		t.Fatalf("second join = %d", resp.status)
	}

	resp = h.sendJson(t, fiber.MethodPost, "/projects/999/join", `{}`, cookie)
	if resp.status != fiber.StatusNotFound {
		t.Fatalf("join missing project = %d", resp.status)
	}

	resp = h.get(t, "/users", "")
	if resp.status != fiber.StatusOK {
		t.Fatalf("status = %d", resp.status)
	}
	if !strings.Contains(resp.body, "Alex") || !strings.Contains(resp.body, "2022-01-01") || !strings.Contains(resp.body, "Apollo") {
		t.Fatalf("users page misses Alex's project: %s", resp.body)
	}
	if !strings.Contains(resp.body, "<td>alex@example.com</td>") {
		t.Fatalf("users page misses Alex's email: %s", resp.body)
	}
	if strings.Contains(resp.body, "Sam") || strings.Contains(resp.body, "sam@example.com") {
		t.Fatalf("users page lists a user without projects: %s", resp.body)
	}
}

func TestJoinProjectDefaultsStartDate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	alex := h.createUser(t, "Alex", "alex@example.com", false)
	project := &userdata.Project{Name: "Rellab"}
	if err := h.projects.Create(ctx, project); err != nil {
		t.Fatal(err)
	}

	resp := h.sendJson(t, fiber.MethodPost, fmt.Sprintf("/projects/%d/join", project.Id), "", h.sessionCookie(t, alex))
	if resp.status != fiber.StatusOK {
		t.Fatalf("join = %d %s", resp.status, resp.body)
	}

	list, err := h.users.ListWithProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	today := time.Now().UTC().Format(joined_models.StartDateLayout)
	if len(list) != 1 || list[0].Projects[0].StartDate != today {
		t.Fatalf("start date = %+v, want %s", list, today)
	}
}

func TestRolesPage(t *testing.T) {
	h := newHarness(t)

	alex := h.createUser(t, "Alex", "alex@example.com", false)

	resp := h.sendJson(t, fiber.MethodPost, "/roles", `{"name":"Administrator"}`, "")
	if resp.status != fiber.StatusCreated {
		t.Fatalf("create role = %d %s", resp.status, resp.body)
	}

	resp = h.sendJson(t, fiber.MethodPost, "/roles/1/users", fmt.Sprintf(`{"user_id":%d}`, alex.Id), "")
	if resp.status != fiber.StatusCreated {
		t.Fatalf("attach = %d %s", resp.status, resp.body)
	}

	resp = h.get(t, "/roles", "")
	if resp.status != fiber.StatusOK || !strings.Contains(resp.body, "Administrator") || !strings.Contains(resp.body, "Alex") {
		t.Fatalf("roles page = %d %s", resp.status, resp.body)
	}
}

func TestAttachmentsPageShowsOwnerKind(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	task := &tasks.Task{Name: "Some task"}
	if err := h.tasks.Create(ctx, task); err != nil {
		t.Fatal(err)
	}
	comment := &tasks.Comment{TaskId: task.Id, Name: "Some name", Body: "Some comment"}
	if err := h.comments.Create(ctx, comment); err != nil {
		t.Fatal(err)
	}

	resp := h.sendMultipart(t, fiber.MethodPost, fmt.Sprintf("/tasks/%d/attachments", task.Id), nil,
		[]upload{{"file", "something.pdf", []byte("%PDF")}}, "")
	if resp.status != fiber.StatusCreated {
		t.Fatalf("attach to task = %d %s", resp.status, resp.body)
	}
	taskAttachment := new(tasks.Attachment)
	if err := json.Unmarshal([]byte(resp.body), taskAttachment); err != nil {
		t.Fatal(err)
	}

	resp = h.sendMultipart(t, fiber.MethodPost, fmt.Sprintf("/comments/%d/attachments", comment.Id), nil,
		[]upload{{"file", "something2.pdf", []byte("%PDF")}}, "")
	if resp.status != fiber.StatusCreated {
		t.Fatalf("attach to comment = %d %s", resp.status, resp.body)
	}

	resp = h.sendMultipart(t, fiber.MethodPost, "/comments/99/attachments", nil,
		[]upload{{"file", "ghost.pdf", []byte("%PDF")}}, "")
	if resp.status != fiber.StatusNotFound {
		t.Fatalf("attach to missing comment = %d", resp.status)
	}
	if _, err := os.Stat(filepath.Join(h.config.Storage.Root, "attachments", "Comment", "99")); !os.IsNotExist(err) {
		t.Fatalf("blob of rejected attachment kept: %v", err)
	}

	if !h.disks.Private.Exists(taskAttachment.BlobKey()) {
		t.Fatalf("task attachment blob missing")
	}

	resp = h.get(t, "/attachments", "")
	if resp.status != fiber.StatusOK {
		t.Fatalf("status = %d", resp.status)
	}
	for _, want := range []string{"<td>something.pdf</td><td>Task</td>", "<td>something2.pdf</td><td>Comment</td>"} {
		if !strings.Contains(resp.body, want) {
			t.Fatalf("attachments page misses %q: %s", want, resp.body)
		}
	}
}

func TestAttachmentsPageFailsOnUnknownKind(t *testing.T) {
	h := newHarness(t)

	legacy := &tasks.Attachment{Filename: "x.pdf", AttachableId: 1, AttachableType: "Post"}
	if _, err := h.db.NewInsert().Model(legacy).Exec(context.Background()); err != nil {
		t.Fatal(err)
	}

	resp := h.get(t, "/attachments", "")
	if resp.status != fiber.StatusInternalServerError || !strings.Contains(resp.body, "unknown attachment owner kind") {
		t.Fatalf("status = %d body = %s", resp.status, resp.body)
	}
}

func TestUserPages(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	alex := h.createUser(t, "Alex", "alex@example.com", false)
	task := &tasks.Task{Name: "Mine", UsersId: alex.Id}
	if err := h.tasks.Create(ctx, task); err != nil {
		t.Fatal(err)
	}

	resp := h.sendJson(t, fiber.MethodPost, fmt.Sprintf("/tasks/%d/comments", task.Id), `{"name":"Reviewer","comment":"Looks good"}`, "")
	if resp.status != fiber.StatusCreated {
		t.Fatalf("comment = %d %s", resp.status, resp.body)
	}

	resp = h.get(t, fmt.Sprintf("/users/%d", alex.Id), "")
	if resp.status != fiber.StatusOK || !strings.Contains(resp.body, "Looks good") {
		t.Fatalf("user page = %d %s", resp.status, resp.body)
	}

	resp = h.get(t, "/user/Alex", "")
	if resp.status != fiber.StatusOK || !strings.Contains(resp.body, "alex@example.com") {
		t.Fatalf("user by name = %d %s", resp.status, resp.body)
	}

	resp = h.get(t, "/user/Nobody", "")
	if resp.status != fiber.StatusNotFound || !strings.Contains(resp.body, "User not found") {
		t.Fatalf("missing user = %d %s", resp.status, resp.body)
	}

	resp = h.get(t, "/users/999", "")
	if resp.status != fiber.StatusNotFound {
		t.Fatalf("missing user id = %d", resp.status)
	}
}
