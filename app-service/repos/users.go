package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rellab/rellab-server/utils-go"
	"github.com/uptrace/bun"
)

type UserRepo struct {
	db *bun.DB
}

// UserProjects is a user with the project edges carrying start_date.
type UserProjects struct {
	User     *userdata.User
	Projects []*joined_models.ProjectUser
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (c *UserRepo) Create(ctx context.Context, user *userdata.User) error {
	taken, err := c.emailTaken(ctx, c.db, user.Email, 0)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}

	_, err = c.db.NewInsert().Model(user).Exec(ctx)
	return err
}

func (c *UserRepo) GetUser(ctx context.Context, id int64) (*userdata.User, error) {
	user := new(userdata.User)
	err := c.db.NewSelect().Model(user).Where("?TableAlias.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (c *UserRepo) GetUserByEmail(ctx context.Context, email string) (*userdata.User, error) {
	user := new(userdata.User)
	err := c.db.NewSelect().Model(user).Where("?TableAlias.email = ?", email).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

func (c *UserRepo) GetUserByName(ctx context.Context, name string) (*userdata.User, error) {
	user := new(userdata.User)
	err := c.db.NewSelect().Model(user).Where("?TableAlias.name = ?", name).Order("id ASC").Limit(1).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// GetIdentity resolves a session user id. A missing user yields (nil, nil).
func (c *UserRepo) GetIdentity(ctx context.Context, id int64) (*utils.Identity, error) {
	user, err := c.GetUser(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &utils.Identity{
		UserId:  user.Id,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
	}, nil
}

// ListWithProjects returns only users that belong to at least one project,
// each with its project edges.
func (c *UserRepo) ListWithProjects(ctx context.Context) ([]UserProjects, error) {
	users := make([]*userdata.User, 0)
	err := c.db.NewSelect().
		Model(&users).
		Where("EXISTS (SELECT 1 FROM project_user AS pu WHERE pu.user_id = ?TableAlias.id)").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]UserProjects, 0, len(users))
	if len(users) == 0 {
		return result, nil
	}

	edges := make([]*joined_models.ProjectUser, 0)
	err = c.db.NewSelect().
		Model(&edges).
		Relation("Project").
		Where("?TableAlias.user_id IN (?)", bun.In(utils.MapList(users, func(u *userdata.User) int64 { return u.Id }))).
		OrderExpr("?TableAlias.start_date ASC, ?TableAlias.project_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]*joined_models.ProjectUser, len(users))
	for _, edge := range edges {
		byUser[edge.UserId] = append(byUser[edge.UserId], edge)
	}

	for _, user := range users {
		result = append(result, UserProjects{User: user, Projects: byUser[user.Id]})
	}

	return result, nil
}

// CommentsThroughTasks returns the comments left on tasks owned by userId.
func (c *UserRepo) CommentsThroughTasks(ctx context.Context, userId int64) ([]*tasks.Comment, error) {
	comments := make([]*tasks.Comment, 0)
	err := c.db.NewSelect().
		Model(&comments).
		Relation("Task").
		Where("task.users_id = ?", userId).
		Order("comment.id ASC").
		Scan(ctx)
	return comments, err
}

// UpdateProfile changes name and email, and the password hash when
// passwordHash is not empty.
func (c *UserRepo) UpdateProfile(ctx context.Context, userId int64, name, email, passwordHash string) error {
	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		taken, err := c.emailTaken(ctx, tx, email, userId)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}

		user := &userdata.User{Id: userId, Name: name, Email: email, PasswordHash: passwordHash}
		columns := []string{"name", "email"}
		if passwordHash != "" {
			columns = append(columns, "password_hash")
		}

		res, err := tx.NewUpdate().Model(user).Column(columns...).WherePK().Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user %d: %w", userId, ErrNotFound)
		}
		return nil
	})
}

// List returns every user ordered by id.
func (c *UserRepo) List(ctx context.Context) ([]*userdata.User, error) {
	users := make([]*userdata.User, 0)
	err := c.db.NewSelect().Model(&users).Order("id ASC").Scan(ctx)
	return users, err
}

func (c *UserRepo) Count(ctx context.Context) (int, error) {
	return c.db.NewSelect().Model((*userdata.User)(nil)).Count(ctx)
}

func (c *UserRepo) emailTaken(ctx context.Context, db bun.IDB, email string, exceptId int64) (bool, error) {
	q := db.NewSelect().Model((*userdata.User)(nil)).Where("email = ?", email)
	if exceptId != 0 {
		q = q.Where("id != ?", exceptId)
	}
	return q.Exists(ctx)
}
