package repos

import (
	"context"
	"database/sql"

	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/uptrace/bun"
)

type RoleRepo struct {
	db *bun.DB
}

func NewRoleRepo(db *bun.DB) *RoleRepo {
	return &RoleRepo{db: db}
}

func (c *RoleRepo) Create(ctx context.Context, role *userdata.Role) error {
	_, err := c.db.NewInsert().Model(role).Exec(ctx)
	return err
}

// ListWithUsers loads every role with its users through users_roles.
func (c *RoleRepo) ListWithUsers(ctx context.Context) ([]*userdata.Role, error) {
	roles := make([]*userdata.Role, 0)
	err := c.db.NewSelect().Model(&roles).Relation("Users").Order("id ASC").Scan(ctx)
	return roles, err
}

func (c *RoleRepo) AttachUser(ctx context.Context, roleId, userId int64) error {
	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := requireRow(ctx, tx, (*userdata.Role)(nil), roleId, "role"); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, (*userdata.User)(nil), userId, "user"); err != nil {
			return err
		}

		exists, err := tx.NewSelect().
			Model((*joined_models.UserRole)(nil)).
			Where("role_id = ?", roleId).
			Where("user_id = ?", userId).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyAttached
		}

		_, err = tx.NewInsert().Model(&joined_models.UserRole{UserId: userId, RoleId: roleId}).Exec(ctx)
		return err
	})
}
