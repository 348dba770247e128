package repos

import (
	"context"
	"database/sql"

	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/uptrace/bun"
)

type ProjectRepo struct {
	db *bun.DB
}

func NewProjectRepo(db *bun.DB) *ProjectRepo {
	return &ProjectRepo{db: db}
}

func (c *ProjectRepo) Create(ctx context.Context, project *userdata.Project) error {
	_, err := c.db.NewInsert().Model(project).Exec(ctx)
	return err
}

func (c *ProjectRepo) GetProject(ctx context.Context, id int64) (*userdata.Project, error) {
	project := new(userdata.Project)
	err := c.db.NewSelect().Model(project).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "project")
	}
	return project, nil
}

// AttachUser inserts the project_user edge with its start_date.
func (c *ProjectRepo) AttachUser(ctx context.Context, edge *joined_models.ProjectUser) error {
	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := requireRow(ctx, tx, (*userdata.Project)(nil), edge.ProjectId, "project"); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, (*userdata.User)(nil), edge.UserId, "user"); err != nil {
			return err
		}

		exists, err := tx.NewSelect().
			Model((*joined_models.ProjectUser)(nil)).
			Where("project_id = ?", edge.ProjectId).
			Where("user_id = ?", edge.UserId).
			Exists(ctx)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyAttached
		}

		_, err = tx.NewInsert().Model(edge).Exec(ctx)
		return err
	})
}

func (c *ProjectRepo) Count(ctx context.Context) (int, error) {
	return c.db.NewSelect().Model((*userdata.Project)(nil)).Count(ctx)
}
