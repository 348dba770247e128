package repos

import (
	"context"
	"database/sql"

	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/uptrace/bun"
)

type CommentRepo struct {
	db *bun.DB
}

func NewCommentRepo(db *bun.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (c *CommentRepo) Create(ctx context.Context, comment *tasks.Comment) error {
	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := requireRow(ctx, tx, (*tasks.Task)(nil), comment.TaskId, "task"); err != nil {
			return err
		}

		_, err := tx.NewInsert().Model(comment).Exec(ctx)
		return err
	})
}

func (c *CommentRepo) GetComment(ctx context.Context, id int64) (*tasks.Comment, error) {
	comment := new(tasks.Comment)
	err := c.db.NewSelect().Model(comment).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "comment")
	}
	return comment, nil
}
