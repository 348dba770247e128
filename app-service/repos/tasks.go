package repos

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/uptrace/bun"
)

type TaskRepo struct {
	db *bun.DB
}

func NewTaskRepo(db *bun.DB) *TaskRepo {
	return &TaskRepo{db: db}
}

// List returns every task with its owner joined. Tasks without an owner are
// included.
func (c *TaskRepo) List(ctx context.Context) ([]*tasks.Task, error) {
	list := make([]*tasks.Task, 0)
	err := c.db.NewSelect().Model(&list).Relation("User").Order("task.id ASC").Scan(ctx)
	return list, err
}

func (c *TaskRepo) GetTask(ctx context.Context, id int64) (*tasks.Task, error) {
	task := new(tasks.Task)
	err := c.db.NewSelect().Model(task).Relation("User").Where("task.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "task")
	}
	return task, nil
}

func (c *TaskRepo) Create(ctx context.Context, task *tasks.Task) error {
	now := time.Now().UTC().Truncate(time.Second)
	task.CreatedAt = now
	task.UpdatedAt = now

	_, err := c.db.NewInsert().Model(task).Exec(ctx)
	return err
}

func (c *TaskRepo) Rename(ctx context.Context, id int64, name string) (*tasks.Task, error) {
	task := &tasks.Task{Id: id, Name: name, UpdatedAt: time.Now().UTC().Truncate(time.Second)}

	res, err := c.db.NewUpdate().Model(task).Column("name", "updated_at").WherePK().Exec(ctx)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	return c.GetTask(ctx, id)
}

// Delete removes the task, its comments and every attachment owned by the
// task or one of those comments in a single transaction. The removed
// attachments are returned so their blobs can be cleaned up.
func (c *TaskRepo) Delete(ctx context.Context, id int64) ([]*tasks.Attachment, error) {
	removed := make([]*tasks.Attachment, 0)

	err := c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		task := new(tasks.Task)
		if err := tx.NewSelect().Model(task).Relation("Comments").Where("task.id = ?", id).Scan(ctx); err != nil {
			return notFound(err, fmt.Sprintf("task %d", id))
		}

		commentIds := make([]int64, 0, len(task.Comments))
		for _, comment := range task.Comments {
			commentIds = append(commentIds, comment.Id)
		}

		q := tx.NewSelect().Model(&removed).WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
				return q.Where("attachable_type = ?", tasks.OwnerTask).Where("attachable_id = ?", id)
			})
			if len(commentIds) > 0 {
				q = q.WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
					return q.Where("attachable_type = ?", tasks.OwnerComment).Where("attachable_id IN (?)", bun.In(commentIds))
				})
			}
			return q
		})
		if err := q.Scan(ctx); err != nil {
			return err
		}

		if len(removed) > 0 {
			attachmentIds := make([]int64, 0, len(removed))
			for _, a := range removed {
				attachmentIds = append(attachmentIds, a.Id)
			}
			if _, err := tx.NewDelete().Model((*tasks.Attachment)(nil)).Where("id IN (?)", bun.In(attachmentIds)).Exec(ctx); err != nil {
				return err
			}
		}

		if _, err := tx.NewDelete().Model((*tasks.Comment)(nil)).Where("task_id = ?", id).Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewDelete().Model((*tasks.Task)(nil)).Where("id = ?", id).Exec(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return removed, nil
}

func (c *TaskRepo) Count(ctx context.Context) (int, error) {
	return c.db.NewSelect().Model((*tasks.Task)(nil)).Count(ctx)
}
