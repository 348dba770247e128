package repos

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/uptrace/bun"
)

type AttachmentRepo struct {
	db *bun.DB
}

func NewAttachmentRepo(db *bun.DB) *AttachmentRepo {
	return &AttachmentRepo{db: db}
}

// Create stores an attachment after checking its discriminator and that the
// owner row exists. When store is set it runs after the insert, inside the
// same transaction, and a failure rolls the row back.
func (c *AttachmentRepo) Create(ctx context.Context, attachment *tasks.Attachment, store func(key string) error) error {
	kind, err := tasks.ParseOwnerKind(string(attachment.AttachableType))
	if err != nil {
		return err
	}

	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		switch kind {
		case tasks.OwnerTask:
			err = requireRow(ctx, tx, (*tasks.Task)(nil), attachment.AttachableId, "task")
		case tasks.OwnerComment:
			err = requireRow(ctx, tx, (*tasks.Comment)(nil), attachment.AttachableId, "comment")
		}
		if err != nil {
			return err
		}

		if _, err := tx.NewInsert().Model(attachment).Exec(ctx); err != nil {
			return err
		}

		if store == nil {
			return nil
		}
		return store(attachment.BlobKey())
	})
}

// List returns every attachment with its owner resolved. Owners are fetched
// with one query per kind.
func (c *AttachmentRepo) List(ctx context.Context) ([]*tasks.Attachment, error) {
	attachments := make([]*tasks.Attachment, 0)
	if err := c.db.NewSelect().Model(&attachments).Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}

	if err := c.resolveOwners(ctx, attachments); err != nil {
		return nil, err
	}

	return attachments, nil
}

// ListForOwner returns the attachments of one owner, or ErrNotFound when the
// owner row is missing.
func (c *AttachmentRepo) ListForOwner(ctx context.Context, kind tasks.OwnerKind, ownerId int64) ([]*tasks.Attachment, error) {
	var err error
	switch kind {
	case tasks.OwnerTask:
		err = requireRow(ctx, c.db, (*tasks.Task)(nil), ownerId, "task")
	case tasks.OwnerComment:
		err = requireRow(ctx, c.db, (*tasks.Comment)(nil), ownerId, "comment")
	default:
		err = fmt.Errorf("%w: %q", tasks.ErrUnknownOwnerKind, kind)
	}
	if err != nil {
		return nil, err
	}

	attachments := make([]*tasks.Attachment, 0)
	err = c.db.NewSelect().
		Model(&attachments).
		Where("attachable_type = ?", kind).
		Where("attachable_id = ?", ownerId).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.resolveOwners(ctx, attachments); err != nil {
		return nil, err
	}

	return attachments, nil
}

func (c *AttachmentRepo) resolveOwners(ctx context.Context, attachments []*tasks.Attachment) error {
	ids := make(map[tasks.OwnerKind][]int64)
	for _, a := range attachments {
		switch a.AttachableType {
		case tasks.OwnerTask, tasks.OwnerComment:
			ids[a.AttachableType] = append(ids[a.AttachableType], a.AttachableId)
		default:
			return fmt.Errorf("attachment %d: %w: %q", a.Id, tasks.ErrUnknownOwnerKind, a.AttachableType)
		}
	}

	taskById := make(map[int64]*tasks.Task)
	if len(ids[tasks.OwnerTask]) > 0 {
		owners := make([]*tasks.Task, 0)
		if err := c.db.NewSelect().Model(&owners).Where("id IN (?)", bun.In(ids[tasks.OwnerTask])).Scan(ctx); err != nil {
			return err
		}
		for _, owner := range owners {
			taskById[owner.Id] = owner
		}
	}

	commentById := make(map[int64]*tasks.Comment)
	if len(ids[tasks.OwnerComment]) > 0 {
		owners := make([]*tasks.Comment, 0)
		if err := c.db.NewSelect().Model(&owners).Where("id IN (?)", bun.In(ids[tasks.OwnerComment])).Scan(ctx); err != nil {
			return err
		}
		for _, owner := range owners {
			commentById[owner.Id] = owner
		}
	}

	for _, a := range attachments {
		a.Owner = tasks.Owner{Kind: a.AttachableType}
		switch a.AttachableType {
		case tasks.OwnerTask:
			a.Owner.Task = taskById[a.AttachableId]
		case tasks.OwnerComment:
			a.Owner.Comment = commentById[a.AttachableId]
		}
	}

	return nil
}
