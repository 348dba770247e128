package repos

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// requireRow fails with ErrNotFound unless model's table has a row with id.
func requireRow(ctx context.Context, db bun.IDB, model interface{}, id int64, what string) error {
	exists, err := db.NewSelect().Model(model).Where("?TableAlias.id = ?", id).Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
