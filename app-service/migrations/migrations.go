package migrations

import (
	"context"
	"fmt"

	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/rellab/rellab-server/app-service/models/uploads"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()

func init() {
	Migrations.Add(migrate.Migration{
		Name: "20220101000000_create_schema",
		Up:   CreateSchema,
		Down: DropSchema,
	})
	Migrations.Add(migrate.Migration{
		Name: "20220102000000_rename_companies_title",
		Up:   renameCompaniesTitle,
		Down: restoreCompaniesTitle,
	})
}

// companyV1 is the companies table as first released, with a title column.
type companyV1 struct {
	bun.BaseModel `bun:"companies"`

	Id    int64  `bun:",pk,autoincrement"`
	Title string `bun:",notnull"`
	Photo string `bun:",nullzero"`
}

func tableModels() []interface{} {
	return []interface{}{
		(*userdata.Country)(nil),
		(*userdata.Team)(nil),
		(*userdata.User)(nil),
		(*userdata.Project)(nil),
		(*userdata.Role)(nil),
		(*joined_models.TeamUser)(nil),
		(*joined_models.ProjectUser)(nil),
		(*joined_models.UserRole)(nil),
		(*tasks.Task)(nil),
		(*tasks.Comment)(nil),
		(*tasks.Attachment)(nil),
		(*uploads.House)(nil),
		(*uploads.Office)(nil),
		(*uploads.Shop)(nil),
		(*companyV1)(nil),
	}
}

type index struct {
	name    string
	model   interface{}
	columns []string
}

var indexes = []index{
	{"teams_country_id_idx", (*userdata.Team)(nil), []string{"country_id"}},
	{"tasks_users_id_idx", (*tasks.Task)(nil), []string{"users_id"}},
	{"comments_task_id_idx", (*tasks.Comment)(nil), []string{"task_id"}},
	{"attachments_attachable_idx", (*tasks.Attachment)(nil), []string{"attachable_type", "attachable_id"}},
}

// CreateSchema creates every table and index if missing. companies gets its
// first layout; later migrations bring it up to date.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range tableModels() {
			if _, err := tx.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("create table for %T: %w", model, err)
			}
		}

		for _, idx := range indexes {
			if _, err := tx.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.columns...).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("create index %s: %w", idx.name, err)
			}
		}

		return nil
	})
}

func DropSchema(ctx context.Context, db *bun.DB) error {
	models := tableModels()
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(models[i]).IfExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func renameCompaniesTitle(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, "ALTER TABLE companies RENAME COLUMN title TO name")
	return err
}

func restoreCompaniesTitle(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, "ALTER TABLE companies RENAME COLUMN name TO title")
	return err
}

// Apply runs every migration in order without recording them. Only for
// throwaway databases.
func Apply(ctx context.Context, db *bun.DB) error {
	for _, m := range Migrations.Sorted() {
		if err := m.Up(ctx, db); err != nil {
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
	}
	return nil
}

// Run applies pending migrations.
func Run(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	if err := migrator.Lock(ctx); err != nil {
		return err
	}
	defer migrator.Unlock(ctx)

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}

	if group.IsZero() {
		log.Info().Msg("No new migrations to run")
		return nil
	}

	log.Info().Str("group", group.String()).Msg("Applied migrations")
	return nil
}
