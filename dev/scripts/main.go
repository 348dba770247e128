package main

import (
	"context"
	"flag"
	"time"

	"github.com/rellab/rellab-server/app-service/config"
	"github.com/rellab/rellab-server/app-service/migrations"
	"github.com/rellab/rellab-server/app-service/models"
	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/rellab/rellab-server/app-service/models/tasks"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rellab/rellab-server/utils-go"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// Seeds a development database with the sample relationships shown by the
// application pages.
func main() {
	adminPassword := flag.String("admin-password", "password", "password of the seeded admin@example.com user")
	flag.Parse()

	cfg, err := config.Parse()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse config")
	}
	utils.ConfigureLogger(cfg.LogLevel, true)

	db, err := config.ProvidePostgres(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect")
	}
	defer db.Close()

	models.InitModelRegistrations(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := migrations.Run(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate")
	}

	if err := seed(ctx, db, *adminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed")
	}

	log.Info().Msg("Seeded development data")
}

// seed inserts every sample row in one transaction, so a failure part way
// leaves the database unseeded and the script can simply be rerun.
func seed(ctx context.Context, db *bun.DB, adminPassword string) error {
	seeded, err := db.NewSelect().Model((*userdata.User)(nil)).Where("email = ?", "admin@example.com").Exists(ctx)
	if err != nil {
		return err
	}
	if seeded {
		log.Info().Msg("Database already seeded")
		return nil
	}

	hash, err := utils.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		insert := func(model interface{}) error {
			_, err := tx.NewInsert().Model(model).Exec(ctx)
			return err
		}

		admin := &userdata.User{Name: "Admin", Email: "admin@example.com", PasswordHash: hash, IsAdmin: true}
		member := &userdata.User{Name: "Taylor", Email: "taylor@example.com", PasswordHash: hash}
		uk := &userdata.Country{Name: "United Kingdom"}
		for _, model := range []interface{}{admin, member, uk, &userdata.Country{Name: "Iceland"}} {
			if err := insert(model); err != nil {
				return err
			}
		}

		for i, size := range []int{3, 5} {
			team := &userdata.Team{Name: []string{"Red", "Blue"}[i], Size: size, CountryId: uk.Id}
			if err := insert(team); err != nil {
				return err
			}
			if err := insert(&joined_models.TeamUser{TeamId: team.Id, UserId: member.Id, Position: "Developer"}); err != nil {
				return err
			}
		}

		project := &userdata.Project{Name: "Rellab"}
		role := &userdata.Role{Name: "Administrator"}
		task := &tasks.Task{Name: "Some task"}
		for _, model := range []interface{}{project, role, task} {
			if err := insert(model); err != nil {
				return err
			}
		}

		comment := &tasks.Comment{TaskId: task.Id, Name: "Some name", Body: "Some comment"}
		if err := insert(comment); err != nil {
			return err
		}

		for _, model := range []interface{}{
			&joined_models.ProjectUser{ProjectId: project.Id, UserId: member.Id, StartDate: "2022-01-01"},
			&joined_models.UserRole{UserId: admin.Id, RoleId: role.Id},
			&tasks.Attachment{Filename: "something.pdf", AttachableId: task.Id, AttachableType: tasks.OwnerTask},
			&tasks.Attachment{Filename: "something2.pdf", AttachableId: comment.Id, AttachableType: tasks.OwnerComment},
		} {
			if err := insert(model); err != nil {
				return err
			}
		}

		return nil
	})
}
