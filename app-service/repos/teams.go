package repos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	joined_models "github.com/rellab/rellab-server/app-service/models/joined-models"
	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/rellab/rellab-server/utils-go"
	"github.com/uptrace/bun"
)

type TeamRepo struct {
	db *bun.DB
}

// TeamRoster is a team with its membership edges, each carrying the member.
type TeamRoster struct {
	Team    *userdata.Team
	Members []*joined_models.TeamUser
}

func NewTeamRepo(db *bun.DB) *TeamRepo {
	return &TeamRepo{db: db}
}

// Create rejects teams without a name or with a negative size.
func (c *TeamRepo) Create(ctx context.Context, team *userdata.Team) error {
	if strings.TrimSpace(team.Name) == "" {
		return fmt.Errorf("%w: team name is required", ErrInvalid)
	}
	if team.Size < 0 {
		return fmt.Errorf("%w: team size %d is negative", ErrInvalid, team.Size)
	}

	_, err := c.db.NewInsert().Model(team).Exec(ctx)
	return err
}

// GetTeam loads a team with its country, when it has one.
func (c *TeamRepo) GetTeam(ctx context.Context, teamId int64) (*userdata.Team, error) {
	team := new(userdata.Team)
	err := c.db.NewSelect().Model(team).Relation("Country").Where("team.id = ?", teamId).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "team")
	}
	return team, nil
}

func (c *TeamRepo) ListWithMembers(ctx context.Context) ([]TeamRoster, error) {
	teams := make([]*userdata.Team, 0)
	if err := c.db.NewSelect().Model(&teams).Order("id ASC").Scan(ctx); err != nil {
		return nil, err
	}

	rosters := make([]TeamRoster, 0, len(teams))
	if len(teams) == 0 {
		return rosters, nil
	}

	ids := utils.MapList(teams, func(t *userdata.Team) int64 { return t.Id })

	edges := make([]*joined_models.TeamUser, 0)
	err := c.db.NewSelect().
		Model(&edges).
		Relation("User").
		Where("?TableAlias.team_id IN (?)", bun.In(ids)).
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	byTeam := make(map[int64][]*joined_models.TeamUser, len(teams))
	for _, edge := range edges {
		byTeam[edge.TeamId] = append(byTeam[edge.TeamId], edge)
	}

	for _, team := range teams {
		rosters = append(rosters, TeamRoster{Team: team, Members: byTeam[team.Id]})
	}

	return rosters, nil
}

// AddMember inserts a membership edge with its pivot columns. CreatedAt
// defaults to the current second in UTC.
func (c *TeamRepo) AddMember(ctx context.Context, edge *joined_models.TeamUser) error {
	if edge.CreatedAt.IsZero() {
		edge.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if err := requireRow(ctx, tx, (*userdata.Team)(nil), edge.TeamId, "team"); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, (*userdata.User)(nil), edge.UserId, "user"); err != nil {
			return err
		}

		exists, err := tx.NewSelect().
			Model((*joined_models.TeamUser)(nil)).
			Where("team_id = ?", edge.TeamId).
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
