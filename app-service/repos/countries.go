package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/rellab/rellab-server/app-service/models/userdata"
	"github.com/uptrace/bun"
)

type CountryRepo struct {
	db *bun.DB
}

func NewCountryRepo(db *bun.DB) *CountryRepo {
	return &CountryRepo{db: db}
}

// ListWithTeamSize loads every country with its teams and the derived
// average team size. Teams come from one batched query.
func (c *CountryRepo) ListWithTeamSize(ctx context.Context) ([]*userdata.Country, error) {
	countries := make([]*userdata.Country, 0)
	err := c.db.NewSelect().Model(&countries).Relation("Teams").Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, err
	}

	for _, country := range countries {
		country.TeamsAvgSize = userdata.AverageTeamSize(country.Teams)
	}

	return countries, nil
}

func (c *CountryRepo) Create(ctx context.Context, country *userdata.Country) error {
	if strings.TrimSpace(country.Name) == "" {
		return fmt.Errorf("%w: country name is required", ErrInvalid)
	}

	_, err := c.db.NewInsert().Model(country).Exec(ctx)
	return err
}

func (c *CountryRepo) Exists(ctx context.Context, id int64) (bool, error) {
	return c.db.NewSelect().Model((*userdata.Country)(nil)).Where("id = ?", id).Exists(ctx)
}
