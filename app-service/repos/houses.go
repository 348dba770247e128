package repos

import (
	"context"
	"fmt"

	"github.com/rellab/rellab-server/app-service/models/uploads"
	"github.com/uptrace/bun"
)

type HouseRepo struct {
	db *bun.DB
}

func NewHouseRepo(db *bun.DB) *HouseRepo {
	return &HouseRepo{db: db}
}

func (c *HouseRepo) Create(ctx context.Context, house *uploads.House) error {
	_, err := c.db.NewInsert().Model(house).Exec(ctx)
	return err
}

func (c *HouseRepo) GetHouse(ctx context.Context, id int64) (*uploads.House, error) {
	house := new(uploads.House)
	err := c.db.NewSelect().Model(house).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "house")
	}
	return house, nil
}

// Update writes name and photo of an existing house.
func (c *HouseRepo) Update(ctx context.Context, house *uploads.House) error {
	res, err := c.db.NewUpdate().Model(house).Column("name", "photo").WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("house %d: %w", house.Id, ErrNotFound)
	}
	return nil
}

type OfficeRepo struct {
	db *bun.DB
}

func NewOfficeRepo(db *bun.DB) *OfficeRepo {
	return &OfficeRepo{db: db}
}

func (c *OfficeRepo) Create(ctx context.Context, office *uploads.Office) error {
	_, err := c.db.NewInsert().Model(office).Exec(ctx)
	return err
}

func (c *OfficeRepo) GetOffice(ctx context.Context, id int64) (*uploads.Office, error) {
	office := new(uploads.Office)
	err := c.db.NewSelect().Model(office).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "office")
	}
	return office, nil
}
