package repos

import (
	"context"
	"database/sql"

	"github.com/rellab/rellab-server/app-service/models/uploads"
	"github.com/uptrace/bun"
)

type ShopRepo struct {
	db *bun.DB
}

func NewShopRepo(db *bun.DB) *ShopRepo {
	return &ShopRepo{db: db}
}

func (c *ShopRepo) Create(ctx context.Context, shop *uploads.Shop) error {
	_, err := c.db.NewInsert().Model(shop).Exec(ctx)
	return err
}

func (c *ShopRepo) GetShop(ctx context.Context, id int64) (*uploads.Shop, error) {
	shop := new(uploads.Shop)
	err := c.db.NewSelect().Model(shop).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "shop")
	}
	return shop, nil
}

type CompanyRepo struct {
	db *bun.DB
}

func NewCompanyRepo(db *bun.DB) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create inserts the company and then, inside the same transaction, hands
// the media key of its photo to store. A failed store leaves no row.
func (c *CompanyRepo) Create(ctx context.Context, company *uploads.Company, store func(key string) error) error {
	return c.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(company).Exec(ctx); err != nil {
			return err
		}

		if store == nil || company.Photo == "" {
			return nil
		}
		return store(company.MediaKey())
	})
}

func (c *CompanyRepo) GetCompany(ctx context.Context, id int64) (*uploads.Company, error) {
	company := new(uploads.Company)
	err := c.db.NewSelect().Model(company).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "company")
	}
	return company, nil
}
