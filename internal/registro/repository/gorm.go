package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/panaderia/registros/backend/internal/registro"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormRepo stores registros in a relational table through gorm. The data
// column is jsonb on Postgres.
type GormRepo struct {
	db *gorm.DB
}

// NewGormRepo migrates the registros table and returns the repository.
func NewGormRepo(db *gorm.DB) (*GormRepo, error) {
	if err := db.AutoMigrate(&registro.Registro{}); err != nil {
		return nil, fmt.Errorf("migrate registros: %w", err)
	}
	return &GormRepo{db: db}, nil
}

func (g *GormRepo) Create(ctx context.Context, r *registro.Registro) error {
	if r.Data == nil {
		r.Data = datatypes.JSONMap{}
	}
	return g.db.WithContext(ctx).Create(r).Error
}

func (g *GormRepo) FindByID(ctx context.Context, id int64) (*registro.Registro, error) {
	var r registro.Registro
	err := g.db.WithContext(ctx).First(&r, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &r, nil
}

func (g *GormRepo) List(ctx context.Context, opts ListOptions) ([]*registro.Registro, error) {
	q := g.filtered(ctx, opts).Order("created_at desc").Order("id desc")
	if opts.Take != nil {
		q = q.Limit(*opts.Take)
	}
	if opts.Skip != nil {
		q = q.Offset(*opts.Skip)
	}
	out := []*registro.Registro{}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *GormRepo) Count(ctx context.Context, opts ListOptions) (int64, error) {
	var n int64
	err := g.filtered(ctx, opts).Count(&n).Error
	return n, err
}

func (g *GormRepo) UpdateData(ctx context.Context, id int64, data datatypes.JSONMap) error {
	res := g.db.WithContext(ctx).Model(&registro.Registro{}).Where("id = ?", id).Update("data", data)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormRepo) Delete(ctx context.Context, id int64) error {
	res := g.db.WithContext(ctx).Delete(&registro.Registro{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *GormRepo) DeleteAll(ctx context.Context) (int64, error) {
	res := g.db.WithContext(ctx).Where("1 = 1").Delete(&registro.Registro{})
	return res.RowsAffected, res.Error
}

func (g *GormRepo) filtered(ctx context.Context, opts ListOptions) *gorm.DB {
	q := g.db.WithContext(ctx).Model(&registro.Registro{})
	if opts.Desde != "" {
		q = q.Where("fecha >= ?", opts.Desde)
	}
	if opts.Hasta != "" {
		q = q.Where("fecha <= ?", opts.Hasta)
	}
	return q
}
