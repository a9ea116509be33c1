package repository

import (
	"context"
	"errors"

	"github.com/panaderia/registros/backend/internal/registro"
	"gorm.io/datatypes"
)

var (
	ErrNotFound = errors.New("registro not found")
)

// ListOptions narrows List and Count. Take and Skip are nil when unset.
// Desde and Hasta are inclusive bounds on fecha (ISO dates compare as text).
type ListOptions struct {
	Take  *int
	Skip  *int
	Desde string
	Hasta string
}

// Repository is the persistence collaborator for registros. Every method is a
// single round trip to the backing store.
type Repository interface {
	Create(ctx context.Context, r *registro.Registro) error
	FindByID(ctx context.Context, id int64) (*registro.Registro, error)
	List(ctx context.Context, opts ListOptions) ([]*registro.Registro, error)
	Count(ctx context.Context, opts ListOptions) (int64, error)
	UpdateData(ctx context.Context, id int64, data datatypes.JSONMap) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

func (o ListOptions) matches(fecha string) bool {
	if o.Desde != "" && fecha < o.Desde {
		return false
	}
	if o.Hasta != "" && fecha > o.Hasta {
		return false
	}
	return true
}
