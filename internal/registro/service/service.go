package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/panaderia/registros/backend/internal/registro"
	"github.com/panaderia/registros/backend/internal/registro/repository"
	"github.com/panaderia/registros/backend/pkg/logger"
	"github.com/panaderia/registros/backend/pkg/metrics"
	"gorm.io/datatypes"
)

// Service defines the registro operations used by the handler layer.
// Every error it returns is an *Error.
type Service interface {
	Create(ctx context.Context, body map[string]any) (*registro.Registro, error)
	Get(ctx context.Context, id int64) (*registro.Registro, error)
	List(ctx context.Context, opts repository.ListOptions) ([]*registro.Registro, error)
	Count(ctx context.Context, opts repository.ListOptions) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	RemoveAmasadora(ctx context.Context, id int64, index int) (*Outcome, error)
}

// Outcome reports a RemoveAmasadora result. Exactly one of DeletedRegistro
// and UpdatedID is set.
type Outcome struct {
	DeletedRegistro     *int64 `json:"deletedRegistro,omitempty"`
	UpdatedID           *int64 `json:"updatedId,omitempty"`
	AmasadorasRestantes int    `json:"amasadorasRestantes"`
}

// New returns a Service over the given repository.
func New(repo repository.Repository) Service {
	return &registroService{repo: repo}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() Service {
	return New(repository.NewMemoryRepo())
}

type registroService struct {
	repo repository.Repository
}

// ParseID parses a decimal record id.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, invalid(MsgInvalidID)
	}
	return id, nil
}

// ParseRemoveParams parses the id and index path parameters of a removal.
func ParseRemoveParams(rawID, rawIndex string) (int64, int, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return 0, 0, invalid(MsgInvalidParams)
	}
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return 0, 0, invalid(MsgInvalidParams)
	}
	return id, index, nil
}

func (s *registroService) Create(ctx context.Context, body map[string]any) (*registro.Registro, error) {
	if body == nil {
		return nil, s.fail("create", invalid(MsgInvalidDocument))
	}
	fecha := ""
	switch v := body["fecha"].(type) {
	case nil:
	case string:
		fecha = v
	default:
		return nil, s.fail("create", invalid(MsgInvalidFecha))
	}
	r := &registro.Registro{Fecha: fecha, Data: datatypes.JSONMap(body)}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, s.fail("create", invalid(err.Error()))
	}
	logger.FromContext(ctx).Debugf("registro %d created (fecha=%q)", r.ID, r.Fecha)
	s.ok("create")
	return r, nil
}

func (s *registroService) Get(ctx context.Context, id int64) (*registro.Registro, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail("get", translate(err))
	}
	s.ok("get")
	return r, nil
}

func (s *registroService) List(ctx context.Context, opts repository.ListOptions) ([]*registro.Registro, error) {
	list, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, s.fail("list", internal(err))
	}
	s.ok("list")
	return list, nil
}

func (s *registroService) Count(ctx context.Context, opts repository.ListOptions) (int64, error) {
	n, err := s.repo.Count(ctx, opts)
	if err != nil {
		return 0, s.fail("count", internal(err))
	}
	s.ok("count")
	return n, nil
}

func (s *registroService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail("delete", translate(err))
	}
	logger.FromContext(ctx).Infof("registro %d deleted", id)
	s.ok("delete")
	return nil
}

func (s *registroService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, s.fail("delete_all", internal(err))
	}
	logger.FromContext(ctx).Warnf("deleted all registros (%d)", n)
	s.ok("delete_all")
	return n, nil
}

// RemoveAmasadora drops the amasadora at index from registro id. When the
// list becomes empty the whole registro is deleted instead of updated.
//
// The read and the write are separate store calls with nothing held between
// them, so concurrent removals on one registro can lose an update.
func (s *registroService) RemoveAmasadora(ctx context.Context, id int64, index int) (*Outcome, error) {
	const op = "remove_amasadora"
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.fail(op, translate(err))
	}
	data, remaining, ok := r.WithoutAmasadora(index)
	if !ok {
		return nil, s.fail(op, notFound(MsgAmasadoraNotFound))
	}

	log := logger.FromContext(ctx)
	if remaining == 0 {
		if err := s.repo.Delete(ctx, id); err != nil {
			return nil, s.fail(op, translate(err))
		}
		log.Infof("registro %d deleted after removing its last amasadora", id)
		metrics.AmasadorasRemoved.WithLabelValues("deleted").Inc()
		s.ok(op)
		return &Outcome{DeletedRegistro: &id, AmasadorasRestantes: 0}, nil
	}

	if err := s.repo.UpdateData(ctx, id, data); err != nil {
		return nil, s.fail(op, translate(err))
	}
	log.Debugf("registro %d: removed amasadora %d, %d remaining", id, index, remaining)
	metrics.AmasadorasRemoved.WithLabelValues("updated").Inc()
	s.ok(op)
	return &Outcome{UpdatedID: &id, AmasadorasRestantes: remaining}, nil
}

// translate maps repository errors onto service kinds.
func translate(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(MsgRegistroNotFound)
	}
	return internal(err)
}

func (s *registroService) ok(op string) {
	metrics.Operations.WithLabelValues(op, "ok").Inc()
}

func (s *registroService) fail(op string, err error) error {
	metrics.Operations.WithLabelValues(op, KindOf(err).String()).Inc()
	return err
}
