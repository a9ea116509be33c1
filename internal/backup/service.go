package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/panaderia/registros/backend/internal/registro"
	"github.com/panaderia/registros/backend/internal/registro/repository"
)

// KeyPrefix is where snapshots live in the bucket.
const KeyPrefix = "registros/"

// ObjectStore is the subset of the MinIO wrapper the backup service needs.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// Snapshot is the JSON document written for each backup.
type Snapshot struct {
	ExportedAt time.Time            `json:"exportedAt"`
	Count      int                  `json:"count"`
	Registros  []*registro.Registro `json:"registros"`
}

type Service struct {
	repo  repository.Repository
	store ObjectStore
	now   func() time.Time
}

func NewService(repo repository.Repository, store ObjectStore) *Service {
	return &Service{repo: repo, store: store, now: time.Now}
}

// Backup uploads every registro as one JSON snapshot and returns its key.
func (s *Service) Backup(ctx context.Context) (string, int, error) {
	list, err := s.repo.List(ctx, repository.ListOptions{})
	if err != nil {
		return "", 0, fmt.Errorf("list registros: %w", err)
	}
	snap := Snapshot{ExportedAt: s.now().UTC(), Count: len(list), Registros: list}
	b, err := json.Marshal(snap)
	if err != nil {
		return "", 0, fmt.Errorf("encode snapshot: %w", err)
	}
	key := fmt.Sprintf("%sregistros_%s.json", KeyPrefix, snap.ExportedAt.Format("20060102_150405"))
	if err := s.store.UploadFile(ctx, key, bytes.NewReader(b), int64(len(b)), "application/json"); err != nil {
		return "", 0, fmt.Errorf("upload snapshot: %w", err)
	}
	return key, len(list), nil
}

// Latest returns the key of the newest snapshot, or "" when there is none.
func (s *Service) Latest(ctx context.Context) (string, error) {
	keys, err := s.store.ListKeys(ctx, KeyPrefix)
	if err != nil {
		return "", fmt.Errorf("list snapshots: %w", err)
	}
	latest := ""
	for _, k := range keys {
		if k > latest {
			latest = k
		}
	}
	return latest, nil
}

// Restore recreates the registros of snapshot key. Records get fresh ids and
// creation times; fecha and data are kept verbatim. With dropExisting the
// store is emptied first.
func (s *Service) Restore(ctx context.Context, key string, dropExisting bool) (int, error) {
	rc, err := s.store.DownloadFile(ctx, key)
	if err != nil {
		return 0, fmt.Errorf("download snapshot %s: %w", key, err)
	}
	defer rc.Close()

	var snap Snapshot
	if err := json.NewDecoder(rc).Decode(&snap); err != nil {
		return 0, fmt.Errorf("decode snapshot %s: %w", key, err)
	}

	if dropExisting {
		if _, err := s.repo.DeleteAll(ctx); err != nil {
			return 0, fmt.Errorf("drop existing: %w", err)
		}
	}

	// snapshots are newest first; insert oldest first so the order survives
	restored := 0
	for i := len(snap.Registros) - 1; i >= 0; i-- {
		src := snap.Registros[i]
		if src == nil {
			continue
		}
		r := &registro.Registro{Fecha: src.Fecha, Data: src.Data}
		if err := s.repo.Create(ctx, r); err != nil {
			return restored, fmt.Errorf("restore registro %d: %w", src.ID, err)
		}
		restored++
	}
	return restored, nil
}
