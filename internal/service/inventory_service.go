package service

import (
	"context"
	"fmt"

	"github.com/kontim1983-hub/leasing-app/internal/apierror"
	"github.com/kontim1983-hub/leasing-app/internal/dto"
	"github.com/kontim1983-hub/leasing-app/internal/model"
	"github.com/kontim1983-hub/leasing-app/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SheetWriter is the export collaborator boundary: it serializes records
// into spreadsheet bytes in the generation's display column order.
type SheetWriter interface {
	Write(sch model.Schema, records []model.Record) ([]byte, error)
}

// InventoryService covers the read and administrative operations on the
// canonical record set. Mutations share the per-generation locks with the
// upload path so no operation interleaves with an in-flight pass.
type InventoryService interface {
	List(ctx context.Context, generation string) ([]dto.RecordResponse, error)
	Files(generation string) ([]string, error)
	ClearChangeMarkers(ctx context.Context, generation string) (int64, error)
	DeleteAll(ctx context.Context, generation, confirm string) (int64, error)
	Export(ctx context.Context, generation string) ([]byte, string, error)
}

type inventoryService struct {
	repo   repository.RecordRepository
	files  FileStore
	writer SheetWriter
	locks  *GenerationLocks
	rdb    *redis.Client
}

func NewInventoryService(repo repository.RecordRepository, files FileStore, writer SheetWriter, locks *GenerationLocks, rdb *redis.Client) InventoryService {
	return &inventoryService{repo: repo, files: files, writer: writer, locks: locks, rdb: rdb}
}

func (s *inventoryService) List(ctx context.Context, generation string) ([]dto.RecordResponse, error) {
	sch, ok := model.SchemaFor(generation)
	if !ok {
		return nil, apierror.ErrUnknownGeneration
	}
	records, err := s.repo.ListByGeneration(ctx, generation)
	if err != nil {
		return nil, err
	}
	return dto.NewRecordResponses(sch, records), nil
}

func (s *inventoryService) Files(generation string) ([]string, error) {
	if _, ok := model.SchemaFor(generation); !ok {
		return nil, apierror.ErrUnknownGeneration
	}
	return s.files.List(generation)
}

func (s *inventoryService) ClearChangeMarkers(ctx context.Context, generation string) (int64, error) {
	if _, ok := model.SchemaFor(generation); !ok {
		return 0, apierror.ErrUnknownGeneration
	}

	s.locks.Lock(generation)
	defer s.locks.Unlock(generation)

	affected, err := s.repo.ClearChangeMarkers(ctx, generation)
	if err != nil {
		return 0, err
	}
	s.invalidateCache(ctx, generation)

	log.Info().Str("generation", generation).Int64("rows", affected).Msg("change markers cleared")
	return affected, nil
}

func (s *inventoryService) DeleteAll(ctx context.Context, generation, confirm string) (int64, error) {
	if _, ok := model.SchemaFor(generation); !ok {
		return 0, apierror.ErrUnknownGeneration
	}
	if confirm != dto.DeleteAllConfirmPhrase {
		return 0, apierror.ErrConfirmationMismatch
	}

	s.locks.Lock(generation)
	defer s.locks.Unlock(generation)

	deleted, err := s.repo.DeleteAll(ctx, generation)
	if err != nil {
		return 0, err
	}
	if err := s.files.Clear(generation); err != nil {
		log.Warn().Err(err).Str("generation", generation).Msg("failed to clear source documents")
	}
	s.invalidateCache(ctx, generation)

	log.Info().Str("generation", generation).Int64("rows", deleted).Msg("all records deleted")
	return deleted, nil
}

func (s *inventoryService) Export(ctx context.Context, generation string) ([]byte, string, error) {
	sch, ok := model.SchemaFor(generation)
	if !ok {
		return nil, "", apierror.ErrUnknownGeneration
	}
	records, err := s.repo.ListByGeneration(ctx, generation)
	if err != nil {
		return nil, "", err
	}
	data, err := s.writer.Write(sch, records)
	if err != nil {
		return nil, "", err
	}
	return data, fmt.Sprintf("leasing_records_%s.xlsx", generation), nil
}

func (s *inventoryService) invalidateCache(ctx context.Context, generation string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, RecordsCacheKey(generation)).Err(); err != nil {
		log.Warn().Err(err).Str("generation", generation).Msg("failed to invalidate records cache")
	}
}
