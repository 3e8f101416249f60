package service

import (
	"bytes"
	"context"
	"io"
	"sort"

	"github.com/kontim1983-hub/leasing-app/internal/apierror"
	"github.com/kontim1983-hub/leasing-app/internal/dto"
	"github.com/kontim1983-hub/leasing-app/internal/model"
	"github.com/kontim1983-hub/leasing-app/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SheetParser is the spreadsheet collaborator boundary: it turns uploaded
// bytes into raw rows according to a generation's column layout.
type SheetParser interface {
	Rows(r io.Reader, sch model.Schema) ([]RawRow, error)
}

// FileStore is the source-document collaborator boundary: it keeps the
// uploaded spreadsheets and their names per generation.
type FileStore interface {
	Save(generation, filename string, data []byte) error
	List(generation string) ([]string, error)
	Clear(generation string) error
}

// RecordsCacheKey is the redis key caching the record listing of a
// generation. All mutating services invalidate it; the records handler
// populates it.
func RecordsCacheKey(generation string) string { return "records:" + generation }

// UploadService drives one upload transaction end-to-end.
type UploadService interface {
	ProcessUpload(ctx context.Context, generation, filename string, file io.Reader) (*dto.UploadSummary, error)
}

type uploadService struct {
	repo   repository.RecordRepository
	parser SheetParser
	files  FileStore
	locks  *GenerationLocks
	rdb    *redis.Client
}

func NewUploadService(repo repository.RecordRepository, parser SheetParser, files FileStore, locks *GenerationLocks, rdb *redis.Client) UploadService {
	return &uploadService{repo: repo, parser: parser, files: files, locks: locks, rdb: rdb}
}

// ProcessUpload runs one reconciliation pass: parse and normalize the
// sheet, reconcile against the current snapshot, persist atomically,
// then summarize.
// Row validation failures are collected, not fatal; a store failure aborts
// the whole pass with no partial write.
func (s *uploadService) ProcessUpload(ctx context.Context, generation, filename string, file io.Reader) (*dto.UploadSummary, error) {
	sch, ok := model.SchemaFor(generation)
	if !ok {
		return nil, apierror.ErrUnknownGeneration
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	rows, err := s.parser.Rows(bytes.NewReader(data), sch)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(rows))
	invalid := make([]dto.RowResult, 0)
	for _, row := range rows {
		cand, err := NormalizeRow(sch, row)
		if err != nil {
			invalid = append(invalid, dto.RowResult{Line: row.Line, Outcome: dto.OutcomeInvalid, Error: err.Error()})
			continue
		}
		candidates = append(candidates, cand)
	}

	// One reconciliation pass per generation at a time. A concurrent upload
	// for the same generation blocks here until this one commits.
	s.locks.Lock(generation)
	defer s.locks.Unlock(generation)

	snapshot, err := s.repo.SnapshotByVIN(ctx, generation)
	if err != nil {
		return nil, err
	}

	records, results := Reconcile(sch, snapshot, candidates)

	if _, err := s.repo.ApplyBatch(ctx, generation, records); err != nil {
		return nil, err
	}

	if err := s.files.Save(generation, filename, data); err != nil {
		// The batch is already committed; a failed document archive is
		// logged, not surfaced as an upload failure.
		log.Warn().Err(err).Str("generation", generation).Str("file", filename).Msg("failed to archive source document")
	}

	s.invalidateCache(ctx, generation)

	summary := &dto.UploadSummary{FileName: filename}
	// Report outcomes in sheet order, with invalid rows in place.
	summary.Results = append(results, invalid...)
	sort.SliceStable(summary.Results, func(i, j int) bool {
		return summary.Results[i].Line < summary.Results[j].Line
	})
	for _, r := range summary.Results {
		switch r.Outcome {
		case dto.OutcomeCreated:
			summary.Created++
		case dto.OutcomeUpdated:
			summary.Updated++
		case dto.OutcomeUnchanged:
			summary.Unchanged++
		case dto.OutcomeInvalid:
			summary.Invalid++
		}
	}
	if names, err := s.files.List(generation); err == nil {
		summary.Files = names
	}

	log.Info().
		Str("generation", generation).
		Str("file", filename).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("unchanged", summary.Unchanged).
		Int("invalid", summary.Invalid).
		Msg("upload reconciled")

	return summary, nil
}

func (s *uploadService) invalidateCache(ctx context.Context, generation string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, RecordsCacheKey(generation)).Err(); err != nil {
		log.Warn().Err(err).Str("generation", generation).Msg("failed to invalidate records cache")
	}
}
