package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/scribe/internal/adapter/storage/sqlite/sqlitedb"
	"github.com/bnema/scribe/internal/domain"
	"github.com/bnema/scribe/internal/infrastructure/clock"
	"github.com/bnema/scribe/internal/port"
	"github.com/pressly/goose/v3"
	"modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Fixed width so lexical order in SQL matches time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Store struct {
	db      *sql.DB
	queries *sqlitedb.Queries
	clock   clock.Clock
}

var hookOnce sync.Once

func registerHook() {
	hookOnce.Do(func() {
		sqlite.RegisterConnectionHook(func(conn sqlite.ExecQuerierContext, dsn string) error {
			pragmas := []string{
				"PRAGMA journal_mode = WAL",
				"PRAGMA busy_timeout = 5000",
				"PRAGMA synchronous = NORMAL",
				"PRAGMA foreign_keys = ON",
				"PRAGMA cache_size = -8000", // 8MB
			}
			for _, p := range pragmas {
				if _, err := conn.ExecContext(context.Background(), p, nil); err != nil {
					return fmt.Errorf("execute %s: %w", p, err)
				}
			}
			return nil
		})
	})
}

func NewStore(dataDir string, c clock.Clock) (*Store, error) {
	registerHook()

	dbPath := filepath.Join(dataDir, "scribe.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One writer at a time; transcript updates are small and serialized anyway.
	db.SetMaxOpenConns(1)

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if c == nil {
		c = clock.New()
	}
	return &Store{
		db:      db,
		queries: sqlitedb.New(db),
		clock:   c,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(originalName, videoPath string) (*domain.Job, error) {
	ctx := context.Background()

	job := domain.NewJob(originalName, videoPath)
	now := s.clock.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now

	params, err := insertParams(job)
	if err != nil {
		return nil, err
	}
	if err := s.queries.InsertJob(ctx, params); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return job, nil
}

func (s *Store) Get(id string) (*domain.Job, error) {
	return s.get(context.Background(), s.queries, id)
}

func (s *Store) get(ctx context.Context, q *sqlitedb.Queries, id string) (*domain.Job, error) {
	row, err := q.GetJob(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return jobFromRow(row)
}

// Update reads, patches and writes the job inside one transaction.
func (s *Store) Update(id string, patch domain.JobPatch) (*domain.Job, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin update: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := s.queries.WithTx(tx)
	job, err := s.get(ctx, q, id)
	if err != nil {
		return nil, err
	}

	job.Apply(patch, s.clock.Now())

	chunksJSON, err := json.Marshal(job.Chunks)
	if err != nil {
		return nil, fmt.Errorf("encode chunks: %w", err)
	}
	segmentsJSON, err := json.Marshal(job.Segments)
	if err != nil {
		return nil, fmt.Errorf("encode segments: %w", err)
	}

	err = q.UpdateJob(ctx, sqlitedb.UpdateJobParams{
		Status:            string(job.Status),
		Progress:          int64(job.Progress),
		AudioPath:         job.AudioPath,
		ChunksJson:        string(chunksJSON),
		TranscriptionText: job.TranscriptionText,
		SegmentsJson:      string(segmentsJSON),
		ErrorMessage:      job.Error,
		UpdatedAt:         formatTime(job.UpdatedAt),
		ID:                job.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("update job: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}
	return job, nil
}

func (s *Store) List() ([]*domain.Job, error) {
	rows, err := s.queries.ListJobs(context.Background())
	if err != nil {
		return nil, err
	}

	jobs := make([]*domain.Job, 0, len(rows))
	for _, row := range rows {
		job, err := jobFromRow(row)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}

// Helper conversions

func insertParams(job *domain.Job) (sqlitedb.InsertJobParams, error) {
	chunksJSON, err := json.Marshal(job.Chunks)
	if err != nil {
		return sqlitedb.InsertJobParams{}, fmt.Errorf("encode chunks: %w", err)
	}
	segmentsJSON, err := json.Marshal(job.Segments)
	if err != nil {
		return sqlitedb.InsertJobParams{}, fmt.Errorf("encode segments: %w", err)
	}
	return sqlitedb.InsertJobParams{
		ID:                job.ID,
		Status:            string(job.Status),
		Progress:          int64(job.Progress),
		OriginalName:      job.OriginalName,
		VideoPath:         job.VideoPath,
		AudioPath:         job.AudioPath,
		ChunksJson:        string(chunksJSON),
		TranscriptionText: job.TranscriptionText,
		SegmentsJson:      string(segmentsJSON),
		ErrorMessage:      job.Error,
		CreatedAt:         formatTime(job.CreatedAt),
		UpdatedAt:         formatTime(job.UpdatedAt),
	}, nil
}

func jobFromRow(row sqlitedb.Job) (*domain.Job, error) {
	job := &domain.Job{
		ID:                row.ID,
		Status:            domain.JobStatus(row.Status),
		Progress:          int(row.Progress),
		OriginalName:      row.OriginalName,
		VideoPath:         row.VideoPath,
		AudioPath:         row.AudioPath,
		TranscriptionText: row.TranscriptionText,
		Error:             row.ErrorMessage,
	}

	var err error
	if job.CreatedAt, err = parseTime(row.CreatedAt); err != nil {
		return nil, fmt.Errorf("job %s created_at: %w", row.ID, err)
	}
	if job.UpdatedAt, err = parseTime(row.UpdatedAt); err != nil {
		return nil, fmt.Errorf("job %s updated_at: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.ChunksJson), &job.Chunks); err != nil {
		return nil, fmt.Errorf("job %s chunks: %w", row.ID, err)
	}
	if err := json.Unmarshal([]byte(row.SegmentsJson), &job.Segments); err != nil {
		return nil, fmt.Errorf("job %s segments: %w", row.ID, err)
	}
	return job, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

var _ port.JobStore = (*Store)(nil)
