package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"warehouse-service/internal/lookup/model"
	"warehouse-service/internal/lookup/service"
)

// Режимы перечитывания источника.
const (
	ModePerQuery = "per_query" // свежая загрузка на каждый запрос
	ModeStartup  = "startup"   // один раз при старте
	ModeWatch    = "watch"     // при старте + при изменении файла
	ModeSchedule = "schedule"  // при старте + по cron
)

// Snapshot: неизменяемый набор записей одной загрузки.
type Snapshot struct {
	Records  []model.Record
	Source   string
	LoadedAt time.Time
}

// Store владеет текущим снимком. Перезагрузка строит новый снимок и атомарно
// подменяет указатель; запросы видят либо старый, либо новый список целиком.
type Store struct {
	src      Source
	cols     Columns
	perQuery bool
	log      zerolog.Logger

	cur atomic.Pointer[Snapshot]
	mu  sync.Mutex // одна перезагрузка за раз
}

func New(src Source, cols Columns, mode string, logger zerolog.Logger) (*Store, error) {
	switch mode {
	case ModePerQuery, ModeStartup, ModeWatch, ModeSchedule:
	case "":
		mode = ModePerQuery
	default:
		return nil, fmt.Errorf("unknown reload mode %q", mode)
	}
	if cols == nil {
		cols = DefaultColumns()
	}
	return &Store{
		src:      src,
		cols:     cols,
		perQuery: mode == ModePerQuery,
		log:      logger.With().Str("component", "store").Str("source", src.Name()).Logger(),
	}, nil
}

func (s *Store) load(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	recs, err := LoadRecords(ctx, s.src, s.cols)
	if err != nil {
		return nil, err
	}
	s.log.Debug().Int("records", len(recs)).Dur("elapsed", time.Since(start)).Msg("source loaded")
	return &Snapshot{Records: recs, Source: s.src.Name(), LoadedAt: time.Now()}, nil
}

// Reload загружает источник и подменяет снимок. При ошибке прежний снимок остаётся.
func (s *Store) Reload(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("reload failed")
		return nil, err
	}
	s.cur.Store(snap)
	s.log.Info().Int("records", len(snap.Records)).Msg("snapshot replaced")
	return snap, nil
}

// Current возвращает снимок для одного запроса. В режиме per_query это всегда свежая
// загрузка, принадлежащая только вызывающему. Если стартовая загрузка не
// удалась, пробуем ещё раз.
func (s *Store) Current(ctx context.Context) (*Snapshot, error) {
	if s.perQuery {
		return s.load(ctx)
	}
	if snap := s.cur.Load(); snap != nil {
		return snap, nil
	}
	return s.Reload(ctx)
}

// Lookup: загрузка (по режиму) и сопоставление. Пустой запрос источник не трогает.
func (s *Store) Lookup(ctx context.Context, query string, m *service.Matcher) ([]model.Match, error) {
	if service.Normalize(query) == "" {
		return nil, nil
	}
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return m.Find(query, snap.Records), nil
}

// Loaded возвращает последний успешно загруженный снимок или nil.
func (s *Store) Loaded() *Snapshot { return s.cur.Load() }
