package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"warehouse-service/internal/fileio"
	"warehouse-service/internal/lookup/model"
	"warehouse-service/internal/lookup/service"
)

// seqSource отдаёт таблицы по очереди (последняя повторяется) и считает чтения.
type seqSource struct {
	mu     sync.Mutex
	reads  int
	tables []fileio.Table
	err    error
}

func (s *seqSource) Name() string { return "seq" }

func (s *seqSource) Read(context.Context) (fileio.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return fileio.Table{}, s.err
	}
	i := min(s.reads-1, len(s.tables)-1)
	return s.tables[i], nil
}

func (s *seqSource) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func table(ids ...string) fileio.Table {
	t := fileio.Table{Header: fullHeader}
	for _, id := range ids {
		t.Rows = append(t.Rows, []string{id, "1", "", "", "", "", "", "", ""})
	}
	return t
}

func newStore(t *testing.T, src Source, mode string) *Store {
	t.Helper()
	st, err := New(src, nil, mode, zerolog.Nop())
	require.NoError(t, err)
	return st
}

func TestNew_UnknownMode(t *testing.T) {
	_, err := New(&seqSource{}, nil, "hourly", zerolog.Nop())
	assert.Error(t, err)
}

func TestStore_PerQueryLoadsEveryTime(t *testing.T) {
	src := &seqSource{tables: []fileio.Table{table("ПУ-11"), table("ПУ-11", "ПУ-12")}}
	st := newStore(t, src, ModePerQuery)
	m := service.NewMatcher(model.DefaultOptions())
	ctx := context.Background()

	got, err := st.Lookup(ctx, "пу", m)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = st.Lookup(ctx, "пу", m)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 2, src.reads)
}

func TestStore_BlankQueryDoesNotTouchSource(t *testing.T) {
	src := &seqSource{err: errors.New("locked")}
	st := newStore(t, src, ModePerQuery)

	got, err := st.Lookup(context.Background(), "   ", service.NewMatcher(model.DefaultOptions()))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, src.reads)
}

func TestStore_LoadErrorSurfaces(t *testing.T) {
	src := &seqSource{err: errors.New("file is locked")}
	st := newStore(t, src, ModePerQuery)

	_, err := st.Lookup(context.Background(), "пу-11", service.NewMatcher(model.DefaultOptions()))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, err.Error(), "file is locked")
}

func TestStore_CachedSnapshotSurvivesFailedReload(t *testing.T) {
	src := &seqSource{tables: []fileio.Table{table("ПУ-11")}}
	st := newStore(t, src, ModeStartup)
	ctx := context.Background()

	snap, err := st.Reload(ctx)
	require.NoError(t, err)
	require.Same(t, snap, st.Loaded())

	src.fail(errors.New("file is locked"))
	_, err = st.Reload(ctx)
	require.Error(t, err)

	cur, err := st.Current(ctx)
	require.NoError(t, err)
	assert.Same(t, snap, cur)
	assert.Equal(t, 2, src.reads)
}

func TestStore_CurrentLoadsLazily(t *testing.T) {
	src := &seqSource{tables: []fileio.Table{table("ПУ-11")}}
	st := newStore(t, src, ModeStartup)
	assert.Nil(t, st.Loaded())

	snap, err := st.Current(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Records, 1)
	assert.NotNil(t, st.Loaded())
}

func TestStore_ConcurrentLookupsDuringReload(t *testing.T) {
	src := &seqSource{tables: []fileio.Table{table("ПУ-1", "ПУ-2"), table("ПУ-1", "ПУ-2", "ПУ-3")}}
	st := newStore(t, src, ModeStartup)
	m := service.NewMatcher(model.Options{Threshold: 0.45, Limit: 10})
	ctx := context.Background()
	_, err := st.Reload(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := st.Lookup(ctx, "пу", m)
				assert.NoError(t, err)
				// только целый старый или целый новый снимок
				assert.Contains(t, []int{2, 3}, len(got))
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, err := st.Reload(ctx)
		assert.NoError(t, err)
	}
	wg.Wait()
}

func TestScheduler_Lifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	st := newStore(t, &seqSource{tables: []fileio.Table{table("ПУ-11")}}, ModeSchedule)
	sch, err := NewScheduler(st, "@every 1h", time.Second)
	require.NoError(t, err)
	sch.Start()
	sch.Stop()

	_, err = NewScheduler(st, "every now and then", time.Second)
	assert.Error(t, err)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warehouse.csv")
	head := "Номер;Количество;Полка;Ячейка;Паспорт;Категория;Серийный номер;Проверка\n"
	require.NoError(t, os.WriteFile(path, []byte(head+"ПУ-11;1;;;;;;\n"), 0o644))

	st := newStore(t, FileSource{Path: path}, ModeWatch)
	_, err := st.Reload(context.Background())
	require.NoError(t, err)

	w, err := NewWatcher(st, path, 20*time.Millisecond)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	go w.Run(ctx)
	defer func() {
		cancel()
		<-w.Done()
		_ = w.Close()
	}()

	require.NoError(t, os.WriteFile(path, []byte(head+"ПУ-11;1;;;;;;\nПУ-12;2;;;;;;\n"), 0o644))
	require.Eventually(t, func() bool {
		snap := st.Loaded()
		return snap != nil && len(snap.Records) == 2
	}, 3*time.Second, 20*time.Millisecond)
}
