package repository

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCode(t *testing.T) {
	assert.Equal(t, "TKT-2026-0001", FormatCode("TKT-2026", 1, 4))
	assert.Equal(t, "AST-LPT-2026-007", FormatCode("AST-LPT-2026", 7, 3))
	assert.Equal(t, "AST-LPT-2026-042", FormatCode("AST-LPT-2026", 42, 0), "zero padding falls back to default")

	// Values wider than the padding are kept intact.
	assert.Equal(t, "TKT-2026-12345", FormatCode("TKT-2026", 12345, 4))
}

// upsertCounters mimics the atomic insert-or-increment the allocator
// issues: each call moves the series forward by exactly one, creating
// it at 1 when absent, regardless of interleaving.
type upsertCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

type counterRow struct {
	value int64
}

func (r counterRow) Scan(dest ...any) error {
	*(dest[0].(*int64)) = r.value
	return nil
}

func (u *upsertCounters) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	u.mu.Lock()
	defer u.mu.Unlock()
	id := args[0].(string)
	u.values[id]++
	return counterRow{value: u.values[id]}
}

func TestAllocateNextConcurrentFirstAllocations(t *testing.T) {
	repo := &counterRepository{db: &upsertCounters{values: map[string]int64{}}}

	const n = 50
	codes := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			code, err := repo.AllocateNext(context.Background(), "ticket_2026", "TKT-2026", 4)
			assert.NoError(t, err)
			codes <- code
		}()
	}
	wg.Wait()
	close(codes)

	// Pairwise distinct and a contiguous run from 001, even when every
	// caller races the series' first allocation.
	var got []string
	for code := range codes {
		got = append(got, code)
	}
	sort.Strings(got)
	require.Len(t, got, n)
	for i := 1; i < n; i++ {
		assert.NotEqual(t, got[i-1], got[i])
	}
	assert.Equal(t, FormatCode("TKT-2026", 1, 4), got[0])
	assert.Equal(t, FormatCode("TKT-2026", int64(n), 4), got[n-1])
}

func TestAllocateNextSeriesAreIndependent(t *testing.T) {
	repo := &counterRepository{db: &upsertCounters{values: map[string]int64{}}}

	first, err := repo.AllocateNext(context.Background(), "asset_LPT_2026", "AST-LPT-2026", 0)
	require.NoError(t, err)
	assert.Equal(t, "AST-LPT-2026-001", first)

	other, err := repo.AllocateNext(context.Background(), "asset_SRV_2026", "AST-SRV-2026", 0)
	require.NoError(t, err)
	assert.Equal(t, "AST-SRV-2026-001", other, "a new series starts at 1 regardless of siblings")
}
