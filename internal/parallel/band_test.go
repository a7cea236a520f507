package parallel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestSplitRows(t *testing.T) {
	tests := []struct {
		name   string
		height int
		rows   int
		want   []Band
	}{
		{"empty", 0, 64, nil},
		{"single row", 1, 64, []Band{{0, 1}}},
		{"exact", 128, 64, []Band{{0, 64}, {64, 128}}},
		{"remainder", 130, 64, []Band{{0, 64}, {64, 128}, {128, 130}}},
		{"default rows", 65, 0, []Band{{0, 64}, {64, 65}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitRows(tt.height, tt.rows)
			if len(got) != len(tt.want) {
				t.Fatalf("SplitRows(%d, %d) = %v, want %v", tt.height, tt.rows, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("band %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitRows_CoversEveryRowOnce(t *testing.T) {
	const height = 1000
	covered := make([]int, height)
	for _, b := range SplitRows(height, 7) {
		if b.Rows() <= 0 || b.Rows() > 7 {
			t.Fatalf("band %v has %d rows", b, b.Rows())
		}
		for y := b.Y0; y < b.Y1; y++ {
			covered[y]++
		}
	}
	for y, n := range covered {
		if n != 1 {
			t.Fatalf("row %d covered %d times", y, n)
		}
	}
}

func TestForEachBand(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var rows atomic.Int64
	err := pool.ForEachBand(context.Background(), SplitRows(300, 16), func(b Band) {
		rows.Add(int64(b.Rows()))
	})
	if err != nil {
		t.Fatalf("ForEachBand() error = %v", err)
	}
	if rows.Load() != 300 {
		t.Errorf("processed %d rows, want 300", rows.Load())
	}
}

func TestForEachBand_CanceledBeforeStart(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int64
	err := pool.ForEachBand(ctx, SplitRows(100, 10), func(Band) { calls.Add(1) })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if calls.Load() != 0 {
		t.Errorf("%d bands ran after cancellation", calls.Load())
	}
}

func TestForEachBand_CanceledMidway(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int64
	err := pool.ForEachBand(ctx, SplitRows(100, 1), func(Band) {
		if calls.Add(1) == 3 {
			cancel()
		}
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if calls.Load() >= 100 {
		t.Errorf("all %d bands ran despite cancellation", calls.Load())
	}
}

func TestForEachBand_ClosedPool(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	err := pool.ForEachBand(context.Background(), SplitRows(10, 5), func(Band) {})
	if !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("error = %v, want ErrPoolClosed", err)
	}
}
