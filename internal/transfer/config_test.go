package transfer

import "testing"

func TestRuntimeGettersFallBackOnNil(t *testing.T) {
	var rt *Runtime
	if got := rt.GetNumWorkers(false); got != NumWorkers {
		t.Errorf("GetNumWorkers(false) = %d, want %d", got, NumWorkers)
	}
	if got := rt.GetNumWorkers(true); got != StreamNumWorkers {
		t.Errorf("GetNumWorkers(true) = %d, want %d", got, StreamNumWorkers)
	}
	if got := rt.GetMaxQueueSize(false); got != MaxQueueSize {
		t.Errorf("GetMaxQueueSize(false) = %d, want %d", got, MaxQueueSize)
	}
	if got := rt.GetChunksize(); got != Chunksize {
		t.Errorf("GetChunksize() = %d, want %d", got, Chunksize)
	}
	if got := rt.GetMaxRedirects(); got != 20 {
		t.Errorf("GetMaxRedirects() = %d, want 20", got)
	}
	if got := rt.GetBasicTaskAttempts(); got != BasicTaskAttempts {
		t.Errorf("GetBasicTaskAttempts() = %d, want %d", got, BasicTaskAttempts)
	}
}

func TestRuntimeGettersRespectOverrides(t *testing.T) {
	rt := &Runtime{NumWorkers: 4, MaxQueueSize: 50, MaxRedirects: 3, BasicTaskAttempts: 7}
	if got := rt.GetNumWorkers(false); got != 4 {
		t.Errorf("GetNumWorkers = %d, want 4", got)
	}
	if got := rt.GetMaxQueueSize(false); got != 50 {
		t.Errorf("GetMaxQueueSize = %d, want 50", got)
	}
	if got := rt.GetMaxRedirects(); got != 3 {
		t.Errorf("GetMaxRedirects = %d, want 3", got)
	}
	if got := rt.GetBasicTaskAttempts(); got != 7 {
		t.Errorf("GetBasicTaskAttempts = %d, want 7", got)
	}
}

func TestNumPartsRoundsUp(t *testing.T) {
	cases := []struct {
		size, chunksize int64
		want            int
	}{
		{size: 16 * MB, chunksize: 8 * MB, want: 2},
		{size: 16*MB + 1, chunksize: 8 * MB, want: 3},
		{size: 1, chunksize: 8 * MB, want: 1},
		{size: 8 * MB, chunksize: 8 * MB, want: 1},
	}
	for _, c := range cases {
		if got := numParts(c.size, c.chunksize); got != c.want {
			t.Errorf("numParts(%d, %d) = %d, want %d", c.size, c.chunksize, got, c.want)
		}
	}
}

func TestChunksizeForGrowsToRespectMaxParts(t *testing.T) {
	rt := &Runtime{Chunksize: 8 * MB, MaxParts: 2}
	size := int64(100 * MB)
	c := chunksizeFor(size, rt)
	if n := numParts(size, c); n > 2 {
		t.Errorf("numParts with grown chunksize = %d, want <= 2", n)
	}
}
