package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingSource struct {
	calls int32
	delay time.Duration
	t     time.Time
	err   error
}

func (s *countingSource) ModTime(path string) (time.Time, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	return s.t, s.err
}

func TestModTimeCacheMemoizesSuccess(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	src := &countingSource{t: want}
	c := NewModTimeCache(src)

	for i := 0; i < 5; i++ {
		got, ok := c.Lookup("session\x00a.md", "a.md")
		if !ok {
			t.Fatal("expected successful lookup")
		}
		if !got.Equal(want) {
			t.Errorf("expected %v, got %v", want, got)
		}
	}

	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("expected one underlying call, got %d", n)
	}
}

func TestModTimeCacheMemoizesFailure(t *testing.T) {
	src := &countingSource{err: errors.New("stat failed")}
	c := NewModTimeCache(src)

	for i := 0; i < 3; i++ {
		if _, ok := c.Lookup("session\x00gone.md", "gone.md"); ok {
			t.Fatal("expected failed lookup")
		}
	}

	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("expected failure to be cached after one call, got %d", n)
	}
}

func TestModTimeCacheDistinctKeys(t *testing.T) {
	src := &countingSource{t: time.Now()}
	c := NewModTimeCache(src)

	c.Lookup("memory\x00a.md", "a.md")
	c.Lookup("session\x00a.md", "a.md")

	if n := atomic.LoadInt32(&src.calls); n != 2 {
		t.Errorf("expected one call per distinct key, got %d", n)
	}
}

func TestModTimeCacheCoalescesConcurrent(t *testing.T) {
	src := &countingSource{t: time.Now(), delay: 50 * time.Millisecond}
	c := NewModTimeCache(src)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := c.Lookup("session\x00a.md", "a.md"); !ok {
				t.Error("expected successful lookup")
			}
		}()
	}
	wg.Wait()

	if n := atomic.LoadInt32(&src.calls); n != 1 {
		t.Errorf("expected concurrent lookups to share one call, got %d", n)
	}
}
