package videos

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubProvider struct {
	metadata Metadata
	err      error
	calls    int
}

func (s *stubProvider) Lookup(context.Context, string) (Metadata, error) {
	s.calls++
	if s.err != nil {
		return Metadata{}, s.err
	}
	return s.metadata, nil
}

func TestCachingProviderSharesEntriesAcrossURLForms(t *testing.T) {
	base := &stubProvider{metadata: Metadata{Title: "Advanced Footwork Drills", DurationSeconds: 615}}
	cache := NewCachingProvider(base, time.Minute)
	ctx := context.Background()

	for _, url := range []string{
		"https://www.youtube.com/watch?v=QIBIvy9hB8I",
		"https://youtu.be/QIBIvy9hB8I",
		"https://www.youtube.com/embed/QIBIvy9hB8I",
	} {
		meta, err := cache.Lookup(ctx, url)
		if err != nil {
			t.Fatalf("lookup %s: %v", url, err)
		}
		if meta.Duration() != "10:15" {
			t.Fatalf("unexpected metadata %+v", meta)
		}
	}
	if base.calls != 1 {
		t.Fatalf("expected one upstream lookup got %d", base.calls)
	}
}

func TestCachingProviderErrors(t *testing.T) {
	cache := NewCachingProvider(nil, time.Minute)
	if _, err := cache.Lookup(context.Background(), "https://youtu.be/QIBIvy9hB8I"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected provider unavailable got %v", err)
	}

	base := &stubProvider{err: errors.New("yt-dlp exited 1")}
	cache = NewCachingProvider(base, time.Minute)
	for i := 0; i < 2; i++ {
		if _, err := cache.Lookup(context.Background(), "https://youtu.be/QIBIvy9hB8I"); err == nil {
			t.Fatal("expected lookup error")
		}
	}
	if base.calls != 2 {
		t.Fatalf("expected failures to bypass the cache got %d calls", base.calls)
	}
}

func TestCachingProviderExpiry(t *testing.T) {
	base := &stubProvider{metadata: Metadata{Title: "Net Play Secrets"}}
	cache := NewCachingProvider(base, time.Minute)
	now := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	url := "https://youtu.be/QIBIvy9hB8I"
	if _, err := cache.Lookup(context.Background(), url); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	now = now.Add(59 * time.Second)
	if _, err := cache.Lookup(context.Background(), url); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if base.calls != 1 {
		t.Fatalf("expected cached hit got %d calls", base.calls)
	}

	now = now.Add(time.Second)
	if _, err := cache.Lookup(context.Background(), url); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if base.calls != 2 {
		t.Fatalf("expected miss after expiry got %d calls", base.calls)
	}
}

func TestCachingProviderSweepsExpiredEntriesOnInsert(t *testing.T) {
	base := &stubProvider{metadata: Metadata{Title: "Drill"}}
	cache := NewCachingProvider(base, time.Minute)
	now := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	for _, id := range []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc"} {
		if _, err := cache.Lookup(context.Background(), WatchURL(id)); err != nil {
			t.Fatalf("lookup %s: %v", id, err)
		}
	}
	if len(cache.entries) != 3 {
		t.Fatalf("expected three entries got %d", len(cache.entries))
	}

	now = now.Add(2 * time.Minute)
	if _, err := cache.Lookup(context.Background(), WatchURL("ddddddddddd")); err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if _, ok := cache.entries["ddddddddddd"]; !ok || len(cache.entries) != 1 {
		t.Fatalf("expected only the fresh entry to remain got %d", len(cache.entries))
	}
}

func TestCachingProviderDefaultTTL(t *testing.T) {
	if cache := NewCachingProvider(&stubProvider{}, 0); cache.ttl != time.Minute {
		t.Fatalf("expected one minute default got %v", cache.ttl)
	}
}
