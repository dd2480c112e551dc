package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestStorePutGetLastWriteWins(t *testing.T) {
	s := NewStore(nil)
	ctx := context.Background()

	if _, ok := s.Get("u1"); ok {
		t.Fatalf("expected no record before registration")
	}
	s.Put(ctx, "u1", "111")
	s.Put(ctx, "u1", "222")
	got, ok := s.Get("u1")
	if !ok || got != "222" {
		t.Fatalf("got %q ok=%v, want 222", got, ok)
	}
	if s.Len() != 1 {
		t.Fatalf("double register produced %d records, want 1", s.Len())
	}
}

type failingRepo struct{}

func (failingRepo) Load(ctx context.Context) (map[string]string, error) {
	return nil, errors.New("disk on fire")
}
func (failingRepo) Save(ctx context.Context, records map[string]string) error {
	return errors.New("disk on fire")
}

func TestStoreSurvivesRepoFailures(t *testing.T) {
	s := NewStore(failingRepo{})
	ctx := context.Background()

	s.Load(ctx)
	s.Put(ctx, "u1", "111")
	if got, ok := s.Get("u1"); !ok || got != "111" {
		t.Fatalf("memory not authoritative after save failure: %q ok=%v", got, ok)
	}
}

func TestFileRepoRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steam_ids.txt")
	repo := NewFileRepository(path)
	ctx := context.Background()

	// missing file is a first run, not an error
	records, err := repo.Load(ctx)
	if err != nil || len(records) != 0 {
		t.Fatalf("Load on missing file: %v, %d records", err, len(records))
	}

	in := map[string]string{"alice": "76561197960435530", "bob": "123456789"}
	if err := repo.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	out, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 || out["alice"] != in["alice"] || out["bob"] != in["bob"] {
		t.Fatalf("round trip mismatch: %v", out)
	}
}

func TestFileRepoSkipsShortLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "steam_ids.txt")
	body := "alice 111\n\nmalformed\nbob 222\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}
	out, err := NewFileRepository(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 2 || out["alice"] != "111" || out["bob"] != "222" {
		t.Fatalf("unexpected records: %v", out)
	}
}

func newRedisRepo(t *testing.T) Repository {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })
	repo, err := NewRedisRepository(fmt.Sprintf("redis://%s/0", mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedisRepository: %v", err)
	}
	return repo
}

func TestRedisRepoRoundTrip(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()

	in := map[string]string{"alice": "111", "bob": "222"}
	if err := repo.Save(ctx, in); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Save replaces wholesale: bob drops out when absent from the snapshot
	if err := repo.Save(ctx, map[string]string{"alice": "333"}); err != nil {
		t.Fatalf("Save #2: %v", err)
	}
	out, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(out) != 1 || out["alice"] != "333" {
		t.Fatalf("unexpected records: %v", out)
	}
}
