package docstore

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/podium/backend/internal/config"
)

func TestMemoryCollectionInsertMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryDatabase().Collection("posts")

	for _, id := range []string{"a", "b", "c"} {
		if _, err := coll.Insert(ctx, Document{IDField: id}); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	docs, err := coll.Find(ctx, nil, FindOptions{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got := ids(docs)
	want := []string{"c", "b", "a"}
	if len(got) != len(want) {
		t.Fatalf("unexpected result %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected order: got %v want %v", got, want)
		}
	}
}

func TestMemoryCollectionInsertConflict(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryDatabase().Collection("users")

	if _, err := coll.Insert(ctx, Document{IDField: "u1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := coll.Insert(ctx, Document{IDField: "u1"}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected conflict got %v", err)
	}
}

func TestMemoryCollectionFindFilterSortLimit(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryDatabase().Collection("comments")

	base := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	docs := []Document{
		{IDField: "c1", "post_id": "p1", "created_at": base.Add(2 * time.Minute)},
		{IDField: "c2", "post_id": "p2", "created_at": base},
		{IDField: "c3", "post_id": "p1", "created_at": base},
		{IDField: "c4", "post_id": "p1", "created_at": base.Add(time.Minute)},
	}
	for _, doc := range docs {
		if _, err := coll.Insert(ctx, doc); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	found, err := coll.Find(ctx, Filter{"post_id": "p1"}, FindOptions{
		Sort:  &Sort{Field: "created_at", Direction: Ascending},
		Limit: 2,
	})
	if err != nil {
		t.Fatalf("find: %v", err)
	}

	got := ids(found)
	if len(got) != 2 || got[0] != "c3" || got[1] != "c4" {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestMemoryCollectionSortDoesNotReorderStorage(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryDatabase().Collection("posts")

	for _, id := range []string{"b", "a", "c"} {
		if _, err := coll.Insert(ctx, Document{IDField: id}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	if _, err := coll.Find(ctx, nil, FindOptions{Sort: &Sort{Field: IDField, Direction: Ascending}}); err != nil {
		t.Fatalf("sorted find: %v", err)
	}

	docs, err := coll.Find(ctx, nil, FindOptions{})
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	got := ids(docs)
	if got[0] != "c" || got[1] != "a" || got[2] != "b" {
		t.Fatalf("storage order changed: %v", got)
	}
}

func TestMemoryCollectionUpdateMergesTopLevel(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryDatabase().Collection("users")

	if _, err := coll.Insert(ctx, Document{IDField: "u1", "name": "Lee", "bio": "Former No. 1", "skills": []any{"smash"}}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	matched, err := coll.Update(ctx, ByID("u1"), Document{"bio": "Coach", IDField: "other"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if matched != 1 {
		t.Fatalf("expected one match got %d", matched)
	}

	doc, err := coll.FindOne(ctx, ByID("u1"))
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if doc["name"] != "Lee" || doc["bio"] != "Coach" {
		t.Fatalf("unexpected document %v", doc)
	}

	matched, err = coll.Update(ctx, ByID("missing"), Document{"bio": "x"})
	if err != nil || matched != 0 {
		t.Fatalf("expected no match got %d, %v", matched, err)
	}
}

func TestMemoryCollectionReturnsCopies(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryDatabase().Collection("users")

	if _, err := coll.Insert(ctx, Document{IDField: "u1", "name": "Lee"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	doc, err := coll.FindOne(ctx, ByID("u1"))
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	doc["name"] = "changed"

	doc, err = coll.FindOne(ctx, ByID("u1"))
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if doc["name"] != "Lee" {
		t.Fatalf("stored document mutated through returned copy: %v", doc)
	}
}

func TestMemoryCollectionIncrement(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryDatabase().Collection("posts")

	if _, err := coll.Insert(ctx, Document{IDField: "p1", "likes": 0}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := coll.Increment(ctx, ByID("p1"), "likes", 1); err != nil {
				t.Errorf("increment: %v", err)
			}
		}()
	}
	wg.Wait()

	doc, err := coll.FindOne(ctx, ByID("p1"))
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if n, _ := toInt64(doc["likes"]); n != 50 {
		t.Fatalf("expected 50 likes got %v", doc["likes"])
	}

	if _, err := coll.Increment(ctx, ByID("missing"), "likes", 1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestMemoryCollectionUpsertDeleteCount(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryDatabase().Collection("training_videos")

	if err := coll.Upsert(ctx, ByID("v1"), Document{"title": "Footwork"}); err != nil {
		t.Fatalf("upsert insert: %v", err)
	}
	if err := coll.Upsert(ctx, ByID("v1"), Document{"title": "Advanced Footwork"}); err != nil {
		t.Fatalf("upsert update: %v", err)
	}

	n, err := coll.Count(ctx, nil)
	if err != nil || n != 1 {
		t.Fatalf("expected one document got %d, %v", n, err)
	}

	doc, err := coll.FindOne(ctx, ByID("v1"))
	if err != nil {
		t.Fatalf("find one: %v", err)
	}
	if doc["title"] != "Advanced Footwork" {
		t.Fatalf("unexpected title %v", doc["title"])
	}

	deleted, err := coll.Delete(ctx, ByID("v1"))
	if err != nil || deleted != 1 {
		t.Fatalf("expected delete got %d, %v", deleted, err)
	}
	if _, err := coll.FindOne(ctx, ByID("v1")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	type skill struct {
		Name         string `bson:"name"`
		Endorsements int    `bson:"endorsements"`
	}
	type profile struct {
		ID     string  `bson:"_id"`
		Age    *int    `bson:"age"`
		Skills []skill `bson:"skills"`
	}

	age := 28
	doc, err := Encode(profile{ID: "u1", Age: &age, Skills: []skill{{Name: "Smash", Endorsements: 3}}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if doc[IDField] != "u1" {
		t.Fatalf("unexpected id %v", doc[IDField])
	}

	var out profile
	if err := Decode(doc, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Age == nil || *out.Age != 28 || len(out.Skills) != 1 || out.Skills[0].Endorsements != 3 {
		t.Fatalf("unexpected round trip %+v", out)
	}
}

func TestOpenFallsBackToMemory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.StoreConfig{Driver: config.DriverMongo}

	database := OpenWith(context.Background(), cfg, logger, func(context.Context, config.StoreConfig) (Database, error) {
		return nil, errors.New("connection refused")
	})
	if database.Backend() != "memory" {
		t.Fatalf("expected memory fallback got %s", database.Backend())
	}

	cfg.Driver = config.DriverMemory
	database = OpenWith(context.Background(), cfg, logger, func(context.Context, config.StoreConfig) (Database, error) {
		t.Fatal("connector should not be called for the memory driver")
		return nil, nil
	})
	if database.Backend() != "memory" {
		t.Fatalf("expected memory backend got %s", database.Backend())
	}
}

func ids(docs []Document) []string {
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		id, _ := doc[IDField].(string)
		out = append(out, id)
	}
	return out
}
