package fixtures

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/podium/backend/internal/docstore"
	"github.com/podium/backend/internal/models"
	"github.com/podium/backend/internal/repositories"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNames(t *testing.T) {
	names := Names()
	if len(names) != 2 || names[0] != Baseline || names[1] != Demo {
		t.Fatalf("unexpected fixture sets %v", names)
	}
}

func TestSeedBaseline(t *testing.T) {
	ctx := context.Background()
	database := docstore.NewMemoryDatabase()

	summary, err := Seed(ctx, database, Baseline, quietLogger())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if summary["users"] != 1 || summary["posts"] != 1 || summary["training_videos"] != 6 {
		t.Fatalf("unexpected summary %v", summary)
	}

	user, err := repositories.NewUserRepository(database).FindByID(ctx, "u1")
	if err != nil {
		t.Fatalf("find u1: %v", err)
	}
	if user.Name != "Lee Chong Wei" || user.Age == nil || *user.Age != 41 || len(user.Skills) != 4 || len(user.Experience) != 2 {
		t.Fatalf("unexpected seeded user %+v", user)
	}
	if user.Experience[0].Description == nil {
		t.Fatalf("expected experience description to be decoded: %+v", user.Experience[0])
	}

	videos, err := repositories.NewTrainingVideoRepository(database).List(ctx)
	if err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if len(videos) != 6 || videos[0].ID != "v6" || videos[5].VideoURL != "QIBIvy9hB8I" {
		t.Fatalf("unexpected videos %+v", videos)
	}
	if videos[0].Analysis != nil || videos[0].Type != models.VideoTypeLink {
		t.Fatalf("unexpected video fields %+v", videos[0])
	}
}

func TestSeedIsIdempotentAndKeepsCounters(t *testing.T) {
	ctx := context.Background()
	database := docstore.NewMemoryDatabase()

	if _, err := Seed(ctx, database, Baseline, quietLogger()); err != nil {
		t.Fatalf("first seed: %v", err)
	}

	posts := repositories.NewPostRepository(database)
	likes, err := posts.IncrementLikes(ctx, "p1")
	if err != nil || likes != 246 {
		t.Fatalf("expected 246 likes got %d, %v", likes, err)
	}

	summary, err := Seed(ctx, database, Baseline, quietLogger())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if summary["posts"] != 0 {
		t.Fatalf("expected existing post to be skipped, summary %v", summary)
	}

	post, err := posts.FindByID(ctx, "p1")
	if err != nil || post.Likes != 246 {
		t.Fatalf("reseeding reset counters: %+v, %v", post, err)
	}

	for _, name := range []string{"users", "training_videos"} {
		n, err := database.Collection(name).Count(ctx, nil)
		if err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if (name == "users" && n != 1) || (name == "training_videos" && n != 6) {
			t.Fatalf("unexpected %s count %d", name, n)
		}
	}
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	database := docstore.NewMemoryDatabase()

	if _, err := Seed(ctx, database, Demo, quietLogger()); err != nil {
		t.Fatalf("seed demo: %v", err)
	}

	opportunities, err := repositories.NewOpportunityRepository(database).List(ctx)
	if err != nil {
		t.Fatalf("list opportunities: %v", err)
	}
	if len(opportunities) != 5 {
		t.Fatalf("expected 5 opportunities got %d", len(opportunities))
	}
	for _, o := range opportunities {
		if o.PosterID == "" || len(o.Requirements) == 0 || o.Budget == nil {
			t.Fatalf("incomplete opportunity %+v", o)
		}
	}
}

func TestSeedUnknownSet(t *testing.T) {
	if _, err := Seed(context.Background(), docstore.NewMemoryDatabase(), "production", quietLogger()); err == nil {
		t.Fatal("expected error for unknown fixture set")
	}
}
