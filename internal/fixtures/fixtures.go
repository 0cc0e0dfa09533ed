// Package fixtures loads bundled sample data into a document store.
package fixtures

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/podium/backend/internal/docstore"
)

// Names of the bundled fixture sets.
const (
	Baseline = "baseline"
	Demo     = "demo"
)

//go:embed data/*.json
var files embed.FS

// insertOnly lists collections whose fixtures are written only when absent, so
// restarts never reset live counters such as post likes.
var insertOnly = map[string]bool{"posts": true}

// Summary counts the documents written per collection.
type Summary map[string]int

// Names returns the available fixture sets.
func Names() []string {
	entries, err := files.ReadDir("data")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		names = append(names, name[:len(name)-len(".json")])
	}
	sort.Strings(names)
	return names
}

// Load parses a fixture set into documents keyed by collection.
func Load(name string) (map[string][]docstore.Document, error) {
	raw, err := files.ReadFile("data/" + name + ".json")
	if err != nil {
		return nil, fmt.Errorf("unknown fixture set %q", name)
	}

	var set map[string][]bson.M
	if err := bson.UnmarshalExtJSON(raw, false, &set); err != nil {
		return nil, fmt.Errorf("parse fixture set %s: %w", name, err)
	}

	out := make(map[string][]docstore.Document, len(set))
	for collection, docs := range set {
		for _, doc := range docs {
			out[collection] = append(out[collection], docstore.Document(doc))
		}
	}
	return out, nil
}

// Seed writes the named fixture set into database. Documents are upserted by
// id, which makes seeding idempotent.
func Seed(ctx context.Context, database docstore.Database, name string, logger *slog.Logger) (Summary, error) {
	if logger == nil {
		logger = slog.Default()
	}

	set, err := Load(name)
	if err != nil {
		return nil, err
	}

	collections := make([]string, 0, len(set))
	for collection := range set {
		collections = append(collections, collection)
	}
	sort.Strings(collections)

	summary := Summary{}
	for _, collection := range collections {
		coll := database.Collection(collection)
		for _, doc := range set[collection] {
			id, ok := doc[docstore.IDField].(string)
			if !ok || id == "" {
				return summary, fmt.Errorf("fixture %s/%s: document without string _id", name, collection)
			}

			if insertOnly[collection] {
				if _, err := coll.Insert(ctx, doc); err != nil {
					if errors.Is(err, docstore.ErrConflict) {
						continue
					}
					return summary, fmt.Errorf("seed %s/%s: %w", collection, id, err)
				}
				summary[collection]++
				continue
			}

			fields := docstore.Document{}
			for k, v := range doc {
				if k != docstore.IDField {
					fields[k] = v
				}
			}
			if err := coll.Upsert(ctx, docstore.ByID(id), fields); err != nil {
				return summary, fmt.Errorf("seed %s/%s: %w", collection, id, err)
			}
			summary[collection]++
		}
	}

	logger.Info("fixtures seeded", "set", name, "backend", database.Backend(), "written", map[string]int(summary))
	return summary, nil
}
