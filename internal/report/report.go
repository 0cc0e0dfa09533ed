// Package report summarises the contents of a document store for operators.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/podium/backend/internal/docstore"
	"github.com/podium/backend/internal/models"
	"github.com/podium/backend/internal/repositories"
)

const unknownPoster = "Unknown"

// Report is a point-in-time snapshot of the stored data.
type Report struct {
	Backend       string
	Counts        map[string]int64
	Athletes      []models.User
	Coaches       []models.User
	PostsByAuthor map[string]int
	Opportunities []OpportunityLine
}

// OpportunityLine is an opportunity with its poster's display name resolved.
type OpportunityLine struct {
	models.Opportunity
	PosterName string
}

var collections = []string{
	repositories.CollectionUsers,
	repositories.CollectionPosts,
	repositories.CollectionComments,
	repositories.CollectionTrainingVideos,
	repositories.CollectionOpportunities,
}

// Build reads counts and listings from database.
func Build(ctx context.Context, database docstore.Database) (Report, error) {
	rep := Report{
		Backend:       database.Backend(),
		Counts:        make(map[string]int64, len(collections)),
		PostsByAuthor: map[string]int{},
	}

	for _, name := range collections {
		n, err := database.Collection(name).Count(ctx, nil)
		if err != nil {
			return Report{}, fmt.Errorf("count %s: %w", name, err)
		}
		rep.Counts[name] = n
	}

	users, err := repositories.NewUserRepository(database).List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list users: %w", err)
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
		switch u.Role {
		case models.RoleAthlete:
			rep.Athletes = append(rep.Athletes, u)
		case models.RoleCoach:
			rep.Coaches = append(rep.Coaches, u)
		}
	}

	posts, err := repositories.NewPostRepository(database).List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list posts: %w", err)
	}
	for _, p := range posts {
		rep.PostsByAuthor[p.AuthorID]++
	}

	opportunities, err := repositories.NewOpportunityRepository(database).List(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list opportunities: %w", err)
	}
	for _, o := range opportunities {
		poster, ok := names[o.PosterID]
		if !ok {
			poster = unknownPoster
		}
		rep.Opportunities = append(rep.Opportunities, OpportunityLine{Opportunity: o, PosterName: poster})
	}

	return rep, nil
}

// Write renders rep as plain text.
func Write(w io.Writer, rep Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	rule := strings.Repeat("=", 70)

	fmt.Fprintln(tw, rule)
	fmt.Fprintf(tw, "PODIUM DATA REPORT (%s store)\n", rep.Backend)
	fmt.Fprintln(tw, rule)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "SUMMARY")
	for _, name := range collections {
		fmt.Fprintf(tw, "  %s\t%d\n", name, rep.Counts[name])
	}
	fmt.Fprintln(tw)

	writeUsers(tw, "ATHLETES", rep.Athletes)
	writeUsers(tw, "COACHES", rep.Coaches)

	fmt.Fprintln(tw, "POSTS BY AUTHOR")
	authors := make([]string, 0, len(rep.PostsByAuthor))
	for id := range rep.PostsByAuthor {
		authors = append(authors, id)
	}
	sort.Strings(authors)
	for _, id := range authors {
		fmt.Fprintf(tw, "  %s\t%d\n", id, rep.PostsByAuthor[id])
	}
	fmt.Fprintln(tw)

	fmt.Fprintf(tw, "OPPORTUNITIES (%d)\n", len(rep.Opportunities))
	for _, o := range rep.Opportunities {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", o.ID, o.Type, o.Title, o.PosterName)
		if o.Budget != nil {
			fmt.Fprintf(tw, "  \tbudget\t%s\t\n", *o.Budget)
		}
	}

	return tw.Flush()
}

func writeUsers(w io.Writer, title string, users []models.User) {
	fmt.Fprintf(w, "%s (%d)\n", title, len(users))
	for i, u := range users {
		fmt.Fprintf(w, "  %d.\t%s\t%s\t%s\t%d skills\n", i+1, u.Name, u.ID, orNA(u.Location), len(u.Skills))
	}
	fmt.Fprintln(w)
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return "N/A"
	}
	return *s
}
