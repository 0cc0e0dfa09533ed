package repositories

import (
	"context"

	"github.com/podium/backend/internal/docstore"
	"github.com/podium/backend/internal/models"
)

// OpportunityRepository exposes read access to opportunity listings.
type OpportunityRepository interface {
	List(ctx context.Context) ([]models.Opportunity, error)
}

// DocumentOpportunityRepository reads the "opportunities" collection.
type DocumentOpportunityRepository struct {
	coll docstore.Collection
}

// NewOpportunityRepository constructs an opportunity repository.
func NewOpportunityRepository(database docstore.Database) *DocumentOpportunityRepository {
	return &DocumentOpportunityRepository{coll: database.Collection(CollectionOpportunities)}
}

// List returns opportunities, newest first.
func (r *DocumentOpportunityRepository) List(ctx context.Context) ([]models.Opportunity, error) {
	docs, err := r.coll.Find(ctx, nil, newestFirst)
	if err != nil {
		return nil, translate(err, "list opportunities")
	}
	opportunities, err := docstore.DecodeAll[models.Opportunity](docs)
	return opportunities, translate(err, "decode opportunities")
}

var _ OpportunityRepository = (*DocumentOpportunityRepository)(nil)
