// Package seed loads sample professionals into an empty stub database.
package seed

import (
	"context"
	"fmt"

	"github.com/johnwards/professionals/internal/domain"
	"github.com/johnwards/professionals/internal/store"
)

// Professionals are the sample records inserted by Seed.
var Professionals = []store.ProfessionalInput{
	{FullName: "Ada Lovelace", Email: "ada@example.com", JobTitle: "Analyst", CompanyName: "Analytical Engines", Source: domain.SourceDirect},
	{FullName: "Grace Hopper", Email: "grace@example.com", Phone: "555-0100", JobTitle: "Rear Admiral", CompanyName: "US Navy", Source: domain.SourcePartner},
	{FullName: "Alan Turing", Phone: "555-0101", JobTitle: "Mathematician", Source: domain.SourceInternal},
	{FullName: "Katherine Johnson", Email: "katherine@example.com", CompanyName: "NASA", Source: domain.SourcePartner},
	{FullName: "Edsger Dijkstra", Email: "edsger@example.com", JobTitle: "Professor", Source: domain.SourceDirect},
}

// Seed inserts the sample professionals if none exist yet.
func Seed(ctx context.Context, s store.ProfessionalStore) error {
	count, err := s.Count(ctx)
	if err != nil {
		return fmt.Errorf("count professionals: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, in := range Professionals {
		if _, err := s.Create(ctx, in); err != nil {
			return fmt.Errorf("insert professional %s: %w", in.FullName, err)
		}
	}
	return nil
}
