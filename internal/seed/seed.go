// Package seed fills an empty database with a demo account and two products.
package seed

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/service"
)

const (
	SampleUsername = "testuser"
	SampleEmail    = "test@example.com"
	SamplePassword = "password123"
)

type sampleProduct struct {
	name        string
	description string
	price       float64
}

var sampleProducts = []sampleProduct{
	{name: "Laptop", description: "A high-end laptop", price: 1200.00},
	{name: "Phone", description: "Latest smartphone", price: 800.00},
}

// SampleData creates the sample account and its products when no user exists
// yet. It reports whether anything was written.
func SampleData(ctx context.Context, r *repo.GormRepo, auth *service.AuthService, catalog *service.CatalogService) (bool, error) {
	l := logging.FromContext(ctx).With("component", "seed")

	n, err := r.CountUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		l.Debug("seed_skipped", "reason", "database not empty", "users", n)
		return false, nil
	}

	userID, err := auth.Register(ctx, SampleUsername, SampleEmail, SamplePassword)
	if err != nil {
		return false, fmt.Errorf("seed user: %w", err)
	}

	for _, sp := range sampleProducts {
		desc, price := sp.description, sp.price
		if _, err := catalog.Create(ctx, userID, service.CreateProductInput{
			Name:        sp.name,
			Description: &desc,
			Price:       &price,
		}); err != nil {
			return false, fmt.Errorf("seed product %s: %w", sp.name, err)
		}
	}

	l.Info("seed_done", "user_id", userID, "products", len(sampleProducts))
	return true, nil
}
