package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/catalog/internal/events"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/policy"
	"github.com/Skotchmaster/catalog/internal/repo"
)

type CatalogService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type CreateProductInput struct {
	Name        string
	Description *string
	Price       *float64
}

// PatchProductInput carries only the fields the caller sent; nil means unchanged.
// Invalid holds a decoding problem with the request body. It is reported as a
// validation error once the caller is known to own the product.
type PatchProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Invalid     error
}

func validPrice(p float64) bool {
	return p >= 0 && !math.IsNaN(p) && !math.IsInf(p, 0)
}

func (s *CatalogService) Create(ctx context.Context, ownerID uint, in CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if in.Price == nil {
		return nil, fmt.Errorf("%w: price is required", ErrValidation)
	}
	if !validPrice(*in.Price) {
		return nil, fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
	}

	if _, err := s.Repo.GetUserByID(ctx, ownerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup owner: %w", err)
	}

	product := &models.Product{
		Name:   name,
		Price:  *in.Price,
		UserID: ownerID,
	}
	if in.Description != nil {
		product.Description = *in.Description
	}

	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	publish(ctx, s.Events, events.TopicProduct, userKey(ownerID), productEvent("product_created", product))
	return product, nil
}

func (s *CatalogService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *CatalogService) ListAll(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Product, error) {
	return s.Repo.ListProductsByOwner(ctx, ownerID)
}

// Update checks existence, then ownership, then the new values. Nothing is
// written unless all three pass.
func (s *CatalogService) Update(ctx context.Context, id, callerID uint, in PatchProductInput) (*models.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutate(callerID, product.UserID) {
		return nil, ErrForbidden
	}

	if in.Invalid != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, in.Invalid)
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if !validPrice(*in.Price) {
			return nil, fmt.Errorf("%w: price must be a non-negative number", ErrValidation)
		}
		product.Price = *in.Price
	}

	if err := s.Repo.SaveProduct(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("save product: %w", err)
	}

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicProduct, userKey(callerID), productEvent("product_updated", updated))
	return updated, nil
}

func (s *CatalogService) Delete(ctx context.Context, id, callerID uint) error {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanMutate(callerID, product.UserID) {
		return ErrForbidden
	}

	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	publish(ctx, s.Events, events.TopicProduct, userKey(callerID), map[string]any{
		"type":      "product_deleted",
		"productID": id,
		"userID":    callerID,
	})
	return nil
}

func productEvent(kind string, p *models.Product) map[string]any {
	return map[string]any{
		"type":      kind,
		"productID": p.ID,
		"userID":    p.UserID,
		"name":      p.Name,
		"price":     p.Price,
	}
}
