package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"beautylist/internal/catalog/models"
)

// ProductStore is the ordered product collection owned by the session.
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id models.ProductID) (*models.Product, error)
	Append(ctx context.Context, p models.Product) error
	Replace(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, id models.ProductID) error
	ReplaceAll(ctx context.Context, products []models.Product) error
	Count(ctx context.Context) (int, error)
}

// Prompter is the blocking yes/no and acknowledgment surface of the user.
type Prompter interface {
	Confirm(ctx context.Context, message string) bool
	Notify(ctx context.Context, notice models.Notice)
}

// silentPrompter declines every confirmation and drops notices. It stands in
// when no user is attached, e.g. seeding at startup.
type silentPrompter struct{}

func (silentPrompter) Confirm(context.Context, string) bool  { return false }
func (silentPrompter) Notify(context.Context, models.Notice) {}

func orSilent(p Prompter) Prompter {
	if p == nil {
		return silentPrompter{}
	}
	return p
}
