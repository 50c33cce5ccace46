package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/cartquote-backend/internal/pricing"
	"github.com/angelmondragon/cartquote-backend/pkg/db/models"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	Create(ctx context.Context, owner Owner) (*models.Cart, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	ListByOwner(ctx context.Context, owner Owner) ([]models.Cart, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	AddItems(ctx context.Context, id uuid.UUID, items []models.CartItem) error
	UpdateItemQuantities(ctx context.Context, id uuid.UUID, updates []QuantityUpdate) error
	RemoveItems(ctx context.Context, id uuid.UUID, productIDs []string) error
	ClearItems(ctx context.Context, id uuid.UUID) error

	AddPromotion(ctx context.Context, id uuid.UUID, promo models.AppliedPromotion) error
	RemovePromotion(ctx context.Context, id uuid.UUID, promotionID string) error
	PromotionExists(ctx context.Context, id uuid.UUID, promotionID string) (bool, error)

	UpdateShipping(ctx context.Context, id uuid.UUID, shipping ShippingEstimation) error
	UpdateQuote(ctx context.Context, id uuid.UUID, revision int64, quote pricing.Result) error
	MarkSaved(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
