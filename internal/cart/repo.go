package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/cartquote-backend/internal/pricing"
	"github.com/angelmondragon/cartquote-backend/pkg/db"
	"github.com/angelmondragon/cartquote-backend/pkg/db/models"
)

// CartTTL is how long a cart lives after creation. It is never extended.
const CartTTL = 30 * 24 * time.Hour

// Repository exposes persistence operations for carts, their items and promotions.
// Every mutation bumps the cart header (updated_at, revision) and clears the stored
// quote in the same transaction as the row change.
type Repository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn, now: time.Now}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx, now: r.now}
}

func (r *Repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

// Create inserts an empty cart for the owner.
func (r *Repository) Create(ctx context.Context, owner Owner) (*models.Cart, error) {
	now := r.timestamp()
	record := &models.Cart{
		ID:        uuid.New(),
		UserID:    owner.UserID,
		SessionID: owner.SessionID,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(CartTTL),
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func orderedAssociations(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("product_id ASC") }).
		Preload("Promotions", func(db *gorm.DB) *gorm.DB { return db.Order("promotion_id ASC") })
}

// FindByID loads a cart with its items and promotions.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var record models.Cart
	err := orderedAssociations(r.db.WithContext(ctx)).
		Where("id = ?", id).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListByOwner returns every cart of the owner, newest first.
func (r *Repository) ListByOwner(ctx context.Context, owner Owner) ([]models.Cart, error) {
	query := orderedAssociations(r.db.WithContext(ctx))
	switch {
	case owner.UserID != nil:
		query = query.Where("user_id = ?", *owner.UserID)
	case owner.SessionID != nil:
		query = query.Where("session_id = ?", *owner.SessionID)
	default:
		return []models.Cart{}, nil
	}

	rows := []models.Cart{}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Exists reports whether the cart id is known.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// mutate runs fn after invalidating the cart header inside one transaction.
// The header update goes first so concurrent writers queue on the same row.
func (r *Repository) mutate(ctx context.Context, id uuid.UUID, header map[string]any, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"updated_at":          r.timestamp(),
			"revision":            gorm.Expr("revision + 1"),
			"quote_subtotal":      nil,
			"quote_discount":      nil,
			"quote_tax":           nil,
			"quote_shipping":      nil,
			"quote_total":         nil,
			"quote_currency":      nil,
			"quote_calculated_at": nil,
		}
		for k, v := range header {
			updates[k] = v
		}

		res := tx.Model(&models.Cart{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCartNotFound
		}
		if fn == nil {
			return nil
		}
		return fn(tx)
	})
}

// AddItems merges items into the cart: existing lines get quantity added and the
// remaining fields overwritten.
func (r *Repository) AddItems(ctx context.Context, id uuid.UUID, items []models.CartItem) error {
	return r.mutate(ctx, id, nil, func(tx *gorm.DB) error {
		upsert := clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: append(
				clause.AssignmentColumns([]string{"name", "unit_price", "image_url"}),
				clause.Assignment{
					Column: clause.Column{Name: "quantity"},
					Value:  gorm.Expr("cart_items.quantity + excluded.quantity"),
				},
			),
		}
		for i := range items {
			item := items[i]
			item.CartID = id
			if err := tx.Clauses(upsert).Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateItemQuantities sets quantities on existing lines. Unknown products are ignored.
func (r *Repository) UpdateItemQuantities(ctx context.Context, id uuid.UUID, updates []QuantityUpdate) error {
	return r.mutate(ctx, id, nil, func(tx *gorm.DB) error {
		for _, u := range updates {
			if err := tx.Model(&models.CartItem{}).
				Where("cart_id = ? AND product_id = ?", id, u.ProductID).
				Update("quantity", u.Quantity).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// RemoveItems deletes the listed product lines.
func (r *Repository) RemoveItems(ctx context.Context, id uuid.UUID, productIDs []string) error {
	return r.mutate(ctx, id, nil, func(tx *gorm.DB) error {
		if len(productIDs) == 0 {
			return nil
		}
		return tx.Where("cart_id = ? AND product_id IN ?", id, productIDs).
			Delete(&models.CartItem{}).Error
	})
}

// ClearItems deletes every line of the cart.
func (r *Repository) ClearItems(ctx context.Context, id uuid.UUID) error {
	return r.mutate(ctx, id, nil, func(tx *gorm.DB) error {
		return tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error
	})
}

// AddPromotion attaches a promotion. A second application of the same promotion
// id returns ErrPromotionAlreadyApplied.
func (r *Repository) AddPromotion(ctx context.Context, id uuid.UUID, promo models.AppliedPromotion) error {
	return r.mutate(ctx, id, nil, func(tx *gorm.DB) error {
		promo.CartID = id
		if err := tx.Create(&promo).Error; err != nil {
			if db.IsUniqueViolation(err, "") {
				return ErrPromotionAlreadyApplied
			}
			return err
		}
		return nil
	})
}

// RemovePromotion detaches a promotion. Removing an absent promotion is a no-op
// apart from the header bump.
func (r *Repository) RemovePromotion(ctx context.Context, id uuid.UUID, promotionID string) error {
	return r.mutate(ctx, id, nil, func(tx *gorm.DB) error {
		return tx.Where("cart_id = ? AND promotion_id = ?", id, promotionID).
			Delete(&models.AppliedPromotion{}).Error
	})
}

// PromotionExists reports whether the promotion is applied to the cart.
func (r *Repository) PromotionExists(ctx context.Context, id uuid.UUID, promotionID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AppliedPromotion{}).
		Where("cart_id = ? AND promotion_id = ?", id, promotionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateShipping overwrites the embedded shipping estimation.
func (r *Repository) UpdateShipping(ctx context.Context, id uuid.UUID, shipping ShippingEstimation) error {
	country := shipping.Country
	return r.mutate(ctx, id, map[string]any{
		"shipping_country":     &country,
		"shipping_region":      shipping.Region,
		"shipping_postal_code": shipping.PostalCode,
		"shipping_method":      shipping.ShippingMethod,
	}, nil)
}

// UpdateQuote stores a computed quote, provided the cart has not been mutated
// since the revision the quote was computed from.
func (r *Repository) UpdateQuote(ctx context.Context, id uuid.UUID, revision int64, quote pricing.Result) error {
	calculatedAt := quote.CalculatedAt.UTC().Truncate(time.Microsecond)
	currency := quote.Currency
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND revision = ?", id, revision).
		Updates(map[string]any{
			"quote_subtotal":      quote.Subtotal,
			"quote_discount":      quote.Discount,
			"quote_tax":           quote.Tax,
			"quote_shipping":      quote.Shipping,
			"quote_total":         quote.Total,
			"quote_currency":      &currency,
			"quote_calculated_at": &calculatedAt,
			"updated_at":          r.timestamp(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	exists, err := r.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrCartNotFound
	}
	return ErrCartModified
}

// MarkSaved flags the cart as saved. The quote is left untouched.
func (r *Repository) MarkSaved(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", id).
		Updates(map[string]any{"saved": true, "updated_at": r.timestamp()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}

// Delete removes the cart together with its items and promotions.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", id).Delete(&models.AppliedPromotion{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Cart{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCartNotFound
		}
		return nil
	})
}
