package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/cartquote-backend/internal/pricing"
	"github.com/angelmondragon/cartquote-backend/pkg/db/models"
	"github.com/angelmondragon/cartquote-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cartquote-backend/pkg/errors"
	"github.com/angelmondragon/cartquote-backend/pkg/logger"
)

const cartResource = "Cart"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes cart operations. Every mutation returns the cart as persisted
// after the change.
type Service interface {
	CreateCart(ctx context.Context, owner Owner) (*Cart, error)
	GetCart(ctx context.Context, id uuid.UUID) (*Cart, error)
	ListCarts(ctx context.Context, owner Owner) ([]Cart, error)
	AddItems(ctx context.Context, id uuid.UUID, items []AddItemInput) (*Cart, error)
	UpdateItemQuantities(ctx context.Context, id uuid.UUID, items []QuantityUpdate) (*Cart, error)
	RemoveItems(ctx context.Context, id uuid.UUID, productIDs []string) (*Cart, error)
	ClearItems(ctx context.Context, id uuid.UUID) (*Cart, error)
	ApplyPromotion(ctx context.Context, id uuid.UUID, input ApplyPromotionInput) (*Cart, error)
	RemovePromotion(ctx context.Context, id uuid.UUID, promotionID string) (*Cart, error)
	UpdateShipping(ctx context.Context, id uuid.UUID, input *ShippingInput) (*Cart, error)
	RepriceCart(ctx context.Context, id uuid.UUID) (*Cart, error)
	SaveCart(ctx context.Context, id uuid.UUID) (*Cart, error)
	DeleteCart(ctx context.Context, id uuid.UUID) (*Cart, error)
}

// AddItemInput is one line to merge into a cart.
type AddItemInput struct {
	ProductID string
	Name      string
	Quantity  int
	UnitPrice *decimal.Decimal
	ImageURL  *string
}

// ApplyPromotionInput describes a promotion to attach.
type ApplyPromotionInput struct {
	PromotionID    string
	Code           *string
	Name           string
	DiscountAmount *decimal.Decimal
	DiscountType   string
	Description    *string
}

// ShippingInput is the requested shipping estimation.
type ShippingInput struct {
	Country        string
	Region         *string
	PostalCode     *string
	ShippingMethod *string
}

type service struct {
	repo CartRepository
	tx   txRunner
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo: repo,
		tx:   tx,
		logg: logg,
		now:  time.Now,
	}, nil
}

func (s *service) CreateCart(ctx context.Context, owner Owner) (*Cart, error) {
	owner = normalizeOwner(owner)
	if owner.UserID != nil && owner.SessionID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only one of userId or sessionId may be provided")
	}

	record, err := s.repo.Create(ctx, owner)
	if err != nil {
		return nil, s.storageError(ctx, err, "create cart")
	}

	s.logg.Info(s.logg.WithCartID(ctx, record.ID.String()), "cart.created")
	return s.load(ctx, record.ID)
}

func (s *service) GetCart(ctx context.Context, id uuid.UUID) (*Cart, error) {
	return s.load(ctx, id)
}

func (s *service) ListCarts(ctx context.Context, owner Owner) ([]Cart, error) {
	owner = normalizeOwner(owner)
	if owner.UserID == nil && owner.SessionID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "userId or sessionId is required")
	}
	if owner.UserID != nil && owner.SessionID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "only one of userId or sessionId may be provided")
	}

	records, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, s.storageError(ctx, err, "list carts")
	}

	carts := make([]Cart, 0, len(records))
	for _, record := range records {
		carts = append(carts, FromModel(record))
	}
	return carts, nil
}

func (s *service) AddItems(ctx context.Context, id uuid.UUID, items []AddItemInput) (*Cart, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "At least one item is required")
	}

	rows := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required for each item")
		}
		if strings.TrimSpace(item.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required for each item")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than 0")
		}
		if item.UnitPrice == nil || item.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unitPrice must be >= 0")
		}
		rows = append(rows, models.CartItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: *item.UnitPrice,
			ImageURL:  item.ImageURL,
		})
	}

	if err := s.repo.AddItems(ctx, id, rows); err != nil {
		return nil, s.mutationError(ctx, id, err, "add items")
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithCartID(ctx, id.String()), map[string]any{"items": len(rows)}), "cart.items.added")
	return s.load(ctx, id)
}

func (s *service) UpdateItemQuantities(ctx context.Context, id uuid.UUID, items []QuantityUpdate) (*Cart, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "At least one item is required")
	}
	for _, item := range items {
		if strings.TrimSpace(item.ProductID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than 0")
		}
	}

	if err := s.repo.UpdateItemQuantities(ctx, id, items); err != nil {
		return nil, s.mutationError(ctx, id, err, "update item quantities")
	}

	s.logg.Info(s.logg.WithCartID(ctx, id.String()), "cart.items.updated")
	return s.load(ctx, id)
}

func (s *service) RemoveItems(ctx context.Context, id uuid.UUID, productIDs []string) (*Cart, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	if len(productIDs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "At least one item is required")
	}
	for _, productID := range productIDs {
		if strings.TrimSpace(productID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
		}
	}

	if err := s.repo.RemoveItems(ctx, id, productIDs); err != nil {
		return nil, s.mutationError(ctx, id, err, "remove items")
	}

	s.logg.Info(s.logg.WithCartID(ctx, id.String()), "cart.items.removed")
	return s.load(ctx, id)
}

func (s *service) ClearItems(ctx context.Context, id uuid.UUID) (*Cart, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.ClearItems(ctx, id); err != nil {
		return nil, s.mutationError(ctx, id, err, "clear items")
	}

	s.logg.Info(s.logg.WithCartID(ctx, id.String()), "cart.items.cleared")
	return s.load(ctx, id)
}

func (s *service) ApplyPromotion(ctx context.Context, id uuid.UUID, input ApplyPromotionInput) (*Cart, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.PromotionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotionId is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.DiscountAmount == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discountAmount is required")
	}
	if input.DiscountType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discountType is required")
	}
	discountType, err := enums.ParseDiscountType(input.DiscountType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, `discountType must be "percentage" or "fixed"`)
	}

	applied, err := s.repo.PromotionExists(ctx, id, input.PromotionID)
	if err != nil {
		return nil, s.storageError(ctx, err, "check promotion")
	}
	if applied {
		return nil, promotionConflict(input.PromotionID)
	}

	promo := models.AppliedPromotion{
		PromotionID:    input.PromotionID,
		Code:           emptyToNil(input.Code),
		Name:           input.Name,
		DiscountAmount: *input.DiscountAmount,
		DiscountType:   discountType,
		Description:    emptyToNil(input.Description),
	}
	if err := s.repo.AddPromotion(ctx, id, promo); err != nil {
		if errors.Is(err, ErrPromotionAlreadyApplied) {
			return nil, promotionConflict(input.PromotionID)
		}
		return nil, s.mutationError(ctx, id, err, "apply promotion")
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithCartID(ctx, id.String()), map[string]any{"promotion_id": input.PromotionID}), "cart.promotion.applied")
	return s.load(ctx, id)
}

func (s *service) RemovePromotion(ctx context.Context, id uuid.UUID, promotionID string) (*Cart, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	if strings.TrimSpace(promotionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "promotionId is required")
	}

	if err := s.repo.RemovePromotion(ctx, id, promotionID); err != nil {
		return nil, s.mutationError(ctx, id, err, "remove promotion")
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithCartID(ctx, id.String()), map[string]any{"promotion_id": promotionID}), "cart.promotion.removed")
	return s.load(ctx, id)
}

func (s *service) UpdateShipping(ctx context.Context, id uuid.UUID, input *ShippingInput) (*Cart, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	if input == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shippingEstimation is required")
	}
	if strings.TrimSpace(input.Country) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "country is required")
	}

	estimation := ShippingEstimation{
		Country:    input.Country,
		Region:     emptyToNil(input.Region),
		PostalCode: emptyToNil(input.PostalCode),
	}
	if raw := emptyToNil(input.ShippingMethod); raw != nil {
		method, err := enums.ParseShippingMethod(*raw)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, `shippingMethod must be "standard", "express", or "overnight"`)
		}
		estimation.ShippingMethod = &method
	}

	if err := s.repo.UpdateShipping(ctx, id, estimation); err != nil {
		return nil, s.mutationError(ctx, id, err, "update shipping")
	}

	s.logg.Info(s.logg.WithCartID(ctx, id.String()), "cart.shipping.updated")
	return s.load(ctx, id)
}

// RepriceCart computes a quote from the cart as read and stores it only if no
// mutation landed in between; otherwise the caller gets a Conflict and may retry.
func (s *service) RepriceCart(ctx context.Context, id uuid.UUID) (*Cart, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mutationError(ctx, id, err, "load cart")
	}

	input := pricing.Input{
		Lines:          make([]pricing.Line, 0, len(record.Items)),
		Promotions:     make([]pricing.Promotion, 0, len(record.Promotions)),
		ShippingMethod: record.ShippingMethod,
	}
	for _, item := range record.Items {
		input.Lines = append(input.Lines, pricing.Line{Quantity: item.Quantity, UnitPrice: item.UnitPrice})
	}
	for _, promo := range record.Promotions {
		input.Promotions = append(input.Promotions, pricing.Promotion{Amount: promo.DiscountAmount, Type: promo.DiscountType})
	}
	quote := pricing.Calculate(input, s.now())

	if err := s.repo.UpdateQuote(ctx, id, record.Revision, quote); err != nil {
		if errors.Is(err, ErrCartModified) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "cart changed while it was being repriced; retry the reprice")
		}
		return nil, s.mutationError(ctx, id, err, "store quote")
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithCartID(ctx, id.String()), map[string]any{"total": quote.Total.StringFixed(2)}), "cart.repriced")
	return s.load(ctx, id)
}

func (s *service) SaveCart(ctx context.Context, id uuid.UUID) (*Cart, error) {
	if err := s.ensureExists(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.MarkSaved(ctx, id); err != nil {
		return nil, s.mutationError(ctx, id, err, "save cart")
	}

	s.logg.Info(s.logg.WithCartID(ctx, id.String()), "cart.saved")
	return s.load(ctx, id)
}

// DeleteCart removes the cart and returns it as it was right before removal.
func (s *service) DeleteCart(ctx context.Context, id uuid.UUID) (*Cart, error) {
	var deleted *Cart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		record, err := txRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			return err
		}
		cart := FromModel(*record)
		deleted = &cart
		return nil
	})
	if err != nil {
		return nil, s.mutationError(ctx, id, err, "delete cart")
	}

	s.logg.Info(s.logg.WithCartID(ctx, id.String()), "cart.deleted")
	return deleted, nil
}

func (s *service) ensureExists(ctx context.Context, id uuid.UUID) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return s.storageError(ctx, err, "check cart")
	}
	if !exists {
		return pkgerrors.NotFound(cartResource, id.String())
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Cart, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mutationError(ctx, id, err, "load cart")
	}
	cart := FromModel(*record)
	return &cart, nil
}

// mutationError maps repository sentinels onto typed errors. A cart deleted
// between the existence check and the write surfaces as NotFound.
func (s *service) mutationError(ctx context.Context, id uuid.UUID, err error, action string) error {
	if errors.Is(err, ErrCartNotFound) {
		return pkgerrors.NotFound(cartResource, id.String())
	}
	return s.storageError(s.logg.WithCartID(ctx, id.String()), err, action)
}

func (s *service) storageError(ctx context.Context, err error, action string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	s.logg.Error(ctx, action+" failed", err)
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}

func promotionConflict(promotionID string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("Promotion '%s' is already applied to this cart", promotionID))
}

func normalizeOwner(owner Owner) Owner {
	return Owner{
		UserID:    emptyToNil(owner.UserID),
		SessionID: emptyToNil(owner.SessionID),
	}
}

func emptyToNil(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
