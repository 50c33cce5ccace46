package cart

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	cartdto "github.com/angelmondragon/cartquote-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/cartquote-backend/api/responses"
	"github.com/angelmondragon/cartquote-backend/api/validators"
	cartsvc "github.com/angelmondragon/cartquote-backend/internal/cart"
	pkgerrors "github.com/angelmondragon/cartquote-backend/pkg/errors"
	"github.com/angelmondragon/cartquote-backend/pkg/logger"
)

const cartIDParam = "cartId"

// CartCreate creates an empty cart for a user, a session, or nobody.
func CartCreate(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}

		var payload cartdto.CreateCartRequest
		if r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &payload); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		cart, err := svc.CreateCart(r.Context(), toOwner(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCart(cart))
	}
}

// CartList returns the carts owned by the userId or sessionId query parameter, newest first.
func CartList(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}

		owner := cartsvc.Owner{
			UserID:    firstQuery(r, "userId", "user_id"),
			SessionID: firstQuery(r, "sessionId", "session_id"),
		}
		carts, err := svc.ListCarts(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCarts(carts))
	}
}

// CartFetch returns one cart by id.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		return svc.GetCart(ctx, id)
	})
}

// CartDelete removes a cart and echoes it as it was before removal.
func CartDelete(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		return svc.DeleteCart(ctx, id)
	})
}

func CartSave(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		return svc.SaveCart(ctx, id)
	})
}

// CartAddItems merges the posted lines into the cart; repeated products accumulate quantity.
func CartAddItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		var payload cartdto.AddItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.AddItems(ctx, id, toAddItemInputs(payload))
	})
}

func CartUpdateItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		var payload cartdto.UpdateItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateItemQuantities(ctx, id, toQuantityUpdates(payload))
	})
}

func CartRemoveItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		var payload cartdto.RemoveItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.RemoveItems(ctx, id, toProductIDs(payload))
	})
}

func CartClearItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		return svc.ClearItems(ctx, id)
	})
}

func CartApplyPromotion(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		var payload cartdto.ApplyPromotionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.ApplyPromotion(ctx, id, toApplyPromotionInput(payload))
	})
}

func CartRemovePromotion(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		promotionID, err := validators.PathString(r, "promotionId")
		if err != nil {
			return nil, err
		}
		return svc.RemovePromotion(ctx, id, promotionID)
	})
}

func CartUpdateShipping(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		var payload cartdto.UpdateShippingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateShipping(ctx, id, toShippingInput(payload))
	})
}

// CartReprice recomputes and stores the cart's quote.
func CartReprice(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return withCartID(svc, logg, func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error) {
		return svc.RepriceCart(ctx, id)
	})
}

type cartAction func(ctx context.Context, r *http.Request, id uuid.UUID) (*cartsvc.Cart, error)

func withCartID(svc cartsvc.Service, logg *logger.Logger, action cartAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !serviceReady(w, r, svc, logg) {
			return
		}

		id, err := validators.ParseUUIDParam(r, cartIDParam)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithCartID(ctx, id.String())
		}

		cart, err := action(ctx, r, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCart(cart))
	}
}

func serviceReady(w http.ResponseWriter, r *http.Request, svc cartsvc.Service, logg *logger.Logger) bool {
	if svc != nil {
		return true
	}
	responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
	return false
}

func firstQuery(r *http.Request, keys ...string) *string {
	for _, key := range keys {
		if value := validators.QueryString(r, key); value != nil {
			return value
		}
	}
	return nil
}
