package cart

import (
	cartdto "github.com/angelmondragon/cartquote-backend/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/cartquote-backend/internal/cart"
)

func toOwner(payload cartdto.CreateCartRequest) cartsvc.Owner {
	return cartsvc.Owner{UserID: payload.UserID, SessionID: payload.SessionID}
}

func toAddItemInputs(payload cartdto.AddItemsRequest) []cartsvc.AddItemInput {
	items := make([]cartsvc.AddItemInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, cartsvc.AddItemInput{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			ImageURL:  item.ImageURL,
		})
	}
	return items
}

func toQuantityUpdates(payload cartdto.UpdateItemsRequest) []cartsvc.QuantityUpdate {
	items := make([]cartsvc.QuantityUpdate, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, cartsvc.QuantityUpdate{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return items
}

func toProductIDs(payload cartdto.RemoveItemsRequest) []string {
	ids := make([]string, 0, len(payload.Items))
	for _, item := range payload.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

func toApplyPromotionInput(payload cartdto.ApplyPromotionRequest) cartsvc.ApplyPromotionInput {
	return cartsvc.ApplyPromotionInput{
		PromotionID:    payload.PromotionID,
		Code:           payload.Code,
		Name:           payload.Name,
		DiscountAmount: payload.DiscountAmount,
		DiscountType:   payload.DiscountType,
		Description:    payload.Description,
	}
}

func toShippingInput(payload cartdto.UpdateShippingRequest) *cartsvc.ShippingInput {
	if payload.ShippingEstimation == nil {
		return nil
	}
	est := payload.ShippingEstimation
	return &cartsvc.ShippingInput{
		Country:        est.Country,
		Region:         est.Region,
		PostalCode:     est.PostalCode,
		ShippingMethod: est.ShippingMethod,
	}
}
