package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cartsvc "github.com/angelmondragon/cartquote-backend/internal/cart"
	"github.com/angelmondragon/cartquote-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/cartquote-backend/pkg/errors"
)

type stubCartService struct {
	cart  *cartsvc.Cart
	carts []cartsvc.Cart
	err   error

	lastID          uuid.UUID
	lastOwner       cartsvc.Owner
	lastItems       []cartsvc.AddItemInput
	lastUpdates     []cartsvc.QuantityUpdate
	lastRemoved     []string
	lastPromotion   cartsvc.ApplyPromotionInput
	lastPromotionID string
	lastShipping    *cartsvc.ShippingInput
	calls           []string
}

func (s *stubCartService) record(op string, id uuid.UUID) (*cartsvc.Cart, error) {
	s.calls = append(s.calls, op)
	s.lastID = id
	return s.cart, s.err
}

func (s *stubCartService) CreateCart(_ context.Context, owner cartsvc.Owner) (*cartsvc.Cart, error) {
	s.lastOwner = owner
	return s.record("create", uuid.Nil)
}

func (s *stubCartService) GetCart(_ context.Context, id uuid.UUID) (*cartsvc.Cart, error) {
	return s.record("get", id)
}

func (s *stubCartService) ListCarts(_ context.Context, owner cartsvc.Owner) ([]cartsvc.Cart, error) {
	s.lastOwner = owner
	s.calls = append(s.calls, "list")
	return s.carts, s.err
}

func (s *stubCartService) AddItems(_ context.Context, id uuid.UUID, items []cartsvc.AddItemInput) (*cartsvc.Cart, error) {
	s.lastItems = items
	return s.record("add", id)
}

func (s *stubCartService) UpdateItemQuantities(_ context.Context, id uuid.UUID, items []cartsvc.QuantityUpdate) (*cartsvc.Cart, error) {
	s.lastUpdates = items
	return s.record("update", id)
}

func (s *stubCartService) RemoveItems(_ context.Context, id uuid.UUID, productIDs []string) (*cartsvc.Cart, error) {
	s.lastRemoved = productIDs
	return s.record("remove", id)
}

func (s *stubCartService) ClearItems(_ context.Context, id uuid.UUID) (*cartsvc.Cart, error) {
	return s.record("clear", id)
}

func (s *stubCartService) ApplyPromotion(_ context.Context, id uuid.UUID, input cartsvc.ApplyPromotionInput) (*cartsvc.Cart, error) {
	s.lastPromotion = input
	return s.record("apply", id)
}

func (s *stubCartService) RemovePromotion(_ context.Context, id uuid.UUID, promotionID string) (*cartsvc.Cart, error) {
	s.lastPromotionID = promotionID
	return s.record("unapply", id)
}

func (s *stubCartService) UpdateShipping(_ context.Context, id uuid.UUID, input *cartsvc.ShippingInput) (*cartsvc.Cart, error) {
	s.lastShipping = input
	return s.record("shipping", id)
}

func (s *stubCartService) RepriceCart(_ context.Context, id uuid.UUID) (*cartsvc.Cart, error) {
	return s.record("reprice", id)
}

func (s *stubCartService) SaveCart(_ context.Context, id uuid.UUID) (*cartsvc.Cart, error) {
	return s.record("save", id)
}

func (s *stubCartService) DeleteCart(_ context.Context, id uuid.UUID) (*cartsvc.Cart, error) {
	return s.record("delete", id)
}

func sampleCart() *cartsvc.Cart {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	method := enums.ShippingMethodStandard
	promos := []cartsvc.AppliedPromotion{{
		PromotionID:    "promo-10",
		Name:           "Ten percent",
		DiscountAmount: decimal.NewFromInt(10),
		DiscountType:   enums.DiscountTypePercentage,
	}}
	return &cartsvc.Cart{
		ID: uuid.New(),
		Items: []cartsvc.CartItem{{
			ProductID: "p1",
			Name:      "Widget",
			Quantity:  2,
			UnitPrice: decimal.NewFromInt(10),
		}},
		Promotions: promos,
		ShippingEstimation: &cartsvc.ShippingEstimation{
			Country:        "US",
			ShippingMethod: &method,
		},
		Quote: &cartsvc.Quote{
			Subtotal:          decimal.RequireFromString("20"),
			Discount:          decimal.RequireFromString("2"),
			Tax:               decimal.RequireFromString("1.8"),
			Shipping:          decimal.RequireFromString("5.99"),
			Total:             decimal.RequireFromString("25.79"),
			Currency:          enums.CurrencyUSD,
			CalculatedAt:      now,
			AppliedPromotions: promos,
		},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(cartsvc.CartTTL),
	}
}

func withParams(req *http.Request, params map[string]string) *http.Request {
	rc := chi.NewRouteContext()
	for k, v := range params {
		rc.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func decodeErrorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return payload.Error.Code
}

func TestCartFetchRendersMoneyWithTwoDecimals(t *testing.T) {
	cart := sampleCart()
	svc := &stubCartService{cart: cart}
	req := withParams(httptest.NewRequest(http.MethodGet, "/api/v1/carts/"+cart.ID.String(), nil), map[string]string{"cartId": cart.ID.String()})
	resp := httptest.NewRecorder()

	CartFetch(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	body := resp.Body.String()
	for _, want := range []string{`"total":25.79`, `"tax":1.80`, `"subtotal":20.00`, `"unitPrice":10.00`, `"shippingMethod":"standard"`, `"discountType":"percentage"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %s, got %s", want, body)
		}
	}
	if svc.lastID != cart.ID {
		t.Fatalf("expected service called with %s got %s", cart.ID, svc.lastID)
	}
}

func TestCartFetchInvalidUUID(t *testing.T) {
	svc := &stubCartService{}
	req := withParams(httptest.NewRequest(http.MethodGet, "/api/v1/carts/not-a-uuid", nil), map[string]string{"cartId": "not-a-uuid"})
	resp := httptest.NewRecorder()

	CartFetch(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if code := decodeErrorCode(t, resp); code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected error code %s", code)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("service should not be called, got %v", svc.calls)
	}
}

func TestCartFetchNotFound(t *testing.T) {
	id := uuid.New()
	svc := &stubCartService{err: pkgerrors.NotFound("Cart", id.String())}
	req := withParams(httptest.NewRequest(http.MethodGet, "/api/v1/carts/"+id.String(), nil), map[string]string{"cartId": id.String()})
	resp := httptest.NewRecorder()

	CartFetch(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Cart with id '"+id.String()+"' not found") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCartCreate(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.Cart{ID: uuid.New()}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts", strings.NewReader(`{"sessionId":"sess-1"}`))
	resp := httptest.NewRecorder()
	CartCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastOwner.SessionID == nil || *svc.lastOwner.SessionID != "sess-1" {
		t.Fatalf("expected session owner, got %+v", svc.lastOwner)
	}
	if !strings.Contains(resp.Body.String(), `"quote":null`) {
		t.Fatalf("expected null quote on new cart, got %s", resp.Body.String())
	}
}

func TestCartCreateWithoutBody(t *testing.T) {
	svc := &stubCartService{cart: &cartsvc.Cart{ID: uuid.New()}}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts", nil)
	resp := httptest.NewRecorder()
	CartCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	if svc.lastOwner.UserID != nil || svc.lastOwner.SessionID != nil {
		t.Fatalf("expected anonymous owner, got %+v", svc.lastOwner)
	}
}

func TestCartCreateRejectsUnknownFields(t *testing.T) {
	svc := &stubCartService{}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts", strings.NewReader(`{"owner":"x"}`))
	resp := httptest.NewRecorder()
	CartCreate(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartListReadsOwnerQuery(t *testing.T) {
	svc := &stubCartService{carts: []cartsvc.Cart{}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts?user_id=user-9", nil)
	resp := httptest.NewRecorder()
	CartList(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastOwner.UserID == nil || *svc.lastOwner.UserID != "user-9" {
		t.Fatalf("expected user owner, got %+v", svc.lastOwner)
	}
	if strings.TrimSpace(resp.Body.String()) != `{"data":[]}` {
		t.Fatalf("expected empty list, got %s", resp.Body.String())
	}
}

func TestCartAddItemsDecodesPayload(t *testing.T) {
	cart := sampleCart()
	svc := &stubCartService{cart: cart}
	body := `{"items":[{"productId":"p1","name":"Widget","quantity":2,"unitPrice":10.5,"imageUrl":"https://cdn.example.com/w.png"}]}`
	req := withParams(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), map[string]string{"cartId": cart.ID.String()})
	resp := httptest.NewRecorder()

	CartAddItems(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.lastItems) != 1 {
		t.Fatalf("expected 1 item, got %d", len(svc.lastItems))
	}
	item := svc.lastItems[0]
	if item.ProductID != "p1" || item.Quantity != 2 || item.UnitPrice == nil || !item.UnitPrice.Equal(decimal.RequireFromString("10.5")) {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.ImageURL == nil || *item.ImageURL != "https://cdn.example.com/w.png" {
		t.Fatalf("expected image url, got %v", item.ImageURL)
	}
}

func TestCartAddItemsRequiresBody(t *testing.T) {
	id := uuid.New()
	svc := &stubCartService{}
	req := withParams(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"cartId": id.String()})
	resp := httptest.NewRecorder()

	CartAddItems(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if len(svc.calls) != 0 {
		t.Fatalf("service should not be called, got %v", svc.calls)
	}
}

func TestCartItemMutationsForwardPayload(t *testing.T) {
	cart := sampleCart()
	params := map[string]string{"cartId": cart.ID.String()}

	svc := &stubCartService{cart: cart}
	req := withParams(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"items":[{"productId":"p1","quantity":7}]}`)), params)
	CartUpdateItems(svc, nil).ServeHTTP(httptest.NewRecorder(), req)
	if len(svc.lastUpdates) != 1 || svc.lastUpdates[0].Quantity != 7 {
		t.Fatalf("unexpected updates %+v", svc.lastUpdates)
	}

	req = withParams(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[{"productId":"p1"},{"productId":"p2"}]}`)), params)
	CartRemoveItems(svc, nil).ServeHTTP(httptest.NewRecorder(), req)
	if len(svc.lastRemoved) != 2 || svc.lastRemoved[1] != "p2" {
		t.Fatalf("unexpected removed ids %v", svc.lastRemoved)
	}

	req = withParams(httptest.NewRequest(http.MethodDelete, "/", nil), params)
	CartClearItems(svc, nil).ServeHTTP(httptest.NewRecorder(), req)

	want := []string{"update", "remove", "clear"}
	if strings.Join(svc.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected calls %v", svc.calls)
	}
}

func TestCartApplyPromotionConflict(t *testing.T) {
	id := uuid.New()
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeConflict, "Promotion 'promo-10' is already applied to this cart")}
	body := `{"promotionId":"promo-10","name":"Ten percent","discountAmount":10,"discountType":"percentage"}`
	req := withParams(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)), map[string]string{"cartId": id.String()})
	resp := httptest.NewRecorder()

	CartApplyPromotion(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "already applied") {
		t.Fatalf("expected conflict message, got %s", resp.Body.String())
	}
	if svc.lastPromotion.DiscountType != "percentage" || svc.lastPromotion.DiscountAmount == nil {
		t.Fatalf("unexpected promotion input %+v", svc.lastPromotion)
	}
}

func TestCartRemovePromotionUsesPathParam(t *testing.T) {
	cart := sampleCart()
	svc := &stubCartService{cart: cart}
	req := withParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"cartId": cart.ID.String(), "promotionId": "promo-10"})
	resp := httptest.NewRecorder()

	CartRemovePromotion(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastPromotionID != "promo-10" {
		t.Fatalf("unexpected promotion id %q", svc.lastPromotionID)
	}
}

func TestCartUpdateShipping(t *testing.T) {
	cart := sampleCart()
	svc := &stubCartService{cart: cart}
	body := `{"shippingEstimation":{"country":"US","postalCode":"94107","shippingMethod":"express"}}`
	req := withParams(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)), map[string]string{"cartId": cart.ID.String()})
	resp := httptest.NewRecorder()

	CartUpdateShipping(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastShipping == nil || svc.lastShipping.Country != "US" || *svc.lastShipping.ShippingMethod != "express" {
		t.Fatalf("unexpected shipping input %+v", svc.lastShipping)
	}
}

func TestCartUpdateShippingMissingEstimation(t *testing.T) {
	cart := sampleCart()
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "shippingEstimation is required")}
	req := withParams(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{}`)), map[string]string{"cartId": cart.ID.String()})
	resp := httptest.NewRecorder()

	CartUpdateShipping(svc, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastShipping != nil {
		t.Fatalf("expected nil shipping input, got %+v", svc.lastShipping)
	}
}

func TestCartCommandsWithoutBody(t *testing.T) {
	cart := sampleCart()
	params := map[string]string{"cartId": cart.ID.String()}
	handlers := map[string]func(*stubCartService) http.HandlerFunc{
		"reprice": func(s *stubCartService) http.HandlerFunc { return CartReprice(s, nil) },
		"save":    func(s *stubCartService) http.HandlerFunc { return CartSave(s, nil) },
		"delete":  func(s *stubCartService) http.HandlerFunc { return CartDelete(s, nil) },
	}
	for op, build := range handlers {
		svc := &stubCartService{cart: cart}
		resp := httptest.NewRecorder()
		build(svc).ServeHTTP(resp, withParams(httptest.NewRequest(http.MethodPost, "/", nil), params))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", op, resp.Code)
		}
		if len(svc.calls) != 1 || svc.calls[0] != op {
			t.Fatalf("%s: unexpected calls %v", op, svc.calls)
		}
	}
}

func TestCartHandlersWithoutService(t *testing.T) {
	resp := httptest.NewRecorder()
	CartList(nil, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/carts", nil))
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
