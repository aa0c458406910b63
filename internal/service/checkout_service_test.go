package service

import (
	"context"
	"testing"

	"github.com/cloud-wave-best-zizon/battery-store/internal/cart"
	"github.com/cloud-wave-best-zizon/battery-store/internal/clock"
	"github.com/cloud-wave-best-zizon/battery-store/internal/domain"
	"github.com/cloud-wave-best-zizon/battery-store/internal/events"
	"github.com/cloud-wave-best-zizon/battery-store/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type checkoutFixture struct {
	checkout *CheckoutService
	carts    *CartService
	content  *ContentService
	pub      *recordingPublisher
	cash     domain.PaymentMethod
}

func newCheckoutFixture(t *testing.T) checkoutFixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)
	clk := clock.NewFake(testNow)
	store := repository.NewMemoryCartStore()
	pub := &recordingPublisher{}

	content := newContentService(db, clk)
	cash, err := content.CreatePaymentMethod(ctx, domain.PaymentMethodInput{Name: ptr("Cash")})
	require.NoError(t, err)
	_, err = content.CreatePaymentMethod(ctx, domain.PaymentMethodInput{Name: ptr("Retired"), Active: ptr(false)})
	require.NoError(t, err)

	lookup := productLookup{
		"a": battery("a", "Alpha", "100", testNow),
		"b": battery("b", "Beta", "150", testNow),
	}
	return checkoutFixture{
		checkout: NewCheckoutService(store, repository.NewStore[domain.Order](db), content, pub, cart.DefaultTaxRate, clk, nil, "instance-a", zap.NewNop()),
		carts:    NewCartService(store, lookup, cart.DefaultTaxRate, clk, nil, zap.NewNop()),
		content:  content,
		pub:      pub,
		cash:     cash,
	}
}

func validCheckout(paymentMethod string) domain.CheckoutRequest {
	return domain.CheckoutRequest{
		CustomerName:    "Juan dela Cruz",
		ContactNumber:   "09171234567",
		ServiceType:     domain.FulfillmentPickup,
		PaymentMethod:   paymentMethod,
		ReferenceNumber: "REF-001",
	}
}

func TestCheckoutService_PlacesOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, "cart-1", "a", 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, "cart-1", "b", 1)
	require.NoError(t, err)

	order, err := f.checkout.Checkout(ctx, "cart-1", validCheckout(f.cash.ID))
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "cart-1", order.CartID)
	require.Len(t, order.Lines, 2)
	assert.Equal(t, "a", order.Lines[0].ProductID)
	assert.Equal(t, 2, order.Lines[0].Quantity)
	assert.Equal(t, "350.00", order.Subtotal.StringFixed(2))
	assert.Equal(t, "28.00", order.Tax.StringFixed(2))
	assert.Equal(t, "378.00", order.Total.StringFixed(2))
	assert.Equal(t, "REF-001", order.ReferenceNumber)

	view, err := f.carts.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.True(t, view.IsEmpty())

	orders, err := f.checkout.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)
	assert.Len(t, orders[0].Lines, 2)

	assert.Equal(t, []string{events.TypeOrderPlaced}, f.pub.types())
}

func TestCheckoutService_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.Checkout(context.Background(), "cart-1", validCheckout(f.cash.ID))

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, f.pub.events)
}

func TestCheckoutService_Validation(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, "cart-1", "a", 1)
	require.NoError(t, err)
	methods, err := f.content.PaymentMethods(ctx, false)
	require.NoError(t, err)
	var retired string
	for _, m := range methods {
		if !m.Active {
			retired = m.ID
		}
	}

	tests := []struct {
		name   string
		modify func(*domain.CheckoutRequest)
		field  string
	}{
		{"missing name", func(r *domain.CheckoutRequest) { r.CustomerName = "" }, "customer_name"},
		{"missing contact", func(r *domain.CheckoutRequest) { r.ContactNumber = " " }, "contact_number"},
		{"unknown service type", func(r *domain.CheckoutRequest) { r.ServiceType = "drone" }, "service_type"},
		{"delivery without address", func(r *domain.CheckoutRequest) {
			r.ServiceType = domain.FulfillmentDelivery
			r.DeliveryArea = "cdo"
		}, "address"},
		{"delivery outside areas", func(r *domain.CheckoutRequest) {
			r.ServiceType = domain.FulfillmentDelivery
			r.Address = "Somewhere"
			r.DeliveryArea = "manila"
		}, "delivery_area"},
		{"installation without date", func(r *domain.CheckoutRequest) {
			r.ServiceType = domain.FulfillmentInstallation
		}, "installation_date"},
		{"missing payment method", func(r *domain.CheckoutRequest) { r.PaymentMethod = "" }, "payment_method"},
		{"inactive payment method", func(r *domain.CheckoutRequest) { r.PaymentMethod = retired }, "payment_method"},
		{"unknown payment method", func(r *domain.CheckoutRequest) { r.PaymentMethod = "bitcoin" }, "payment_method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCheckout(f.cash.ID)
			tt.modify(&req)

			_, err := f.checkout.Checkout(ctx, "cart-1", req)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	view, err := f.carts.Get(ctx, "cart-1")
	require.NoError(t, err)
	assert.Len(t, view.Lines, 1)
}

func TestCheckoutService_DeliveryToKnownArea(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	_, err := f.carts.AddItem(ctx, "cart-1", "a", 1)
	require.NoError(t, err)

	req := validCheckout(f.cash.ID)
	req.ServiceType = domain.FulfillmentDelivery
	req.Address = "Corrales Ave"
	req.DeliveryArea = "CDO"

	order, err := f.checkout.Checkout(ctx, "cart-1", req)
	require.NoError(t, err)
	assert.Equal(t, "cdo", order.DeliveryArea)
}
