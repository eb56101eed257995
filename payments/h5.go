package payments

import (
	"context"
	"wxpay/entity"
)

// H5Payments serves checkouts in mobile browsers outside the messenger.
type H5Payments struct {
	*Payments
}

func NewH5Payments(p *Payments) *H5Payments {
	return &H5Payments{Payments: p}
}

// GetMwebURL creates an order and returns the redirect URL, empty when the
// gateway sent none.
func (h *H5Payments) GetMwebURL(ctx context.Context, params entity.Params) (string, error) {
	response, err := h.GetData(ctx, params)
	if err != nil {
		return "", err
	}
	if response.Failed() {
		return "", response.Err
	}
	return response.Get("mweb_url"), nil
}

// GetData returns the raw order creation reply.
func (h *H5Payments) GetData(ctx context.Context, params entity.Params) (*entity.Response, error) {
	return h.CreateOrder(ctx, params)
}
