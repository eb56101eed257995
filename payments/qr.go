package payments

import (
	"context"
	"wxpay/entity"
)

// QRPayments serves checkouts paid by scanning a code.
type QRPayments struct {
	*Payments
}

func NewQRPayments(p *Payments) *QRPayments {
	return &QRPayments{Payments: p}
}

// GetCodeURL creates an order and returns the code_url to render as a QR
// code, empty when the gateway sent none.
func (q *QRPayments) GetCodeURL(ctx context.Context, params entity.Params) (string, error) {
	response, err := q.CreateOrder(ctx, params)
	if err != nil {
		return "", err
	}
	if response.Failed() {
		return "", response.Err
	}
	return response.Get("code_url"), nil
}
