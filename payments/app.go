package payments

import (
	"context"
	"wxpay/entity"
)

const appPackage = "Sign=WXPay"

// AppPayments serves native app checkouts.
type AppPayments struct {
	*Payments
}

func NewAppPayments(p *Payments) *AppPayments {
	return &AppPayments{Payments: p}
}

// GetTicket creates an order and returns the signed payload the app SDK
// expects. When any field came out empty, e.g. the gateway issued no
// prepay id, the ticket is an empty Params.
func (a *AppPayments) GetTicket(ctx context.Context, params entity.Params) (entity.Params, error) {
	prepayID, err := a.GetPrepayID(ctx, params)
	if err != nil {
		return nil, err
	}

	ticket := entity.Params{
		"appid":     a.appId,
		"partnerid": a.mchId,
		"prepayid":  prepayID,
		"package":   appPackage,
		"noncestr":  a.nonceString(),
		"timestamp": a.timestamp(),
	}
	if err = a.signer.SignParams(ticket, "sign"); err != nil {
		return nil, err
	}
	for _, value := range ticket {
		if value == "" {
			return entity.Params{}, nil
		}
	}
	return ticket, nil
}
