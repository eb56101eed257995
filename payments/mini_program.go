package payments

import (
	"context"
	"wxpay/entity"
)

// MiniProgramPayments serves checkouts inside mini programs.
type MiniProgramPayments struct {
	*Payments
}

func NewMiniProgramPayments(p *Payments) *MiniProgramPayments {
	return &MiniProgramPayments{Payments: p}
}

// GetPayData creates an order and returns the arguments of the mini program
// payment call. appId takes part in the signature but is not sent.
func (m *MiniProgramPayments) GetPayData(ctx context.Context, params entity.Params) (entity.Params, error) {
	if err := m.checkBridgeSignType(); err != nil {
		return nil, err
	}
	prepayID, err := m.requirePrepayID(ctx, params)
	if err != nil {
		return nil, err
	}
	parameters, err := m.payParameters(prepayID)
	if err != nil {
		return nil, err
	}
	delete(parameters, "appId")
	return parameters, nil
}
