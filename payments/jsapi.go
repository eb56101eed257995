package payments

import (
	"context"
	"fmt"
	"wxpay/entity"
	"wxpay/signature"
)

// JsApiPayments serves in-page checkouts started from the browser bridge.
type JsApiPayments struct {
	*Payments
}

func NewJsApiPayments(p *Payments) *JsApiPayments {
	return &JsApiPayments{Payments: p}
}

// GetParameters creates an order and returns the signed arguments of the
// page's payment call; render them with Params.JSON.
func (j *JsApiPayments) GetParameters(ctx context.Context, params entity.Params) (entity.Params, error) {
	if err := j.checkBridgeSignType(); err != nil {
		return nil, err
	}
	prepayID, err := j.requirePrepayID(ctx, params)
	if err != nil {
		return nil, err
	}
	return j.payParameters(prepayID)
}

// payParameters builds the appId/timeStamp/nonceStr/package/signType set
// signed into paySign, shared by browser and mini-program checkouts.
func (p *Payments) payParameters(prepayID string) (entity.Params, error) {
	parameters := entity.Params{
		"appId":     p.appId,
		"timeStamp": p.timestamp(),
		"nonceStr":  p.nonceString(),
		"package":   "prepay_id=" + prepayID,
		"signType":  p.signer.SignType().String(),
	}
	if err := p.signer.SignParams(parameters, "paySign"); err != nil {
		return nil, err
	}
	return parameters, nil
}

// checkBridgeSignType rejects sign types the payment bridge does not accept.
// It runs before the order is created.
func (p *Payments) checkBridgeSignType() error {
	switch signType := p.signer.SignType(); signType {
	case entity.SignMD5, entity.SignHMACSHA256:
		return nil
	default:
		return fmt.Errorf("%w: payment bridge accepts MD5 or HMAC-SHA256, not %s",
			signature.ErrUnsupportedSignType, signType)
	}
}
