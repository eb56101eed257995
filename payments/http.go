package payments

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"wxpay/entity"
	"wxpay/internal"
	"wxpay/signature"
)

const (
	statusOk             = "ok"
	statusTransportError = "transport_error"
	statusMalformed      = "malformed"
)

// send signs payload and performs the single POST of a call.
func (p *Payments) send(ctx context.Context, endpoint Endpoint, payload entity.Params) (*entity.Response, error) {
	ctx = internal.WithRequestID(ctx)
	reqID := internal.GetRequestID(ctx)

	client := p.httpClient
	if endpoint.RequireCert {
		if p.tlsClient == nil {
			return nil, fmt.Errorf("%s: %w", endpoint.Name, ErrCertificateRequired)
		}
		client = p.tlsClient
	}

	if err := p.signer.SignParams(payload, signature.SignField); err != nil {
		return nil, err
	}
	body := signature.ToXML(payload)

	p.logger.Info(fmt.Sprintf("[%s] %s: order %s", reqID, endpoint.Name, secret(payload.Get("out_trade_no"))))
	p.logger.Debug(fmt.Sprintf("[%s] request body: %s", reqID, body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseUrl+endpoint.Path, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	response, err := client.Do(req)
	if err != nil {
		p.metrics.Observe(endpoint.Name, statusTransportError, time.Since(start).Seconds())
		return p.transportFailure(reqID, endpoint, 0, nil, fmt.Errorf("%w: post request: %w", ErrTransport, err))
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			p.logger.Error("close response body", err)
		}
	}(response.Body)

	data, err := io.ReadAll(response.Body)
	if err != nil {
		p.metrics.Observe(endpoint.Name, statusTransportError, time.Since(start).Seconds())
		return p.transportFailure(reqID, endpoint, response.StatusCode, data, fmt.Errorf("%w: read response body: %w", ErrTransport, err))
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		p.metrics.Observe(endpoint.Name, statusTransportError, time.Since(start).Seconds())
		return p.transportFailure(reqID, endpoint, response.StatusCode, data, fmt.Errorf("%w: http error %d", ErrTransport, response.StatusCode))
	}
	p.logger.Debug(fmt.Sprintf("[%s] response body: %s", reqID, string(data)))

	params, err := signature.FromXML(string(data))
	if err != nil {
		p.metrics.Observe(endpoint.Name, statusMalformed, time.Since(start).Seconds())
		p.logger.Warn(fmt.Sprintf("[%s] unrecognized response: %s", reqID, string(data)))
		return nil, fmt.Errorf("%s response: %w", endpoint.Name, err)
	}
	p.metrics.Observe(endpoint.Name, statusOk, time.Since(start).Seconds())

	p.logger.Info(fmt.Sprintf("[%s] %s: return_code %s; result_code %s", reqID, endpoint.Name, params.Get("return_code"), params.Get("result_code")))
	return &entity.Response{
		Endpoint:   endpoint.Name,
		StatusCode: response.StatusCode,
		Params:     params,
		Body:       data,
	}, nil
}

// transportFailure either raises err or, with errors suppressed, wraps it in
// a failed Response carrying the raw body.
func (p *Payments) transportFailure(reqID string, endpoint Endpoint, status int, body []byte, err error) (*entity.Response, error) {
	p.logger.Error(fmt.Sprintf("[%s] %s", reqID, endpoint.Name), err)
	if !p.suppressErrors {
		return nil, fmt.Errorf("%s: %w", endpoint.Name, err)
	}
	return &entity.Response{
		Endpoint:   endpoint.Name,
		StatusCode: status,
		Body:       body,
		Err:        err,
	}, nil
}
