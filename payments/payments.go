// Package payments is the client of the payment gateway API: it validates
// and signs parameter sets, posts them as XML and decodes the XML replies.
package payments

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"github.com/prometheus/client_golang/prometheus"
	"net/http"
	"os"
	"strings"
	"time"
	"wxpay/config"
	"wxpay/entity"
	"wxpay/internal"
	"wxpay/services"
	"wxpay/signature"
)

const (
	tradeTypeJsApi  = "JSAPI"
	tradeTypeNative = "NATIVE"
)

// Payments holds the merchant credentials and performs gateway calls.
// Every call is independent; a Payments value is safe for concurrent use
// once the setters are no longer called.
type Payments struct {
	appId          string
	mchId          string
	signer         *signature.Signer
	baseUrl        string
	suppressErrors bool
	httpClient     *http.Client
	tlsClient      *http.Client
	logger         services.LogHandler
	metrics        *internal.Metrics
	nonce          signature.Intn
	now            func() time.Time
}

var _ services.Payments = (*Payments)(nil)

// NewPayments creates a payment client from conf. The merchant app id,
// merchant id and key are required; a client certificate is loaded when
// CertFile and KeyFile are set.
func NewPayments(conf *config.Config) (*Payments, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	signType, err := entity.ParseSignType(conf.Merchant.SignType)
	if err != nil {
		return nil, err
	}

	timeout := conf.Http.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	baseUrl := strings.TrimRight(conf.Gateway.BaseUrl, "/")
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}

	rootCAs, err := loadRootCAs(conf.Gateway.CaFile)
	if err != nil {
		return nil, err
	}

	p := &Payments{
		appId:          conf.Merchant.AppId,
		mchId:          conf.Merchant.MchId,
		signer:         signature.NewSigner(conf.Merchant.Key, signType),
		baseUrl:        baseUrl,
		suppressErrors: conf.Http.SuppressErrors,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: newTransport(&tls.Config{
				RootCAs:    rootCAs,
				MinVersion: tls.VersionTLS12,
			}),
		},
		nonce: signature.DefaultSource,
		now:   time.Now,
	}

	if conf.Merchant.CertFile != "" {
		certificate, err := tls.LoadX509KeyPair(conf.Merchant.CertFile, conf.Merchant.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		p.tlsClient = &http.Client{
			Timeout: timeout,
			Transport: newTransport(&tls.Config{
				Certificates: []tls.Certificate{certificate},
				RootCAs:      rootCAs,
				MinVersion:   tls.VersionTLS12,
			}),
		}
	}

	var database services.Database
	mongo, err := internal.NewMongoClient(conf)
	if err != nil {
		return nil, fmt.Errorf("mongo client: %w", err)
	}
	if mongo != nil {
		database = mongo
	}
	p.logger = internal.NewLogger("payments", conf.IsDebug, database)

	if conf.Metrics.Enabled {
		if err = p.SetMetrics(prometheus.DefaultRegisterer); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}

	return p, nil
}

// loadRootCAs returns nil, meaning the system roots, when file is empty.
func loadRootCAs(file string) (*x509.CertPool, error) {
	if file == "" {
		return nil, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read ca file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("ca file %s: no certificates found", file)
	}
	return pool, nil
}

func newTransport(tlsConfig *tls.Config) *http.Transport {
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSClientConfig:     tlsConfig,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
}

// SetMetrics registers request metrics with registerer.
func (p *Payments) SetMetrics(registerer prometheus.Registerer) error {
	metrics := internal.NewMetrics()
	if err := metrics.Register(registerer); err != nil {
		return err
	}
	p.metrics = metrics
	return nil
}

// SetNonceSource replaces the random source of nonce strings.
func (p *Payments) SetNonceSource(src signature.Intn) {
	p.nonce = src
}

// SetClock replaces the time source of derived payload timestamps.
func (p *Payments) SetClock(now func() time.Time) {
	p.now = now
}

// SetHTTPClient replaces the client used for endpoints without mutual TLS.
func (p *Payments) SetHTTPClient(client *http.Client) {
	p.httpClient = client
}

func (p *Payments) HasCertificate() bool {
	return p.tlsClient != nil
}

// Close flushes the log database queue of the client's logger.
func (p *Payments) Close() {
	if closer, ok := p.logger.(interface{ Close() }); ok {
		closer.Close()
	}
}

// CreateOrder places a unified order.
// out_trade_no, body, total_fee, notify_url and trade_type are required;
// JSAPI orders also need openid and NATIVE orders need product_id.
// The gateway reply is returned as is, including business error codes.
func (p *Payments) CreateOrder(ctx context.Context, params entity.Params) (*entity.Response, error) {
	if err := requireFields(params, "out_trade_no", "body", "total_fee", "notify_url", "trade_type"); err != nil {
		return nil, err
	}
	switch params.Get("trade_type") {
	case tradeTypeJsApi:
		if !params.Has("openid") {
			return nil, &ParamError{Fields: []string{"openid"}, Reason: "trade_type JSAPI requires openid"}
		}
	case tradeTypeNative:
		if !params.Has("product_id") {
			return nil, &ParamError{Fields: []string{"product_id"}, Reason: "trade_type NATIVE requires product_id"}
		}
	}

	payload := p.newPayload(params)
	if !payload.Has("spbill_create_ip") {
		payload["spbill_create_ip"] = defaultClientIp
	}
	return p.send(ctx, EndpointUnifiedOrder, payload)
}

// QueryOrder looks an order up by out_trade_no or transaction_id.
func (p *Payments) QueryOrder(ctx context.Context, params entity.Params) (*entity.Response, error) {
	if !params.Has("out_trade_no") && !params.Has("transaction_id") {
		return nil, &ParamError{
			Fields: []string{"out_trade_no", "transaction_id"},
			Reason: "one of them is required",
		}
	}
	return p.send(ctx, EndpointOrderQuery, p.newPayload(params))
}

func (p *Payments) CloseOrder(ctx context.Context, params entity.Params) (*entity.Response, error) {
	if err := requireFields(params, "out_trade_no"); err != nil {
		return nil, err
	}
	return p.send(ctx, EndpointCloseOrder, p.newPayload(params))
}

// Do signs params and posts them to endpoint without any field validation.
func (p *Payments) Do(ctx context.Context, endpoint Endpoint, params entity.Params) (*entity.Response, error) {
	return p.send(ctx, endpoint, p.newPayload(params))
}

// GetPrepayID creates an order and returns its prepay_id. The value is empty
// when the gateway rejected the order; a suppressed transport failure is
// returned as an error because there is no reply to read it from.
func (p *Payments) GetPrepayID(ctx context.Context, params entity.Params) (string, error) {
	response, err := p.CreateOrder(ctx, params)
	if err != nil {
		return "", err
	}
	if response.Failed() {
		return "", response.Err
	}
	return response.Get("prepay_id"), nil
}

// BuildReply returns the XML acknowledgement of a gateway notification.
func (p *Payments) BuildReply(message string, ok bool) string {
	return BuildReply(message, ok)
}

func BuildReply(message string, ok bool) string {
	code := "SUCCESS"
	if !ok {
		code = "FAIL"
	}
	return signature.ToXML(entity.Params{
		"return_code": code,
		"return_msg":  message,
	})
}

// newPayload copies params and adds the merchant identity and a fresh nonce.
func (p *Payments) newPayload(params entity.Params) entity.Params {
	payload := params.Clone()
	payload["appid"] = p.appId
	payload["mch_id"] = p.mchId
	payload["nonce_str"] = p.nonceString()
	return payload
}

func (p *Payments) nonceString() string {
	return signature.RandomString(p.nonce, signature.NonceLength)
}

func (p *Payments) timestamp() string {
	return fmt.Sprintf("%d", p.now().Unix())
}

// requirePrepayID creates an order and fails when no prepay_id came back.
func (p *Payments) requirePrepayID(ctx context.Context, params entity.Params) (string, error) {
	response, err := p.CreateOrder(ctx, params)
	if err != nil {
		return "", err
	}
	if response.Failed() {
		return "", response.Err
	}
	prepayID := response.Get("prepay_id")
	if prepayID == "" {
		return "", fmt.Errorf("%w: return_code %s; err_code %s", ErrNoPrepayID,
			response.Get("return_code"), response.Get("err_code"))
	}
	return prepayID, nil
}

func requireFields(params entity.Params, keys ...string) error {
	var missing []string
	for _, key := range keys {
		if !params.Has(key) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &ParamError{Fields: missing}
	}
	return nil
}

func secret(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}
