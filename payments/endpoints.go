package payments

const (
	defaultBaseUrl  = "https://api.mch.weixin.qq.com"
	contentType     = "text/xml"
	defaultClientIp = "127.0.0.1"
)

// Endpoint is a gateway API path. RequireCert endpoints are called over
// mutual TLS with the merchant certificate.
type Endpoint struct {
	Name        string
	Path        string
	RequireCert bool
}

var (
	EndpointUnifiedOrder = Endpoint{Name: "unifiedorder", Path: "/pay/unifiedorder"}
	EndpointOrderQuery   = Endpoint{Name: "orderquery", Path: "/pay/orderquery"}
	EndpointCloseOrder   = Endpoint{Name: "closeorder", Path: "/pay/closeorder"}
)
