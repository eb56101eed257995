package payments

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"github.com/stretchr/testify/require"
	"math/big"
	mathrand "math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"
	"wxpay/config"
	"wxpay/entity"
	"wxpay/gatewaytest"
)

const (
	testAppId = "wxd930ea5d5a258f4f"
	testMchId = "10000100"
	testKey   = "192006250b4c09247ec02edce69f6a2d"
)

var testNow = time.Unix(1414561699, 0)

type nopLogger struct{}

func (nopLogger) Debug(string)        {}
func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(string, error) {}

func testConfig(baseUrl string) *config.Config {
	conf := config.Default()
	conf.Merchant.AppId = testAppId
	conf.Merchant.MchId = testMchId
	conf.Merchant.Key = testKey
	conf.Gateway.BaseUrl = baseUrl
	conf.Http.Timeout = 5 * time.Second
	return conf
}

func newGateway(t *testing.T) *gatewaytest.Server {
	return gatewaytestServer(t, entity.SignMD5)
}

func gatewaytestServer(t *testing.T, signType entity.SignType) *gatewaytest.Server {
	gateway := gatewaytest.NewServer(testKey, signType)
	t.Cleanup(gateway.Close)
	return gateway
}

func newTestPayments(t *testing.T, conf *config.Config) *Payments {
	t.Helper()
	p, err := NewPayments(conf)
	require.NoError(t, err)
	p.SetLogger(nopLogger{})
	p.SetNonceSource(mathrand.New(mathrand.NewSource(1)))
	p.SetClock(func() time.Time { return testNow })
	return p
}

func orderParams(tradeType string) entity.Params {
	params := entity.NewParams(map[string]any{
		"out_trade_no": "1217752501201407033233368018",
		"body":         "Tencent-game",
		"total_fee":    888,
		"notify_url":   "https://example.com/wxpay/notify",
		"trade_type":   tradeType,
	})
	switch tradeType {
	case "JSAPI":
		params["openid"] = "oUpF8uMuAJO_M2pxb1Q9zNjWeS6o"
	case "NATIVE":
		params["product_id"] = "12235413214070356458058"
	}
	return params
}

// writeCertificate stores a self-signed client certificate and its key in a temp dir.
func writeCertificate(t *testing.T) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: testMchId},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	keyDer, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile := filepath.Join(dir, "apiclient_cert.pem")
	keyFile := filepath.Join(dir, "apiclient_key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDer}), 0o600))
	return certFile, keyFile
}
