package gatewaytest

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"strings"
	"testing"
	"wxpay/entity"
	"wxpay/signature"
)

const testKey = "192006250b4c09247ec02edce69f6a2d"

func post(t *testing.T, url, body string) (int, entity.Params) {
	t.Helper()
	response, err := http.Post(url, "text/xml", strings.NewReader(body))
	require.NoError(t, err)
	defer response.Body.Close()
	data, err := io.ReadAll(response.Body)
	require.NoError(t, err)
	if response.StatusCode != http.StatusOK {
		return response.StatusCode, nil
	}
	params, err := signature.FromXML(string(data))
	require.NoError(t, err)
	return response.StatusCode, params
}

func signedOrder(t *testing.T) string {
	params := entity.Params{
		"appid":        "wxd930ea5d5a258f4f",
		"mch_id":       "10000100",
		"out_trade_no": "1217752501201407033233368018",
		"trade_type":   "NATIVE",
		"nonce_str":    "ibuaiVcKdpRxkhJA",
	}
	require.NoError(t, signature.NewSigner(testKey, entity.SignMD5).SignParams(params, signature.SignField))
	return signature.ToXML(params)
}

func TestServer_UnifiedOrder(t *testing.T) {
	server := NewServer(testKey, entity.SignMD5)
	defer server.Close()

	status, params := post(t, server.URL+"/pay/unifiedorder", signedOrder(t))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SUCCESS", params["return_code"])
	assert.Equal(t, "wx1217752501201407033233368018", params["prepay_id"])
	assert.Equal(t, "weixin://wxpay/bizpayurl?pr=wx1217752501201407033233368018", params["code_url"])
	assert.True(t, signature.Verify(params, testKey, entity.SignMD5))

	request, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "unifiedorder", request.Endpoint)
	assert.Equal(t, "text/xml", request.ContentType)
	assert.True(t, request.SignValid)
}

func TestServer_RejectsBadSignature(t *testing.T) {
	server := NewServer("another-key", entity.SignMD5)
	defer server.Close()

	_, params := post(t, server.URL+"/pay/unifiedorder", signedOrder(t))
	assert.Equal(t, "FAIL", params["return_code"])
	assert.Equal(t, "sign error", params["return_msg"])
	assert.False(t, server.Requests()[0].SignValid)
}

func TestServer_InvalidXML(t *testing.T) {
	server := NewServer(testKey, entity.SignMD5)
	defer server.Close()

	_, params := post(t, server.URL+"/pay/orderquery", "{not xml")
	assert.Equal(t, "invalid xml", params["return_msg"])
}

func TestServer_FixedReplyAndFields(t *testing.T) {
	server := NewServer(testKey, entity.SignMD5)
	defer server.Close()

	server.SetReply("closeorder", http.StatusServiceUnavailable, "busy")
	status, _ := post(t, server.URL+"/pay/closeorder", signedOrder(t))
	assert.Equal(t, http.StatusServiceUnavailable, status)

	server.SetFields("unifiedorder", entity.Params{"prepay_id": "", "err_code": "ORDERPAID"})
	_, params := post(t, server.URL+"/pay/unifiedorder", signedOrder(t))
	_, hasPrepay := params["prepay_id"]
	assert.False(t, hasPrepay)
	assert.Equal(t, "ORDERPAID", params["err_code"])
	assert.Len(t, server.Requests(), 2)
}

func TestServer_UnknownRoute(t *testing.T) {
	server := NewServer(testKey, entity.SignMD5)
	defer server.Close()

	status, _ := post(t, server.URL+"/secapi/pay/refund", signedOrder(t))
	assert.Equal(t, http.StatusNotFound, status)
	_, ok := server.LastRequest()
	assert.False(t, ok)
}
