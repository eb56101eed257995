// Package gatewaytest runs an in-process imitation of the payment gateway
// for tests. It verifies request signatures, records every request and
// answers with signed XML replies shaped like the real ones.
package gatewaytest

import (
	"fmt"
	"github.com/julienschmidt/httprouter"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"wxpay/entity"
	"wxpay/signature"
)

const endpointPath = "/pay/:endpoint"

// Request is a call received by the gateway.
type Request struct {
	Endpoint    string
	ContentType string
	Body        string
	Params      entity.Params
	SignValid   bool
}

type reply struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server
	signer   *signature.Signer
	mutex    sync.Mutex
	requests []Request
	replies  map[string]reply
	fields   map[string]entity.Params
}

// NewServer starts a gateway that signs and verifies with key.
func NewServer(key string, signType entity.SignType) *Server {
	s := &Server{
		signer:  signature.NewSigner(key, signType),
		replies: make(map[string]reply),
		fields:  make(map[string]entity.Params),
	}
	router := httprouter.New()
	s.Register(router)
	s.Server = httptest.NewServer(router)
	return s
}

func (s *Server) Register(router *httprouter.Router) {
	router.POST(endpointPath, s.handle)
}

// SetReply makes endpoint answer with a fixed status and raw body.
func (s *Server) SetReply(endpoint string, status int, body string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.replies[endpoint] = reply{status: status, body: body}
}

// SetFields merges fields into the generated replies of endpoint, an empty
// value removes the field.
func (s *Server) SetFields(endpoint string, fields entity.Params) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.fields[endpoint] = fields
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	requests := make([]Request, len(s.requests))
	copy(requests, s.requests)
	return requests
}

func (s *Server) LastRequest() (Request, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	endpoint := ps.ByName("endpoint")
	data, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	request := Request{
		Endpoint:    endpoint,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(data),
	}
	params, parseErr := signature.FromXML(string(data))
	if parseErr == nil {
		request.Params = params
		request.SignValid = s.signer.Verify(params)
	}

	s.mutex.Lock()
	s.requests = append(s.requests, request)
	fixed, hasFixed := s.replies[endpoint]
	extra := s.fields[endpoint]
	s.mutex.Unlock()

	if hasFixed {
		w.WriteHeader(fixed.status)
		_, _ = w.Write([]byte(fixed.body))
		return
	}

	var response entity.Params
	switch {
	case parseErr != nil:
		response = failure("invalid xml")
	case !request.SignValid:
		response = failure("sign error")
	default:
		response = s.success(endpoint, params)
	}
	for k, v := range extra {
		if v == "" {
			delete(response, k)
		} else {
			response[k] = v
		}
	}
	if err = s.signer.SignParams(response, signature.SignField); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(signature.ToXML(response)))
}

func (s *Server) success(endpoint string, params entity.Params) entity.Params {
	response := entity.Params{
		"return_code": "SUCCESS",
		"return_msg":  "OK",
		"appid":       params.Get("appid"),
		"mch_id":      params.Get("mch_id"),
		"nonce_str":   signature.RandomString(signature.DefaultSource, signature.NonceLength),
		"result_code": "SUCCESS",
	}
	orderNo := params.Get("out_trade_no")
	switch endpoint {
	case "unifiedorder":
		prepayID := fmt.Sprintf("wx%s", orderNo)
		response["prepay_id"] = prepayID
		response["trade_type"] = params.Get("trade_type")
		switch params.Get("trade_type") {
		case "NATIVE":
			response["code_url"] = "weixin://wxpay/bizpayurl?pr=" + prepayID
		case "MWEB":
			response["mweb_url"] = "https://wx.tenpay.com/cgi-bin/mmpayweb-bin/checkmweb?prepay_id=" + prepayID
		}
	case "orderquery":
		response["out_trade_no"] = orderNo
		response["transaction_id"] = params.Get("transaction_id")
		if orderNo == "" {
			response["out_trade_no"] = "order-of-" + params.Get("transaction_id")
		}
		response["trade_state"] = "NOTPAY"
	case "closeorder":
	default:
		return failure("unknown endpoint " + endpoint)
	}
	return response
}

func failure(message string) entity.Params {
	return entity.Params{
		"return_code": "FAIL",
		"return_msg":  message,
	}
}
