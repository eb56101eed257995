// Package signature implements request signing and the XML wire format of the gateway.
package signature

import (
	"errors"
	"fmt"
	"gitee.com/golang-module/dongle"
	"strings"
	"wxpay/entity"
)

// SignField is the parameter that carries the signature; it is never signed itself.
const SignField = "sign"

var ErrUnsupportedSignType = errors.New("unsupported sign type")

// Sign computes the uppercase hex signature of params with the merchant key.
// The signed string is QueryString(params) + "&key=" + key, with the sign field left out.
func Sign(params entity.Params, key string, signType entity.SignType) (string, error) {
	unsigned := params
	if _, ok := params[SignField]; ok {
		unsigned = params.Clone()
		delete(unsigned, SignField)
	}
	raw := fmt.Sprintf("%s&key=%s", QueryString(unsigned, false), key)

	var digest string
	switch signType {
	case entity.SignMD5, "":
		digest = dongle.Encrypt.FromString(raw).ByMd5().ToHexString()
	case entity.SignSHA256:
		digest = dongle.Encrypt.FromString(raw).BySha256().ToHexString()
	case entity.SignHMACSHA256:
		digest = dongle.Encrypt.FromString(raw).ByHmacSha256(key).ToHexString()
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedSignType, signType)
	}
	return strings.ToUpper(digest), nil
}

// Verify recomputes the signature of params and compares it with the sign field.
func Verify(params entity.Params, key string, signType entity.SignType) bool {
	given := params.Get(SignField)
	if given == "" {
		return false
	}
	expected, err := Sign(params, key, signType)
	if err != nil {
		return false
	}
	return strings.EqualFold(given, expected)
}

// Signer binds a merchant key to a sign type.
type Signer struct {
	key      string
	signType entity.SignType
}

func NewSigner(key string, signType entity.SignType) *Signer {
	if signType == "" {
		signType = entity.SignMD5
	}
	return &Signer{
		key:      key,
		signType: signType,
	}
}

func (s *Signer) SignType() entity.SignType {
	return s.signType
}

func (s *Signer) CreateSignature(params entity.Params) (string, error) {
	return Sign(params, s.key, s.signType)
}

// SignParams stores the signature of params under field.
func (s *Signer) SignParams(params entity.Params, field string) error {
	sign, err := s.CreateSignature(params)
	if err != nil {
		return fmt.Errorf("create signature: %w", err)
	}
	params[field] = sign
	return nil
}

func (s *Signer) Verify(params entity.Params) bool {
	return Verify(params, s.key, s.signType)
}
