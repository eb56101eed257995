package entity

import "fmt"

// SignType selects the digest used for request signatures.
type SignType string

const (
	SignMD5        SignType = "MD5"
	SignSHA256     SignType = "SHA256"
	SignHMACSHA256 SignType = "HMAC-SHA256"
)

// ParseSignType maps a configured name to a SignType; empty means MD5.
func ParseSignType(name string) (SignType, error) {
	switch SignType(name) {
	case "", SignMD5:
		return SignMD5, nil
	case SignSHA256, SignHMACSHA256:
		return SignType(name), nil
	}
	return "", fmt.Errorf("unsupported sign type %q", name)
}

func (s SignType) String() string {
	return string(s)
}
