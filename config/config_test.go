package config

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

const testYaml = `
is_debug: true
merchant:
  app_id: wxd930ea5d5a258f4f
  mch_id: "10000100"
  key: 192006250b4c09247ec02edce69f6a2d
http:
  timeout: 5s
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadConfig(t *testing.T) {
	conf, err := ReadConfig(writeConfig(t, testYaml))
	require.NoError(t, err)

	assert.True(t, conf.IsDebug)
	assert.Equal(t, "wxd930ea5d5a258f4f", conf.Merchant.AppId)
	assert.Equal(t, "10000100", conf.Merchant.MchId)
	assert.Equal(t, "MD5", conf.Merchant.SignType)
	assert.Equal(t, "https://api.mch.weixin.qq.com", conf.Gateway.BaseUrl)
	assert.Equal(t, 5*time.Second, conf.Http.Timeout)
	assert.False(t, conf.Http.SuppressErrors)
	assert.False(t, conf.Mongo.Enabled)
}

func TestReadConfig_EnvOverride(t *testing.T) {
	t.Setenv("MERCHANT_SIGN_TYPE", "HMAC-SHA256")
	t.Setenv("HTTP_SUPPRESS_ERRORS", "true")
	t.Setenv("GATEWAY_BASE_URL", "http://127.0.0.1:8080")

	conf, err := ReadConfig(writeConfig(t, testYaml))
	require.NoError(t, err)
	assert.Equal(t, "HMAC-SHA256", conf.Merchant.SignType)
	assert.True(t, conf.Http.SuppressErrors)
	assert.Equal(t, "http://127.0.0.1:8080", conf.Gateway.BaseUrl)
}

func TestReadConfig_Errors(t *testing.T) {
	_, err := ReadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "load config")

	_, err = ReadConfig(writeConfig(t, "merchant:\n  app_id: wx1\n"))
	assert.ErrorContains(t, err, "mch_id")
}

func TestValidate(t *testing.T) {
	conf := Default()
	assert.ErrorContains(t, conf.Validate(), "app_id")

	conf.Merchant.AppId = "wx1"
	conf.Merchant.MchId = "1"
	conf.Merchant.Key = "k"
	require.NoError(t, conf.Validate())

	conf.Merchant.SignType = "RSA"
	assert.ErrorContains(t, conf.Validate(), "unsupported sign type")

	conf.Merchant.SignType = "SHA256"
	conf.Merchant.CertFile = "apiclient_cert.pem"
	assert.ErrorContains(t, conf.Validate(), "key_file")

	conf.Merchant.KeyFile = "apiclient_key.pem"
	assert.NoError(t, conf.Validate())
}

func resetConfig() {
	once = sync.Once{}
	instance = nil
	loadErr = nil
}

func TestGetConfig_Once(t *testing.T) {
	resetConfig()
	t.Cleanup(resetConfig)
	path := writeConfig(t, testYaml)
	first, err := GetConfig(path)
	require.NoError(t, err)
	second, err := GetConfig(filepath.Join(t.TempDir(), "other.yml"))
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGetConfig_FailureIsKept(t *testing.T) {
	resetConfig()
	t.Cleanup(resetConfig)
	missing := filepath.Join(t.TempDir(), "missing.yml")

	conf, err := GetConfig(missing)
	require.Error(t, err)
	assert.Nil(t, conf)

	conf, err = GetConfig(writeConfig(t, testYaml))
	require.Error(t, err)
	assert.Nil(t, conf)
}
