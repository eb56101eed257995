package internal

import "wxpay/config"

func testConfig() *config.Config {
	conf := config.Default()
	conf.Merchant.AppId = "wxd930ea5d5a258f4f"
	conf.Merchant.MchId = "10000100"
	conf.Merchant.Key = "192006250b4c09247ec02edce69f6a2d"
	return conf
}
