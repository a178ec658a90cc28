package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testConfig = `
[market]
admin = "a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0001"
listing-fee = "0.025"

[worker]
asset-id = "965e5c6e-434c-3fa9-b780-c50f43cd955c"

[logger]
level = 2

[mtg.app]
client-id = "a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0001"
session-id = "3f1b0e6a-0d2b-4a8e-9b7c-1d6f2a3c4e01"
private-key = "private"
pin-token = "token"
pin = "123456"

[mtg.genesis]
members = ["a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0001", "a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0002"]
threshold = 2
`

func TestSetup(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.Nil(os.WriteFile(path, []byte(testConfig), 0600))
	conf, err := Setup(path)
	require.Nil(err)
	require.Equal("0.025", conf.Market.ListingFee)
	require.Equal("965e5c6e-434c-3fa9-b780-c50f43cd955c", conf.Worker.AssetId)
	require.Equal(2, conf.Logger.Level)
	require.Equal("123456", conf.MTG.App.PIN)
	require.Len(conf.MTG.Genesis.Members, 2)
	require.Equal(2, conf.MTG.Genesis.Threshold)

	_, err = Setup(filepath.Join(t.TempDir(), "missing.toml"))
	require.NotNil(err)
}

func TestParseConfigurationInvalid(t *testing.T) {
	require := require.New(t)

	_, err := parseConfiguration([]byte("[market]\nadmin = \"nobody\"\nlisting-fee = \"1\"\n[worker]\nasset-id = \"965e5c6e-434c-3fa9-b780-c50f43cd955c\"\n"))
	require.NotNil(err)
	_, err = parseConfiguration([]byte("[market]\nadmin = \"a87b1a3e-8a5e-4b0e-9a57-6f8a6c1b0001\"\nlisting-fee = \"1\"\n"))
	require.NotNil(err)
	_, err = parseConfiguration([]byte("[market\n"))
	require.NotNil(err)
}
