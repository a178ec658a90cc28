package mtg

type AppConfiguration struct {
	ClientId   string `toml:"client-id"`
	SessionId  string `toml:"session-id"`
	PrivateKey string `toml:"private-key"`
	PinToken   string `toml:"pin-token"`
	PIN        string `toml:"pin"`
}

type GenesisConfiguration struct {
	Members   []string `toml:"members"`
	Threshold int      `toml:"threshold"`
}

type Configuration struct {
	App     AppConfiguration     `toml:"app"`
	Genesis GenesisConfiguration `toml:"genesis"`
}
