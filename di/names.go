package di

// KeyNames lists the well-known provider keys.
type KeyNames struct {
	// APIDomain holds the domain resolver shared by every backend caller.
	APIDomain string
	HTTP      string
	API       string
	Config    string
	Logger    string
}

// Keys contains the well-known provider keys.
var Keys = KeyNames{
	APIDomain: "api-domain",
	HTTP:      "http",
	API:       "api",
	Config:    "config",
	Logger:    "logger",
}
