package config

// applies command-line overrides on top of the loaded configuration
func (c *Config) ApplyFlags(f Flags) error {
	if f.Endpoint != "" {
		c.APIEndpoint = f.Endpoint
	}

	if f.Profile != "" {
		c.Profile = f.Profile
	}

	if f.Ephemeral {
		c.TokenStore = StoreMemory
	}

	return c.Validate()
}

// reports whether logs should be JSON
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
