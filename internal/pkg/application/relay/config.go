package relay

import (
	"io"

	yaml "gopkg.in/yaml.v2"
)

type AccountConfig struct {
	ID     string   `yaml:"id"`
	Events []string `yaml:"events"`
}

type Config struct {
	Accounts []AccountConfig `yaml:"accounts"`
}

// Accepts reports whether the configuration admits the named event for the
// given account. An account with an empty event list accepts everything.
func (c *Config) Accepts(accountID, eventName string) bool {
	for _, account := range c.Accounts {
		if account.ID != accountID {
			continue
		}

		if len(account.Events) == 0 {
			return true
		}

		for _, name := range account.Events {
			if name == eventName {
				return true
			}
		}
	}

	return false
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}
