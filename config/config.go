package config

import (
	"io/ioutil"

	yaml "gopkg.in/yaml.v2"
)

type PublicGroupConfigure struct {
	ID   string `yaml:"id,omitempty"`
	Name string `yaml:"name,omitempty"`
}

type GroupConfigure struct {
	Name string `yaml:"name,omitempty"`
}

type ServerConfigure struct {
	LogLevel uint `yaml:"log-level,omitempty"`

	// Endpoint to bind and serve the wire protocol.
	Endpoint string `yaml:"endpoint,omitempty"`

	// Endpoint to bind and serve the management HTTP API plus the
	// websocket transport.
	APIEndpoint string `yaml:"api-endpoint,omitempty"`

	// Number of recent posts pushed to a session joining a group.
	// Nil keeps the built-in default; explicit 0 disables replay.
	HistoryReplay *uint `yaml:"history-replay,omitempty"`

	// Per-session outbound frame queue size.
	QueueSize uint `yaml:"queue-size,omitempty"`

	Debug bool `yaml:"debug,omitempty"`

	Public PublicGroupConfigure `yaml:"public,omitempty"`

	// Named groups created at start, keyed by group id.
	Groups map[string]GroupConfigure `yaml:"groups,omitempty"`
}

func FromFile(path string) (*ServerConfigure, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &ServerConfigure{}
	if err = yaml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
