package server

import (
	"flag"
	"fmt"

	"github.com/corkboard-im/corkboard/config"
	"github.com/corkboard-im/corkboard/log"
	"github.com/corkboard-im/corkboard/utils/cmdline"
)

type ServerOptions struct {
	ExternalConfig *cmdline.StringValue
	LogLevel       *cmdline.UintValue

	// Endpoint to bind and serve the wire protocol.
	Endpoint *cmdline.NetEndpointValue

	// Endpoint to bind and serve the management API and websocket
	// transport.
	APIEndpoint *cmdline.NetEndpointValue

	PublicGroupID   *cmdline.StringValue
	PublicGroupName *cmdline.StringValue

	// Number of recent posts replayed to a joining session.
	HistoryReplay *cmdline.UintValue

	// Per-session outbound frame queue size.
	QueueSize *cmdline.UintValue

	// Debug mode
	DebugMode *cmdline.BoolValue

	// Named groups seeded from the configure file.
	SeedGroups map[string]string
}

func (options *ServerOptions) SetDefaultFromConfigure(cfg *config.ServerConfigure) error {
	if options.LogLevel.IsDefault {
		options.LogLevel.Value = cfg.LogLevel
	}
	if options.Endpoint.IsDefault && cfg.Endpoint != "" {
		if err := options.Endpoint.Set(cfg.Endpoint); err != nil {
			return err
		}
	}
	if options.APIEndpoint.IsDefault && cfg.APIEndpoint != "" {
		if err := options.APIEndpoint.Set(cfg.APIEndpoint); err != nil {
			return err
		}
	}
	if options.PublicGroupID.IsDefault && cfg.Public.ID != "" {
		options.PublicGroupID.Value = cfg.Public.ID
	}
	if options.PublicGroupName.IsDefault && cfg.Public.Name != "" {
		options.PublicGroupName.Value = cfg.Public.Name
	}
	if options.HistoryReplay.IsDefault && cfg.HistoryReplay != nil {
		options.HistoryReplay.Value = *cfg.HistoryReplay
		options.HistoryReplay.IsDefault = false
	}
	if options.QueueSize.IsDefault && cfg.QueueSize != 0 {
		options.QueueSize.Value = cfg.QueueSize
	}
	if options.DebugMode.IsDefault {
		options.DebugMode.Value = cfg.Debug
	}
	return nil
}

func (options *ServerOptions) SetDefault() error {
	if options.Endpoint.Host == "" {
		options.Endpoint.Host = "0.0.0.0"
	}
	if !options.Endpoint.HasPort || options.Endpoint.Port == 0 || options.Endpoint.Port > 0xFFFF {
		return fmt.Errorf("Wire endpoint port should be specified. (See \"-endpoint\")")
	}
	if options.QueueSize.Value == 0 {
		return fmt.Errorf("Queue size should not be 0. (See \"-queue-size\")")
	}
	return nil
}

func configureParse() (*ServerOptions, error) {
	var err error
	var endpoint, api_endpoint *cmdline.NetEndpointValue

	if endpoint, err = cmdline.NewNetEndpointValueDefault([]string{"tcp"}, "0.0.0.0:12360"); err != nil {
		log.Panicf("Flag value creating failure: %v", err.Error())
		return nil, err
	}
	if api_endpoint, err = cmdline.NewNetEndpointValueDefault([]string{"tcp", "http"}, "127.0.0.1:12361"); err != nil {
		log.Panicf("Flag value creating failure: %v", err.Error())
		return nil, err
	}

	options := &ServerOptions{
		ExternalConfig:  cmdline.NewStringValue(),
		LogLevel:        cmdline.NewUintValueDefault(0),
		Endpoint:        endpoint,
		APIEndpoint:     api_endpoint,
		PublicGroupID:   cmdline.NewStringValueDefault(DEFAULT_PUBLIC_GROUP_ID),
		PublicGroupName: cmdline.NewStringValueDefault(DEFAULT_PUBLIC_GROUP_NAME),
		HistoryReplay:   cmdline.NewUintValueDefault(DEFAULT_HISTORY_REPLAY),
		QueueSize:       cmdline.NewUintValueDefault(DEFAULT_QUEUE_SIZE),
		DebugMode:       cmdline.NewBoolValueDefault(false),
	}

	flag.Var(options.ExternalConfig, "config", "Configure YAML.")
	flag.Var(options.LogLevel, "log-level", "Log level.")
	flag.Var(options.Endpoint, "endpoint", "Wire protocol binding endpoint.")
	flag.Var(options.APIEndpoint, "api-endpoint", "Management API endpoint.")
	flag.Var(options.PublicGroupID, "public-group-id", "ID of the permanent public group.")
	flag.Var(options.PublicGroupName, "public-group-name", "Name of the permanent public group.")
	flag.Var(options.HistoryReplay, "history-replay", "Number of recent posts pushed to a joining session. 0 disables.")
	flag.Var(options.QueueSize, "queue-size", "Max number of buffered outbound frames for a session.")
	flag.Var(options.DebugMode, "debug", "Enable debug mode.")

	flag.Parse()

	// Load configure when external yaml is given.
	var external *config.ServerConfigure
	if options.ExternalConfig.Value != "" {
		log.Infof0("External configure: %v", options.ExternalConfig.Value)

		if external, err = config.FromFile(options.ExternalConfig.Value); err != nil {
			return nil, fmt.Errorf("Failed to load configure file: %v", err.Error())
		}
		if err = options.SetDefaultFromConfigure(external); err != nil {
			return nil, fmt.Errorf("Invalid configure: %v", err.Error())
		}
	}

	if err = options.SetDefault(); err != nil {
		return nil, err
	}

	log.Info0("Configurations:")
	flag.VisitAll(func(fl *flag.Flag) {
		log.Info0("-" + fl.Name + "=" + fl.Value.String())
	})

	options.SeedGroups = make(map[string]string)
	if external != nil {
		for id, group := range external.Groups {
			name := group.Name
			if name == "" {
				name = id
			}
			options.SeedGroups[id] = name
		}
	}
	return options, nil
}
