package server

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corkboard-im/corkboard/log"
)

func Main() {
	fmt.Println("Corkboard bulletin board server.")
	options, err := configureParse()
	if options == nil {
		log.Fatalf("%v", err.Error())
		return
	}

	log.Infof0("Corkboard server start.")
	log.Infof0("Log level is %v.", options.LogLevel.Value)
	log.SetGlobalLogLevel(options.LogLevel.Value)
	if options.DebugMode.Value {
		log.SetGlobalLogLevel(4)
		log.Info0("Debug mode enabled.")
	}

	server := NewServer(ServerConfig{
		Endpoint:        options.Endpoint.AuthorityString(),
		APIEndpoint:     options.APIEndpoint.AuthorityString(),
		PublicGroupID:   options.PublicGroupID.Value,
		PublicGroupName: options.PublicGroupName.Value,
		Groups:          options.SeedGroups,
		HistoryReplay:   int(options.HistoryReplay.Value),
		QueueSize:       options.QueueSize.Value,
	})

	server.GoServeAPI()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		received := <-sig
		log.Infof0("Signal %v received, shutting down.", received)
		server.Shutdown()
	}()

	if err = server.Serve(); err != nil {
		log.Fatalf("Failed to serve wire protocol: %s", err.Error())
	}
	log.Infof0("Corkboard server stopped.")
}
