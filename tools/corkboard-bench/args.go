package main

import (
	"flag"
	"log"

	"github.com/corkboard-im/corkboard/utils/cmdline"
)

type BenchmarkConfigure struct {
	PushMode    bool
	Concurrency uint
	Request     uint
	UserPrefix  string
	GroupID     string
	Endpoint    *cmdline.NetEndpointValue
}

func parseConfigure() *BenchmarkConfigure {
	config := &BenchmarkConfigure{}

	endpoint, err := cmdline.NewNetEndpointValueDefault([]string{"tcp"}, "127.0.0.1:12360")
	if err != nil {
		log.Panicln(err.Error())
		return nil
	}
	config.Endpoint = endpoint

	flag.BoolVar(&config.PushMode, "push", false, "Push mode.")
	flag.UintVar(&config.Concurrency, "concurrency", 1, "Number of posting clients in push mode. Number of listening clients in pull mode.")
	flag.UintVar(&config.Request, "request", 1, "Number of posts to send or receive per client.")
	flag.StringVar(&config.UserPrefix, "user-prefix", "bench", "Name prefix of generated users.")
	flag.StringVar(&config.GroupID, "group", "", "Group to post into. Empty for the public group.")
	flag.Var(config.Endpoint, "server", "corkboard server endpoint.")

	flag.Parse()

	if fl := flag.Lookup("concurrency"); fl != nil {
		v := fl.Value.String()
		if v == "" || v == "0" {
			log.Println("Concurrency is too small. set to 1.")
			fl.Value.Set("1")
		}
	}

	log.Println("Configure:")
	flag.VisitAll(func(fl *flag.Flag) {
		log.Println("\t-" + fl.Name + "=" + fl.Value.String())
	})

	return config
}
