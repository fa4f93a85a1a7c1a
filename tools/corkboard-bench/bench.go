package main

import (
	"fmt"
)

func main() {
	fmt.Println("Corkboard benchmark tools.")
	config := parseConfigure()
	if config == nil {
		return
	}
	if config.PushMode {
		GoPush(config)
	} else {
		GoPull(config)
	}
}
