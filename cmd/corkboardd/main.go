package main

import (
	"github.com/corkboard-im/corkboard/server"
)

func main() {
	server.Main()
}
