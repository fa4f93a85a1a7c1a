package main

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corkboard-im/corkboard/client"
	"github.com/corkboard-im/corkboard/proto"
)

func GoPull(config *BenchmarkConfigure) {
	log.Println("Work in pull mode.")

	received := int64(0)
	wg := sync.WaitGroup{}
	begin := time.Now()
	for i := uint(0); i < config.Concurrency; i++ {
		wg.Add(1)
		go func(idx uint) {
			defer wg.Done()

			got, done := uint(0), make(chan struct{})
			c, err := client.Dial(config.Endpoint.AuthorityString(), client.Options{
				OnEvent: func(unit proto.ProtocolUnit) {
					switch unit.(type) {
					case *proto.PostEvent, *proto.GroupPostEvent:
						atomic.AddInt64(&received, 1)
						if got++; got == config.Request {
							close(done)
						}
					}
				},
				OnError: func(err error) {
					log.Println("Client failure: " + err.Error())
				},
			})
			if err != nil {
				log.Println("Dial failure: " + err.Error())
				return
			}
			defer c.Exit()

			username := config.UserPrefix + strconv.FormatUint(uint64(idx), 10)
			if config.GroupID != "" {
				err = c.GroupJoin(config.GroupID, username)
			} else {
				err = c.Join(username)
			}
			if err != nil {
				log.Println("Join failure: " + err.Error())
				return
			}

			<-done
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(begin)
	log.Printf("Received %v posts in %v (%.1f posts/s).", received, elapsed, float64(received)/elapsed.Seconds())
}
