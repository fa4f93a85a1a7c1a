package main

import (
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/corkboard-im/corkboard/client"
)

func dialAndJoin(config *BenchmarkConfigure, idx uint) (*client.Client, error) {
	c, err := client.Dial(config.Endpoint.AuthorityString(), client.Options{
		OnError: func(err error) {
			log.Println("Client failure: " + err.Error())
		},
	})
	if err != nil {
		return nil, err
	}
	username := config.UserPrefix + strconv.FormatUint(uint64(idx), 10)
	if config.GroupID != "" {
		err = c.GroupJoin(config.GroupID, username)
	} else {
		err = c.Join(username)
	}
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func GoPush(config *BenchmarkConfigure) {
	log.Println("Work in push mode.")

	wg := sync.WaitGroup{}
	begin := time.Now()
	for i := uint(0); i < config.Concurrency; i++ {
		wg.Add(1)
		go func(idx uint) {
			defer wg.Done()
			c, err := dialAndJoin(config, idx)
			if err != nil {
				log.Println("Dial failure: " + err.Error())
				return
			}
			defer c.Exit()
			for seq := uint(0); seq < config.Request; seq++ {
				subject := "bench-" + strconv.FormatUint(uint64(seq), 10)
				if config.GroupID != "" {
					err = c.GroupPost(config.GroupID, subject, "benchmark payload")
				} else {
					err = c.Post(subject, "benchmark payload")
				}
				if err != nil {
					log.Println("Post failure: " + err.Error())
					return
				}
			}
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(begin)
	total := config.Concurrency * config.Request
	log.Printf("Pushed %v posts in %v (%.1f posts/s).", total, elapsed, float64(total)/elapsed.Seconds())
}
