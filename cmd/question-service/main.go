package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/victornm/trivia/internal/config"
	"github.com/victornm/trivia/internal/server"
)

func main() {
	c, err := loadConfig()
	if err != nil {
		log.Fatalf("Load config failed: %v", err)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, os.Interrupt)

	s, err := server.InitQuestion(c)
	if err != nil {
		log.Fatalf("Init server failed: %v", err)
	}

	stopped := make(chan error, 1)
	go func() {
		stopped <- s.Start()
	}()

	select {
	case <-shutdown:
		s.Shutdown()
	case err := <-stopped:
		s.Shutdown()
		if err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}
}

// loadConfig reads the file at CONFIG_PATH when set; environment variables override it.
func loadConfig() (server.QuestionConfig, error) {
	c := server.DefaultQuestionConfig()

	if err := config.Load(os.Getenv("CONFIG_PATH"), &c); err != nil {
		return c, fmt.Errorf("load config: %w", err)
	}

	return c, nil
}
