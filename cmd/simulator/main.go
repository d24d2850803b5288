package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

var (
	serverURL   = flag.String("server", "ws://localhost:8080/ws/voice", "Voice WebSocket URL")
	token       = flag.String("token", "", "Bearer token for the staff account")
	audioFile   = flag.String("file", "order.wav", "Audio file to stream")
	chunkSize   = flag.Int("chunk-size", 32*1024, "Audio chunk size in bytes")
	chunkMs     = flag.Int("chunk-ms", 50, "Delay between chunks in milliseconds")
	kitchenURL  = flag.String("kitchen", "", "Watch a kitchen feed URL instead of placing a voice order")
	interactive = flag.Bool("interactive", false, "Drive the session from stdin commands")
	verbose     = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *kitchenURL != "" {
		if err := WatchKitchen(*kitchenURL, logger); err != nil {
			logger.Fatal("Kitchen feed watch failed", zap.Error(err))
		}
		return
	}

	config := &SimulatorConfig{
		ServerURL:     *serverURL,
		Token:         *token,
		AudioPath:     *audioFile,
		ChunkSize:     *chunkSize,
		ChunkInterval: time.Duration(*chunkMs) * time.Millisecond,
	}

	simulator := NewSimulator(config, logger)
	if err := simulator.Connect(); err != nil {
		logger.Fatal("Failed to connect to server", zap.Error(err))
	}
	defer simulator.Stop()

	if *interactive {
		if err := simulator.RunInteractive(); err != nil {
			logger.Fatal("Interactive session failed", zap.Error(err))
		}
		return
	}

	if err := simulator.Run(); err != nil {
		logger.Fatal("Voice order failed", zap.Error(err))
	}
}
