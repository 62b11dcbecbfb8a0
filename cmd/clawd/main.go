package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/daemonrun"
)

func main() {
	configFlag := flag.String("config", "", "configuration file path")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, _, _, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("ensure directories: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{LogLevel: *logLevel}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
