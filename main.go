package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/kwv/vacmap/vacmap"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile = flag.String("config", "config.yaml", "Path to configuration file")
	outputFile = flag.String("output", "map.png", "Output file for one-shot render mode")
	deviceID   = flag.String("device", "", "Override the device id from the config file")
	httpMode   = flag.Bool("http", false, "Serve rendered maps over HTTP")
	httpPort   = flag.Int("http-port", 8080, "HTTP server port")
	mqttMode   = flag.Bool("mqtt", false, "Publish rendered maps to MQTT on an interval")
	interval   = flag.Duration("interval", 0, "Publish interval for MQTT mode (default 60s)")
)

func main() {
	flag.Parse()
	fmt.Printf("vacmap version: %s\n", Version)

	config, err := vacmap.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	if *deviceID != "" {
		config.DeviceID = *deviceID
	}

	app := NewApp(config)

	switch {
	case *httpMode:
		app.RunHTTP(*httpPort)
	case *mqttMode:
		app.RunPublish(*interval)
	default:
		app.RunRender(*outputFile)
	}
}
