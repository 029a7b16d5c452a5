package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kwv/vacmap/vacmap"
)

const defaultPublishInterval = 60 * time.Second

// App wires the configured collaborators into the render pipeline.
type App struct {
	Config   *vacmap.Config
	Renderer *vacmap.Renderer
}

// NewApp builds the cloud client, fetcher and renderer from the config.
func NewApp(config *vacmap.Config) *App {
	links := vacmap.NewCloudClient(config.API.Server, config.API.ClientID, config.API.SecretKey)
	return &App{
		Config:   config,
		Renderer: vacmap.NewRenderer(links, vacmap.NewHTTPFetcher()),
	}
}

// renderPNG runs one full render and encodes the result as PNG bytes.
func (a *App) renderPNG(ctx context.Context) (*vacmap.MapHeader, []byte, error) {
	header, img, err := a.Renderer.Render(ctx, a.Config.DeviceID, a.Config.Palette(), a.Config.RenderSettings())
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return header, buf.Bytes(), nil
}

// RunRender renders the map once and writes it to a file.
func (a *App) RunRender(outputPath string) {
	header, data, err := a.renderPNG(context.Background())
	if err != nil {
		log.Fatalf("Error rendering map: %v", err)
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		log.Fatalf("Error writing %s: %v", outputPath, err)
	}
	log.Printf("Rendered %s map (%dx%d) to %s", header.Version, header.Width, header.Height, outputPath)
}

// RunHTTP serves rendered maps over HTTP until interrupted.
func (a *App) RunHTTP(port int) {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: newHTTPServer(a),
	}

	go func() {
		log.Printf("HTTP server listening on :%d", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	waitForSignal()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
}

// RunPublish renders and publishes the map to MQTT on an interval until
// interrupted.
func (a *App) RunPublish(interval time.Duration) {
	if interval <= 0 {
		interval = defaultPublishInterval
	}

	client, err := vacmap.ConnectMQTT(a.Config.MQTT)
	if err != nil {
		log.Fatalf("Error connecting to MQTT: %v", err)
	}
	if client == nil {
		log.Fatal("MQTT mode requires mqtt.broker in the config file")
	}
	defer client.Disconnect(250)

	publisher := vacmap.NewMapPublisher(client, a.Config.MQTT.PublishPrefix)

	publish := func() {
		ctx, cancel := context.WithTimeout(context.Background(), interval)
		defer cancel()

		header, data, err := a.renderPNG(ctx)
		if err != nil {
			log.Printf("Error rendering map: %v", err)
			return
		}
		if err := publisher.PublishMap(a.Config.DeviceID, header, data); err != nil {
			log.Printf("Error publishing map: %v", err)
			return
		}
		log.Printf("Published %s map (%dx%d) for %s", header.Version, header.Width, header.Height, a.Config.DeviceID)
	}

	publish()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	done := make(chan struct{})
	go func() {
		waitForSignal()
		close(done)
	}()

	for {
		select {
		case <-ticker.C:
			publish()
		case <-done:
			return
		}
	}
}

func waitForSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
}
