package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/kwv/vacmap/vacmap"
)

// newHTTPServer creates an HTTP server with all endpoints.
func newHTTPServer(app *App) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Device    string    `json:"device"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			Device:    app.Config.DeviceID,
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	// Annotated raster map
	mux.HandleFunc("/map.png", func(w http.ResponseWriter, r *http.Request) {
		_, data, err := app.renderPNG(r.Context())
		if err != nil {
			log.Printf("Error rendering map: %v", err)
			http.Error(w, "Map render failed", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if _, err := w.Write(data); err != nil {
			log.Printf("Error writing PNG response: %v", err)
		}
	})

	// Vector map
	mux.HandleFunc("/map.svg", func(w http.ResponseWriter, r *http.Request) {
		header, grid, path, err := app.Renderer.Decode(r.Context(), app.Config.DeviceID)
		if err != nil {
			log.Printf("Error decoding map: %v", err)
			http.Error(w, "Map decode failed", http.StatusBadGateway)
			return
		}

		renderer := vacmap.NewVectorRenderer(header, grid, app.Config.Palette())
		renderer.Path = path

		w.Header().Set("Content-Type", "image/svg+xml")
		if err := renderer.RenderToSVG(w); err != nil {
			log.Printf("Error rendering SVG: %v", err)
		}
	})

	// Map geometry for integrations that draw their own overlays
	mux.HandleFunc("/map.geojson", func(w http.ResponseWriter, r *http.Request) {
		header, grid, path, err := app.Renderer.Decode(r.Context(), app.Config.DeviceID)
		if err != nil {
			log.Printf("Error decoding map: %v", err)
			http.Error(w, "Map decode failed", http.StatusBadGateway)
			return
		}

		data, err := vacmap.MarshalGeoJSON(vacmap.ExportGeoJSON(header, grid, path))
		if err != nil {
			log.Printf("Error marshaling GeoJSON: %v", err)
			http.Error(w, "GeoJSON export failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		if _, err := w.Write(data); err != nil {
			log.Printf("Error writing GeoJSON response: %v", err)
		}
	})

	return mux
}
