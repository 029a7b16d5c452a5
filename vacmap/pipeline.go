package vacmap

import (
	"context"
	"fmt"
	"image"
	"log"
)

// targetLongEdge is the output edge length the path-enabled render scales
// toward: scale = floor(targetLongEdge / map width).
const targetLongEdge = 1080

// Renderer sequences one map render: resolve links, fetch the map blob,
// decode, rasterize, optionally overlay the travel path and dock marker,
// then apply the geometric transforms.
//
// A Renderer holds no per-request state; concurrent Render calls for
// different devices are safe.
type Renderer struct {
	Links   LinkProvider
	Fetcher BlobFetcher
}

// NewRenderer creates a renderer over the given collaborators. A nil
// fetcher defaults to an HTTPFetcher with standard settings.
func NewRenderer(links LinkProvider, fetcher BlobFetcher) *Renderer {
	if fetcher == nil {
		fetcher = NewHTTPFetcher()
	}
	return &Renderer{Links: links, Fetcher: fetcher}
}

// Render produces the annotated map image for a device.
//
// Fetch and decode failures up to the base raster are fatal and returned
// with the cause preserved. Everything after — path fetch/decode, overlay
// drawing, geometric transforms — is recovered: the best available image is
// returned and the failure logged.
func (r *Renderer) Render(ctx context.Context, deviceID string, palette ColorPalette, settings RenderSettings) (*MapHeader, *image.RGBA, error) {
	links, err := r.Links.MapLinks(ctx, deviceID)
	if err != nil {
		return nil, nil, fmt.Errorf("map render failed: %w", err)
	}
	return r.RenderLinks(ctx, links, palette, settings)
}

// RenderLinks is Render with the link list already resolved, for callers
// that cache or supply their own URLs.
func (r *Renderer) RenderLinks(ctx context.Context, links []DownloadLink, palette ColorPalette, settings RenderSettings) (*MapHeader, *image.RGBA, error) {
	mapIdx := -1
	for i, l := range links {
		if l.MapURL != "" {
			mapIdx = i
			break
		}
	}
	if mapIdx < 0 {
		return nil, nil, fmt.Errorf("map render failed: no map URL in link list")
	}

	blob, err := r.Fetcher.Fetch(ctx, links[mapIdx].MapURL)
	if err != nil {
		return nil, nil, fmt.Errorf("map render failed: %w", err)
	}

	header, grid, err := DecodeMapBlob(blob)
	if err != nil {
		return nil, nil, fmt.Errorf("map render failed: %w", err)
	}

	img := Rasterize(grid, palette)

	if settings.PathEnabled {
		overlaid, err := r.overlayPath(ctx, links[mapIdx+1:], header, grid, img, palette, settings)
		if err != nil {
			log.Printf("vacmap: path overlay skipped (version %s): %v", header.Version, err)
		} else {
			img = overlaid
		}
	}

	transformed, err := ApplyTransform(img, settings)
	if err != nil {
		log.Printf("vacmap: transform skipped (version %s): %v", header.Version, err)
		return header, img, nil
	}
	return header, transformed, nil
}

// overlayPath runs the recoverable branch: fetch the path blob, upscale the
// raster toward the target edge length, decode and scale the path, then
// composite the polyline and dock marker. The input image is untouched on
// any failure so the caller can fall back to it.
func (r *Renderer) overlayPath(ctx context.Context, rest []DownloadLink, header *MapHeader, grid *PixelGrid, img *image.RGBA, palette ColorPalette, settings RenderSettings) (*image.RGBA, error) {
	pathURL := ""
	for _, l := range rest {
		if l.MapURL != "" {
			pathURL = l.MapURL
			break
		}
	}
	if pathURL == "" {
		return nil, fmt.Errorf("no path URL in link list")
	}

	blob, err := r.Fetcher.Fetch(ctx, pathURL)
	if err != nil {
		return nil, err
	}

	scale := computeScale(img.Bounds().Dx())
	points, err := DecodePath(blob, header)
	if err != nil {
		return nil, err
	}

	out := Upscale(img, scale)
	scaled := make([]PathPoint, len(points))
	for i, p := range points {
		scaled[i] = PathPoint{X: p.X * float64(scale), Y: p.Y * float64(scale)}
	}
	DrawPath(out, scaled, palette.Path())

	if dock, ok := DockPoint(header); ok {
		DrawDock(out, PathPoint{X: dock.X * float64(scale), Y: dock.Y * float64(scale)})
	}
	if settings.RoomLabels {
		DrawRoomLabels(out, header, grid, scale)
	}
	return out, nil
}

// Decode fetches and decodes the map without rasterizing, for consumers
// that want the semantic grid and path geometry (GeoJSON, vector output).
// Path failures are non-fatal here too: the path comes back empty.
func (r *Renderer) Decode(ctx context.Context, deviceID string) (*MapHeader, *PixelGrid, []PathPoint, error) {
	links, err := r.Links.MapLinks(ctx, deviceID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("map decode failed: %w", err)
	}

	mapIdx := -1
	for i, l := range links {
		if l.MapURL != "" {
			mapIdx = i
			break
		}
	}
	if mapIdx < 0 {
		return nil, nil, nil, fmt.Errorf("map decode failed: no map URL in link list")
	}

	blob, err := r.Fetcher.Fetch(ctx, links[mapIdx].MapURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("map decode failed: %w", err)
	}
	header, grid, err := DecodeMapBlob(blob)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("map decode failed: %w", err)
	}

	var points []PathPoint
	for _, l := range links[mapIdx+1:] {
		if l.MapURL == "" {
			continue
		}
		pathBlob, err := r.Fetcher.Fetch(ctx, l.MapURL)
		if err == nil {
			points, err = DecodePath(pathBlob, header)
		}
		if err != nil {
			log.Printf("vacmap: path decode skipped (version %s): %v", header.Version, err)
		}
		break
	}

	return header, grid, points, nil
}

// computeScale returns the integer upscale factor toward the target long
// edge, never below 1.
func computeScale(width int) int {
	if width <= 0 {
		return 1
	}
	scale := targetLongEdge / width
	if scale < 1 {
		return 1
	}
	return scale
}
