// Package poster renders poster images as ANSI art thumbnails.
package poster

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	_ "image/gif"  // decoders for ansimage
	_ "image/jpeg" // decoders for ansimage
	_ "image/png"  // decoders for ansimage
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/eliukblau/pixterm/pkg/ansimage"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// maxImageBytes bounds a single poster download.
const maxImageBytes = 4 << 20

// Options configures a Renderer.
type Options struct {
	Width        int     // cells
	Height       int     // rows
	RateLimitQPS float64 // 0 = unlimited
	Background   color.Color
}

// Renderer downloads and renders posters. Results are memoised per URL
// for the life of the renderer; concurrent requests for the same URL
// share one download.
type Renderer struct {
	client  *http.Client
	opts    Options
	limiter *rate.Limiter
	group   singleflight.Group

	mu   sync.Mutex
	memo map[string]string
}

// NewRenderer creates a renderer. A nil client uses http.DefaultClient.
func NewRenderer(client *http.Client, opts Options) *Renderer {
	if client == nil {
		client = http.DefaultClient
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RateLimitQPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimitQPS), 1)
	}
	return &Renderer{
		client:  client,
		opts:    opts,
		limiter: limiter,
		memo:    make(map[string]string),
	}
}

// Size returns the rendered thumbnail size in cells.
func (r *Renderer) Size() (width, height int) {
	return r.opts.Width, r.opts.Height
}

// Cached returns a previously rendered poster.
func (r *Renderer) Cached(url string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	art, ok := r.memo[url]
	return art, ok
}

// Render returns the ANSI art for the poster at url.
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", fmt.Errorf("no poster URL")
	}
	if art, ok := r.Cached(url); ok {
		return art, nil
	}

	v, err, _ := r.group.Do(url, func() (any, error) {
		if art, ok := r.Cached(url); ok {
			return art, nil
		}
		if err := r.limiter.Wait(ctx); err != nil {
			return "", err
		}
		data, err := r.download(ctx, url)
		if err != nil {
			return "", err
		}
		art, err := r.rasterize(data)
		if err != nil {
			return "", fmt.Errorf("render poster %s: %w", url, err)
		}
		r.mu.Lock()
		r.memo[url] = art
		r.mu.Unlock()
		return art, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (r *Renderer) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("poster %s: status code %d", url, resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
}

// rasterize scales the image to fit the thumbnail. Each cell holds two
// vertical pixels, so the pixel height is twice the row count.
func (r *Renderer) rasterize(data []byte) (string, error) {
	img, err := ansimage.NewScaledFromReader(
		bytes.NewReader(data),
		r.opts.Height*2, r.opts.Width,
		r.opts.Background,
		ansimage.ScaleModeFit,
		ansimage.NoDithering,
	)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(img.Render(), "\n"), nil
}
