package favicon

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	"github.com/bnema/tabshell/internal/application/port"
	"github.com/bnema/tabshell/internal/logging"
)

const (
	// sampleSize is the edge of the thumbnail colors are averaged over.
	sampleSize = 16
	// opaqueAlpha is the minimum alpha (16-bit) of a sampled pixel.
	opaqueAlpha = 0x8000

	minLightness = 0.15
	maxLightness = 0.85
	// darkTextLuminance is the Lab L above which text turns dark.
	darkTextLuminance = 0.65

	defaultCacheSize = 256
)

var errNoOpaquePixels = errors.New("favicon has no opaque pixels")

// iconSource fetches icon bytes.
type iconSource interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// ColorExtractor derives a background/foreground pair from the average
// color of a favicon. It implements port.ColorExtractor.
type ColorExtractor struct {
	source iconSource

	mu    sync.Mutex
	cache *colorCache
}

// NewColorExtractor creates an extractor fetching icons over HTTP.
func NewColorExtractor() *ColorExtractor {
	return newColorExtractor(NewFetcher())
}

func newColorExtractor(source iconSource) *ColorExtractor {
	return &ColorExtractor{
		source: source,
		cache:  newColorCache(defaultCacheSize),
	}
}

// Extract tries each favicon URL in order and returns the colors of the
// first one that decodes.
func (e *ColorExtractor) Extract(ctx context.Context, faviconURLs []string) (port.TabColors, error) {
	log := logging.FromContext(ctx)

	var errs []error
	for _, u := range faviconURLs {
		e.mu.Lock()
		cached, ok := e.cache.get(u)
		e.mu.Unlock()
		if ok {
			return cached, nil
		}

		colors, err := e.extractOne(ctx, u)
		if err != nil {
			log.Debug().Err(err).Str("url", logging.TruncateURL(u, 60)).Msg("favicon color extraction failed")
			errs = append(errs, err)
			continue
		}

		e.mu.Lock()
		e.cache.set(u, colors)
		e.mu.Unlock()
		return colors, nil
	}
	if len(errs) == 0 {
		return port.TabColors{}, fmt.Errorf("no favicon urls")
	}
	return port.TabColors{}, errors.Join(errs...)
}

func (e *ColorExtractor) extractOne(ctx context.Context, rawURL string) (port.TabColors, error) {
	data, err := e.source.Fetch(ctx, rawURL)
	if err != nil {
		return port.TabColors{}, err
	}
	img, err := decodeIcon(data)
	if err != nil {
		return port.TabColors{}, err
	}
	return colorsOf(img)
}

// colorsOf averages the opaque pixels of img on a small thumbnail. The
// background is kept within a readable lightness range.
func colorsOf(img image.Image) (port.TabColors, error) {
	thumb := image.NewRGBA(image.Rect(0, 0, sampleSize, sampleSize))
	draw.ApproxBiLinear.Scale(thumb, thumb.Bounds(), img, img.Bounds(), draw.Src, nil)

	var r, g, b, n float64
	for y := range sampleSize {
		for x := range sampleSize {
			pr, pg, pb, pa := thumb.At(x, y).RGBA()
			if pa < opaqueAlpha {
				continue
			}
			// Undo premultiplication.
			r += float64(pr) / float64(pa)
			g += float64(pg) / float64(pa)
			b += float64(pb) / float64(pa)
			n++
		}
	}
	if n == 0 {
		return port.TabColors{}, errNoOpaquePixels
	}

	bg := colorful.Color{R: r / n, G: g / n, B: b / n}.Clamped()
	if h, s, l := bg.Hsl(); l < minLightness || l > maxLightness {
		bg = colorful.Hsl(h, s, min(max(l, minLightness), maxLightness)).Clamped()
	}

	fg := "#ffffff"
	if lum, _, _ := bg.Lab(); lum > darkTextLuminance {
		fg = "#000000"
	}
	return port.TabColors{Background: bg.Hex(), Foreground: fg}, nil
}
