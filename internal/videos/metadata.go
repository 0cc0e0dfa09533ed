package videos

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

// Lookup failures callers may want to tell apart from a failing yt-dlp run.
var (
	ErrProviderUnavailable = errors.New("video metadata lookup is not configured")
	ErrNoMetadata          = errors.New("video platform returned no metadata")
)

// Metadata captures the display details shown next to a training video.
type Metadata struct {
	Title           string
	DurationSeconds int
	ViewCount       int64
}

// Duration renders the length as mm:ss, or h:mm:ss for long videos.
func (m Metadata) Duration() string {
	s := m.DurationSeconds
	if s <= 0 {
		return "00:00"
	}
	if s >= 3600 {
		return fmt.Sprintf("%d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

// Views renders the view count compactly: 890K, 1.2M.
func (m Metadata) Views() string {
	n := m.ViewCount
	switch {
	case n >= 1_000_000_000:
		return compact(float64(n)/1e9) + "B"
	case n >= 1_000_000:
		return compact(float64(n)/1e6) + "M"
	case n >= 1_000:
		return compact(float64(n)/1e3) + "K"
	case n > 0:
		return strconv.FormatInt(n, 10)
	default:
		return "0"
	}
}

func compact(v float64) string {
	if v >= 100 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(float64(int64(v*10))/10, 'f', -1, 64)
}

// Provider returns metadata for the supplied video URL.
type Provider interface {
	Lookup(ctx context.Context, url string) (Metadata, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, url string) (Metadata, error)

// Lookup implements Provider.
func (f ProviderFunc) Lookup(ctx context.Context, url string) (Metadata, error) {
	return f(ctx, url)
}
