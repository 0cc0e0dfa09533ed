package videos

import (
	"fmt"
	"regexp"
	"strings"
)

// youtubePattern accepts watch?v=ID, /embed/ID, /v/ID, /ID and any ...?v=ID form
// on youtube.com, youtu.be and youtube-nocookie.com. Identifiers are 11 characters.
var youtubePattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|v/|.+\?v=)?([^&=%\?]{11})`)

// ExtractVideoID returns the YouTube identifier embedded in rawURL.
func ExtractVideoID(rawURL string) (string, bool) {
	m := youtubePattern.FindStringSubmatch(strings.TrimSpace(rawURL))
	if m == nil {
		return "", false
	}
	return m[6], true
}

// ThumbnailURL is the medium-quality still YouTube serves for a video.
func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/mqdefault.jpg", videoID)
}

// WatchURL rebuilds a canonical link from a bare identifier.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
