package reading

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	videoURLPattern = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})`)
	videoIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// VideoID extracts the 11-character YouTube id from a watch, youtu.be, embed or
// shorts URL, or accepts a bare id.
func VideoID(url string) (string, error) {
	url = strings.TrimSpace(url)
	if m := videoURLPattern.FindStringSubmatch(url); m != nil {
		return m[1], nil
	}
	if videoIDPattern.MatchString(url) {
		return url, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidVideoURL, url)
}

// EmbedURL is the player URL stored as the activity's content reference.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}

// ThumbnailURL is the high-quality still used as the activity thumbnail.
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}
