package charts

import (
	"net/url"
	"strings"

	"github.com/weppos/publicsuffix-go/publicsuffix"
)

// NormalizeVideoURL rewrites the usual YouTube link shapes (youtu.be short
// links, embed, shorts, live and mobile watch pages) to the canonical watch
// URL. Anything that is not a recognizable YouTube link is returned trimmed
// but otherwise untouched.
func NormalizeVideoURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	domain, err := publicsuffix.Domain(strings.ToLower(u.Hostname()))
	if err != nil {
		return raw
	}

	var id string
	switch domain {
	case "youtu.be":
		id = firstSegment(u.Path)
	case "youtube.com":
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		for _, prefix := range []string{"/embed/", "/shorts/", "/live/", "/v/"} {
			if strings.HasPrefix(u.Path, prefix) {
				id = firstSegment(strings.TrimPrefix(u.Path, prefix))
				break
			}
		}
	}

	if id == "" {
		return raw
	}
	return YouTubeWatchURL + id
}

func firstSegment(path string) string {
	path = strings.TrimPrefix(path, "/")
	if i := strings.Index(path, "/"); i >= 0 {
		path = path[:i]
	}
	return path
}
