package entity

import "regexp"

type ContentType string

const (
	ContentTypeWebPage ContentType = "webpage"
	ContentTypeYouTube ContentType = "youtube"
)

var youTubeURLPattern = regexp.MustCompile(`^(https?://)?(www\.)?(youtube\.com/watch\?v=|youtu\.be/|youtube\.com/shorts/)([a-zA-Z0-9_-]{11})(.*)$`)

// ClassifyURL decides which extractor handles url.
func ClassifyURL(url string) ContentType {
	if youTubeURLPattern.MatchString(url) {
		return ContentTypeYouTube
	}
	return ContentTypeWebPage
}

func (c ContentType) IsYouTube() bool {
	return c == ContentTypeYouTube
}
