package entity

// TranscriptStatus tells why a transcript extraction ended the way it did.
type TranscriptStatus int

const (
	TranscriptFound TranscriptStatus = iota
	TranscriptNotVideoPage
	TranscriptNoVideoID
	TranscriptUnavailable
	// TranscriptOpenFailed means the transcript control was triggered but the
	// panel never populated (or the trigger itself failed).
	TranscriptOpenFailed
	TranscriptSnapshotFailed
)

func (s TranscriptStatus) String() string {
	switch s {
	case TranscriptFound:
		return "found"
	case TranscriptNotVideoPage:
		return "not_video_page"
	case TranscriptNoVideoID:
		return "no_video_id"
	case TranscriptUnavailable:
		return "unavailable"
	case TranscriptOpenFailed:
		return "open_failed"
	case TranscriptSnapshotFailed:
		return "snapshot_failed"
	default:
		return "unknown"
	}
}

// TranscriptResult is the outcome of reading a video transcript. Status tells
// success from each kind of failure; Error holds the display message.
type TranscriptResult struct {
	VideoID    string           `json:"videoId,omitempty"`
	Title      string           `json:"title,omitempty"`
	Transcript string           `json:"transcript,omitempty"`
	Error      string           `json:"error,omitempty"`
	Status     TranscriptStatus `json:"-"`
}

func NewTranscript(videoID, title, transcript string) TranscriptResult {
	return TranscriptResult{
		VideoID:    videoID,
		Title:      title,
		Transcript: transcript,
		Status:     TranscriptFound,
	}
}

func NewTranscriptFailure(videoID, title string, status TranscriptStatus, message string) TranscriptResult {
	return TranscriptResult{
		VideoID: videoID,
		Title:   title,
		Error:   message,
		Status:  status,
	}
}

func (r TranscriptResult) OK() bool {
	return r.Status == TranscriptFound
}
