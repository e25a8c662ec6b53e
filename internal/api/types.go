package api

import "time"

// MediaKind selects which detection endpoint a file is submitted to.
type MediaKind int

const (
	KindImage MediaKind = iota
	KindVideo
)

// String returns the wire name of the kind ("image" or "video").
func (k MediaKind) String() string {
	if k == KindVideo {
		return "video"
	}
	return "image"
}

// Credentials is the outcome of a successful login.
type Credentials struct {
	Token string
	Email string
}

// DetectionResult is the classification outcome for one submitted media item.
// Immutable once received from the backend.
type DetectionResult struct {
	Label      string  `json:"label"`      // "REAL" or "FAKE"
	Confidence float64 `json:"confidence"` // percentage in [0,100]
	Reasoning  string  `json:"reasoning"`
}

// HistoryEntry is one past scan belonging to the authenticated user.
type HistoryEntry struct {
	ID         int       `json:"id"`
	FileType   string    `json:"file_type"` // "image" or "video"
	Filename   string    `json:"filename"`
	Prediction string    `json:"prediction"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}
