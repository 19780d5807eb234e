package model

// ContentData is the legacy single shared text value.
type ContentData struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}
