package model

const (
	MessageTypeText = "text"
	MessageTypeFile = "file"
)

// Message is one entry of the shared chat room.
type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp int64     `json:"timestamp"`
	FileData  *FileData `json:"fileData,omitempty"`
}

type FileData struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Type     string `json:"type"`
}

func IsValidMessageType(t string) bool {
	return t == MessageTypeText || t == MessageTypeFile
}
