package model

type UploadedFile struct {
	URL        string `json:"url"`
	Pathname   string `json:"pathname,omitempty"`
	Size       int64  `json:"size"`
	Type       string `json:"type"`
	Filename   string `json:"filename"`
	UploadedAt int64  `json:"uploadedAt"`
}
