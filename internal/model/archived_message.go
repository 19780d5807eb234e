package model

import "time"

type ArchivedMessage struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	MessageID string    `gorm:"size:64;not null;uniqueIndex" json:"id"`
	Type      string    `gorm:"size:16;not null" json:"type"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	FileURL   string    `gorm:"size:1024" json:"fileUrl,omitempty"`
	FileName  string    `gorm:"size:255" json:"fileName,omitempty"`
	FileSize  int64     `json:"fileSize,omitempty"`
	FileType  string    `gorm:"size:128" json:"fileType,omitempty"`
	Timestamp int64     `gorm:"not null;index" json:"timestamp"`
	CreatedAt time.Time `json:"archivedAt"`
}

func NewArchivedMessage(msg Message) *ArchivedMessage {
	archived := &ArchivedMessage{
		MessageID: msg.ID,
		Type:      msg.Type,
		Content:   msg.Content,
		Timestamp: msg.Timestamp,
	}
	if msg.FileData != nil {
		archived.FileURL = msg.FileData.URL
		archived.FileName = msg.FileData.Filename
		archived.FileSize = msg.FileData.Size
		archived.FileType = msg.FileData.Type
	}
	return archived
}
