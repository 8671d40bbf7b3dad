package models

import "time"

// MediaKind is the kind of an uploaded asset
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// AllowedExtensions lists accepted file extensions per media kind
var AllowedExtensions = map[MediaKind][]string{
	MediaKindImage: {".jpg", ".jpeg", ".png", ".gif", ".webp"},
	MediaKindVideo: {".mp4", ".avi", ".mkv", ".mov"},
}

// Media is metadata of an uploaded asset
type Media struct {
	ID           string    `json:"id"`
	Kind         MediaKind `json:"kind"`
	OriginalName string    `json:"originalName"`
	FileName     string    `json:"fileName"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	UploadedBy   int       `json:"uploadedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}
