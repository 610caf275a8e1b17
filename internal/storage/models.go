package storage

// StoredObject describes an object written through an ExportService.
type StoredObject struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}
