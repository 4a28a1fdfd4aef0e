package model

// UploadedImage describes a stored cover image. Files are not rows; a note
// only refers to one through its Cover URL.
type UploadedImage struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Message  string `json:"message"`
}
