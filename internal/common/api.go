package common

// ErrorResponse is the body of every JSON reply that carries no payload.
// Error is null on success.
type ErrorResponse struct {
	Error *string `json:"error"`
}

// UploadResponse is returned by a successful POST to UploadPath.
type UploadResponse struct {
	Error         *string `json:"error"`
	ID            string  `json:"id"`
	DeleteKey     string  `json:"deleteKey"`
	TotalChunks   int     `json:"totalChunks"`
	ContentType   string  `json:"contentType"`
	FileExtension string  `json:"fileExtension"`
}
