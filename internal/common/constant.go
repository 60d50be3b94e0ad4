package common

// Response headers carrying object metadata on fetch.
const (
	HeaderObjectID   = "X-ID"
	HeaderChunks     = "X-CHUNKS"
	HeaderUploadedAt = "X-UPLOADED-AT"
	HeaderRequestID  = "X-Request-ID"
)

// Error codes returned in the "error" field of JSON responses.
const (
	CodeNotFound         = "not_found"
	CodeChunkError       = "chunk_error"
	CodeInvalidDeleteKey = "invalid_dkey"
	CodeUnauthorized     = "unauthorized"
	CodeEmptyBody        = "empty_body"
	CodeInvalidFileType  = "invalid_file_type"
	CodeIDTaken          = "id_taken"
	CodeInvalidID        = "invalid_id"
	CodeIDExhausted      = "id_space_exhausted"
	CodeTooLarge         = "body_too_large"
	CodeInternal         = "internal_server_error"
)

// UploadPath is the route clients POST blobs to.
const UploadPath = "/u"
