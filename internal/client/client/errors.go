package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/blobhost/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// codeErrors maps server error codes back to sentinels.
var codeErrors = map[string]error{
	common.CodeUnauthorized:     ErrUnauthorized,
	common.CodeNotFound:         common.ErrorNotFound,
	common.CodeChunkError:       common.ErrorChunkConsistency,
	common.CodeInvalidDeleteKey: common.ErrorUnauthorized,
	common.CodeEmptyBody:        common.ErrorEmptyBlob,
	common.CodeInvalidFileType:  common.ErrorUnclassifiableContent,
	common.CodeIDTaken:          common.ErrorIdentifierTaken,
	common.CodeInvalidID:        common.ErrorInvalidIdentifier,
	common.CodeIDExhausted:      common.ErrorIDSpaceExhausted,
}

// APIError is a non-success reply from the server.
type APIError struct {
	Status int
	Code   string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server replied %d", e.Status)
	}
	return fmt.Sprintf("server replied %d: %s", e.Status, e.Code)
}

func (e *APIError) Unwrap() error {
	return codeErrors[e.Code]
}
