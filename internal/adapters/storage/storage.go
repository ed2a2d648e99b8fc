package storage

import (
	"context"
	"io"
)

// ProofUploader stores proof-of-payment images and returns their public URL.
// Upload happens before the kas record is created; a failed upload must abort
// the submission.
type ProofUploader interface {
	UploadProof(ctx context.Context, file io.Reader, filename string) (string, error)
}
