package model

import "context"

// Storage is the external blob store media files land in.
//
// UploadFile consumes a local file: the file is removed after the upload
// attempt whether or not it succeeded.
type Storage interface {
	UploadFile(ctx context.Context, localPath string) (url string, err error)
	DeleteByURL(ctx context.Context, url string) error
}
