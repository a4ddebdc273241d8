package filestorage

import "mime/multipart"

// UploadStorage stages uploaded files on disk for the duration of one request.
type UploadStorage interface {
	// Save copies the upload to a uniquely named file and returns its path.
	Save(fileHeader *multipart.FileHeader) (string, error)
	// Remove deletes a staged file. Removing a missing file is not an error.
	Remove(path string) error
}
