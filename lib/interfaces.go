package colsync

import (
	"io"
)

// Client is the remote tree client: everything the sync engine needs from
// the collection store. The HTTP implementation lives in the remote package;
// tests use an in-memory fake.
type Client interface {
	// Fetch the raw listing of a collection.
	List(path string) (Listing, error)

	// Fetch the content of a resource.
	Read(path string) ([]byte, error)

	// Upload or overwrite a resource. Idempotent.
	Write(path string, data []byte) error

	// Create a collection if absent. Calling it on an existing collection
	// is a success, which is why callers never guard it with an existence
	// check.
	EnsureCollection(path string) error
}

// A destination is an offsite storage for snapshot archives
type Destination interface {
	// List archives present on the destination
	ListArchives() ([]Archive, error)

	// Remove an archive
	RemoveArchive(archive Archive) error

	// Store an archive whose data is `data`
	SendArchive(archive Archive, data io.Reader) error

	// Retrieve the content of a previously stored archive
	ReceiveArchive(archive Archive) (io.ReadCloser, error)
}
