// Package destinations implements offsite storages for snapshot archives.
// A destination is picked from an option string like
// "type=fs,path=/mnt/backups" or "type=object-storage,url=https://...".
package destinations

import (
	colsync "github.com/colsync/colsync/lib"

	"fmt"
)

func New(options *colsync.Options) (colsync.Destination, error) {
	switch options.String["Type"] {
	case "fs":
		return newFSDestination(options)
	case "ftp":
		return newFTPDestination(options)
	case "object-storage":
		return newObjectStorageDestination(options)
	default:
		return nil, fmt.Errorf("invalid destination type %v", options.String["Type"])
	}
}
