package destinations

import (
	colsync "github.com/colsync/colsync/lib"

	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

var osLog = logrus.WithFields(logrus.Fields{
	"destination": "object-storage",
})

type objectStorageDestination struct {
	options  *colsync.Options
	prefix   string
	bucket   string
	client   *minio.Client
	partSize uint64
}

func newObjectStorageDestination(options *colsync.Options) (colsync.Destination, error) {
	u, err := url.Parse(options.String["URL"])
	if err != nil {
		osLog.Warnf("cannot parse url: %v", err)
	}

	endpoint := u.Host
	secure := !(u.Scheme == "http")
	accessKeyID := u.User.Username()
	secretAccessKey, _ := u.User.Password()
	bucket := u.Path
	partSize := uint64(0)

	if options.String["Secure"] != "" {
		s, err := strconv.ParseBool(options.String["Secure"])
		if err != nil {
			osLog.Warnf("cannot parse secure option: %v", err)
			secure = true
		} else {
			secure = s
		}
	}

	prefix := strings.Trim(options.String["Prefix"], "/") + "/"
	if prefix == "/" {
		prefix = ""
	}

	if options.String["Endpoint"] != "" {
		endpoint = options.String["Endpoint"]
	}

	if options.String["AccessKeyID"] != "" {
		accessKeyID = options.String["AccessKeyID"]
	}

	if options.String["SecretAccessKey"] != "" {
		secretAccessKey = options.String["SecretAccessKey"]
	}

	if options.String["Bucket"] != "" {
		bucket = options.String["Bucket"]
	}
	bucket = strings.Trim(bucket, "/")

	if options.String["PartSize"] != "" {
		ps, err := strconv.ParseUint(options.String["PartSize"], 10, 64)
		if err != nil {
			osLog.Warnf("cannot parse PartSize option: %v", err)
		} else {
			partSize = ps * 1024 * 1024
		}
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: secure,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create object storage instance: %v", err)
	}

	return &objectStorageDestination{options: options, client: client, prefix: prefix, bucket: bucket, partSize: partSize}, nil
}

func (d *objectStorageDestination) ListArchives() ([]colsync.Archive, error) {
	var res []colsync.Archive

	ctx, cancel := context.WithCancel(context.Background())
	objectsCh := d.client.ListObjects(ctx, d.bucket, minio.ListObjectsOptions{
		Prefix:    d.prefix,
		Recursive: false,
	})
	defer cancel()

	for obj := range objectsCh {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list archives on object storage: %v", obj.Err)
		}

		if strings.HasPrefix(obj.Key, ".") || strings.HasPrefix(obj.Key, "_") || strings.HasSuffix(obj.Key, "/") {
			continue
		}

		archive, err := colsync.ParseArchiveFilename(path.Base(obj.Key), true)
		if err != nil {
			osLog.Warnf("invalid archive file %s: %v", obj.Key, err)
			continue
		}

		res = append(res, archive)
	}

	return res, nil
}

func (d *objectStorageDestination) RemoveArchive(archive colsync.Archive) error {
	err := d.client.RemoveObject(context.Background(), d.bucket, d.prefix+archive.Filename(), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove archive from object storage: %v", err)
	}
	return nil
}

func (d *objectStorageDestination) SendArchive(archive colsync.Archive, data io.Reader) error {
	osLog.Printf("writing archive to %s", d.prefix+archive.Filename())
	_, err := d.client.PutObject(context.Background(), d.bucket, d.prefix+archive.Filename(), data, -1, minio.PutObjectOptions{PartSize: d.partSize})
	if err != nil {
		d.client.RemoveObject(context.Background(), d.bucket, d.prefix+archive.Filename(), minio.RemoveObjectOptions{}) //nolint:errcheck
		return fmt.Errorf("failed to write archive to object storage: %v", err)
	}
	return nil
}

func (d *objectStorageDestination) ReceiveArchive(archive colsync.Archive) (io.ReadCloser, error) {
	rc, err := d.client.GetObject(context.Background(), d.bucket, d.prefix+archive.Filename(), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read archive from object storage: %v", err)
	}
	return rc, nil
}
