package s3

import (
	"bytes"
	"context"
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/derektruong/fxput/internal/lpath"
	"github.com/derektruong/fxput/protoc"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

const (
	// modTimeMeta holds the modification time in Unix nanoseconds, S3
	// lowercases user metadata keys
	modTimeMeta = "mtime"

	collectionSuffix = "/"
)

type s3Conn struct {
	id     string
	api    S3API
	bucket string
	tmpDir string
	locks  *keyLocker
	logger logr.Logger
	closed atomic.Bool

	// part sizes, see planParts
	minPartSize       int64
	preferredPartSize int64
	maxPartSize       int64
}

func newConn(logger logr.Logger, api S3API, bucket, tmpDir string, locks *keyLocker) *s3Conn {
	id := uuid.NewString()
	return &s3Conn{
		id:                id,
		api:               api,
		bucket:            bucket,
		tmpDir:            tmpDir,
		locks:             locks,
		logger:            logger.WithName("s3.conn").WithValues("connectionID", id, "bucket", bucket),
		minPartSize:       5 * 1024 * 1024,        // 5MB
		preferredPartSize: 50 * 1024 * 1024,       // 50MB
		maxPartSize:       5 * 1024 * 1024 * 1024, // 5GB
	}
}

func (c *s3Conn) ID() string {
	return c.id
}

func (c *s3Conn) Stat(ctx context.Context, path string) (status protoc.ObjectStatus, err error) {
	var logical, key string
	if logical, key, err = c.resolve(path); err != nil {
		return
	}
	status.Path = logical
	if key == "" {
		status.Kind = protoc.KindCollection
		return
	}

	var head *awss3.HeadObjectOutput
	if head, err = c.head(ctx, key); err == nil {
		status.Kind = protoc.KindDataObject
		status.Size = aws.ToInt64(head.ContentLength)
		status.ModTime = modTimeOf(head)
		return
	}
	if !isNotFound(err) {
		return
	}

	if head, err = c.head(ctx, key+collectionSuffix); err == nil {
		status.Kind = protoc.KindCollection
		status.ModTime = modTimeOf(head)
		return
	}
	if !isNotFound(err) {
		return
	}

	var list *awss3.ListObjectsV2Output
	if list, err = c.api.ListObjectsV2(ctx, &awss3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		Prefix:  aws.String(key + collectionSuffix),
		MaxKeys: aws.Int32(1),
	}); err != nil {
		return
	}
	if aws.ToInt32(list.KeyCount) > 0 || len(list.Contents) > 0 {
		status.Kind = protoc.KindCollection
		return
	}
	return status, &os.PathError{Op: "stat", Path: logical, Err: protoc.ErrNotFound}
}

func (c *s3Conn) CreateCollectionAll(ctx context.Context, path string) (err error) {
	var logical string
	if logical, _, err = c.resolve(path); err != nil {
		return
	}
	for _, ancestor := range lpath.Ancestors(logical) {
		var status protoc.ObjectStatus
		status, err = c.Stat(ctx, ancestor)
		switch {
		case errors.Is(err, protoc.ErrNotFound):
			if _, err = c.api.PutObject(ctx, &awss3.PutObjectInput{
				Bucket: aws.String(c.bucket),
				Key:    aws.String(toKey(ancestor) + collectionSuffix),
				Body:   bytes.NewReader(nil),
			}); err != nil {
				return
			}
		case err != nil:
			return
		case status.Kind != protoc.KindCollection:
			return &os.PathError{Op: "mkdir", Path: ancestor, Err: protoc.ErrNotCollection}
		}
	}
	c.logger.V(1).Info("created collection", "path", logical)
	return
}

func (c *s3Conn) OpenForWrite(
	ctx context.Context,
	path string,
	flag protoc.OpenFlag,
) (handle protoc.WriteHandle, err error) {
	var logical, key string
	if logical, key, err = c.resolve(path); err != nil {
		return
	}
	var parent protoc.ObjectStatus
	if parent, err = c.Stat(ctx, lpath.Parent(logical)); err != nil {
		return
	}
	if parent.Kind != protoc.KindCollection {
		return nil, &os.PathError{Op: "open", Path: parent.Path, Err: protoc.ErrNotCollection}
	}

	var status protoc.ObjectStatus
	status, err = c.Stat(ctx, logical)
	switch {
	case err == nil && status.Kind == protoc.KindCollection:
		return nil, &os.PathError{Op: "open", Path: logical, Err: protoc.ErrNotDataObject}
	case err == nil && flag.Has(protoc.OpenTruncate),
		errors.Is(err, protoc.ErrNotFound) && flag.Has(protoc.OpenCreate):
		if err = c.putEmpty(ctx, key); err != nil {
			return
		}
	case err != nil:
		return
	}
	return &writeHandle{ctx: context.WithoutCancel(ctx), conn: c, path: logical, key: key}, nil
}

func (c *s3Conn) OpenForRead(ctx context.Context, path string) (handle protoc.ReadHandle, err error) {
	var status protoc.ObjectStatus
	if status, err = c.Stat(ctx, path); err != nil {
		return
	}
	if status.Kind != protoc.KindDataObject {
		return nil, &os.PathError{Op: "open", Path: status.Path, Err: protoc.ErrNotDataObject}
	}
	return &readHandle{
		ctx:  context.WithoutCancel(ctx),
		conn: c,
		path: status.Path,
		key:  toKey(status.Path),
		size: status.Size,
	}, nil
}

func (c *s3Conn) SetModTime(ctx context.Context, path string, modTime time.Time) (err error) {
	var status protoc.ObjectStatus
	if status, err = c.Stat(ctx, path); err != nil {
		return
	}
	key := toKey(status.Path)
	if key == "" {
		return
	}
	if status.Kind == protoc.KindCollection {
		key += collectionSuffix
	}
	unlock := c.locks.lock(key)
	defer unlock()

	metadata := map[string]string{modTimeMeta: strconv.FormatInt(modTime.UnixNano(), 10)}
	if _, err = c.head(ctx, key); isNotFound(err) {
		// implicit collection, materialize its marker
		_, err = c.api.PutObject(ctx, &awss3.PutObjectInput{
			Bucket:   aws.String(c.bucket),
			Key:      aws.String(key),
			Body:     bytes.NewReader(nil),
			Metadata: metadata,
		})
		return
	} else if err != nil {
		return
	}
	_, err = c.api.CopyObject(ctx, &awss3.CopyObjectInput{
		Bucket:            aws.String(c.bucket),
		Key:               aws.String(key),
		CopySource:        aws.String(c.copySource(key)),
		Metadata:          metadata,
		MetadataDirective: types.MetadataDirectiveReplace,
	})
	return
}

func (c *s3Conn) Close() (err error) {
	if c.closed.CompareAndSwap(false, true) {
		c.logger.V(1).Info("closed s3 connection")
	}
	return
}

// resolve cleans the logical path and maps it onto an object key.
func (c *s3Conn) resolve(path string) (logical, key string, err error) {
	if c.closed.Load() {
		err = protoc.ErrConnectionClosed
		return
	}
	if logical, err = lpath.Clean(path); err != nil {
		err = &os.PathError{Op: "resolve", Path: path, Err: protoc.ErrInvalidPath}
		return
	}
	return logical, toKey(logical), nil
}

func (c *s3Conn) head(ctx context.Context, key string) (*awss3.HeadObjectOutput, error) {
	return c.api.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
}

// size returns the current size of the object, zero if it does not exist.
func (c *s3Conn) size(ctx context.Context, key string) (size int64, err error) {
	var head *awss3.HeadObjectOutput
	if head, err = c.head(ctx, key); err != nil {
		if isNotFound(err) {
			return 0, nil
		}
		return
	}
	return aws.ToInt64(head.ContentLength), nil
}

func (c *s3Conn) putEmpty(ctx context.Context, key string) (err error) {
	unlock := c.locks.lock(key)
	defer unlock()
	_, err = c.api.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	return
}

func (c *s3Conn) copySource(key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.bucket + "/" + strings.Join(segments, "/")
}

func toKey(logical string) string {
	return strings.TrimPrefix(logical, lpath.Separator)
}

func modTimeOf(head *awss3.HeadObjectOutput) time.Time {
	if raw, ok := head.Metadata[modTimeMeta]; ok {
		if nanos, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return time.Unix(0, nanos)
		}
	}
	return aws.ToTime(head.LastModified)
}
