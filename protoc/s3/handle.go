package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/derektruong/fxput/protoc"
)

var errNegativeOffset = errors.New("s3: negative offset")

// writeHandle spools one contiguous dirty range and commits it on Close,
// or earlier when a write lands outside of the range.
type writeHandle struct {
	ctx  context.Context
	conn *s3Conn
	path string
	key  string

	mu         sync.Mutex
	spool      *os.File
	pos        int64
	start, end int64
	dirty      bool
	closed     bool
}

func (h *writeHandle) Write(p []byte) (n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	if len(p) == 0 {
		return
	}
	if h.dirty && (h.pos < h.start || h.pos > h.end) {
		if err = h.flush(); err != nil {
			return
		}
	}
	if !h.dirty {
		if h.spool == nil {
			if h.spool, err = os.CreateTemp(h.conn.tmpDir, "fxput-s3-spool-"); err != nil {
				return
			}
		} else if err = h.spool.Truncate(0); err != nil {
			return
		}
		h.start, h.end, h.dirty = h.pos, h.pos, true
	}
	n, err = h.spool.WriteAt(p, h.pos-h.start)
	h.pos += int64(n)
	h.end = max(h.end, h.pos)
	return
}

func (h *writeHandle) Seek(offset int64, whence int) (pos int64, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	var size int64
	if whence == io.SeekEnd {
		if size, err = h.conn.size(h.ctx, h.key); err != nil {
			return
		}
		if h.dirty {
			size = max(size, h.end)
		}
	}
	if h.pos, err = seek(h.pos, size, offset, whence); err != nil {
		return
	}
	return h.pos, nil
}

func (h *writeHandle) Close() (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	if h.dirty {
		err = h.flush()
	}
	if h.spool != nil {
		cleanUpTempFile(h.spool)
		h.spool = nil
	}
	if err != nil {
		return fmt.Errorf("commit %s: %w", h.path, err)
	}
	return
}

// flush commits the dirty range into the remote object.
func (h *writeHandle) flush() (err error) {
	unlock := h.conn.locks.lock(h.key)
	defer unlock()
	h.dirty = false
	if h.end == h.start {
		return
	}

	var size int64
	if size, err = h.conn.size(h.ctx, h.key); err != nil {
		return
	}
	segments := composeSegments(size, h.start, h.end)
	total := max(size, h.end)
	h.conn.logger.V(1).Info("committing range",
		"path", h.path, "start", h.start, "end", h.end, "objectSize", size)

	switch {
	case len(segments) == 1:
		_, err = h.conn.api.PutObject(h.ctx, &awss3.PutObjectInput{
			Bucket: aws.String(h.conn.bucket),
			Key:    aws.String(h.key),
			Body:   io.NewSectionReader(h.spool, 0, h.end-h.start),
		})
		return
	case total <= h.conn.minPartSize:
		var file *os.File
		if file, err = h.materialize(segments); err != nil {
			return
		}
		defer cleanUpTempFile(file)
		_, err = h.conn.api.PutObject(h.ctx, &awss3.PutObjectInput{
			Bucket: aws.String(h.conn.bucket),
			Key:    aws.String(h.key),
			Body:   file,
		})
		return
	default:
		return h.compose(planParts(
			segments,
			h.conn.minPartSize,
			h.conn.preferredPartSize,
			h.conn.maxPartSize,
		))
	}
}

func (h *writeHandle) compose(parts []part) (err error) {
	var upload *awss3.CreateMultipartUploadOutput
	if upload, err = h.conn.api.CreateMultipartUpload(h.ctx, &awss3.CreateMultipartUploadInput{
		Bucket: aws.String(h.conn.bucket),
		Key:    aws.String(h.key),
	}); err != nil {
		return
	}
	defer func() {
		if err == nil {
			return
		}
		if _, abortErr := h.conn.api.AbortMultipartUpload(h.ctx, &awss3.AbortMultipartUploadInput{
			Bucket:   aws.String(h.conn.bucket),
			Key:      aws.String(h.key),
			UploadId: upload.UploadId,
		}); abortErr != nil {
			err = newMultiError(err, abortErr)
		}
	}()

	completed := make([]types.CompletedPart, 0, len(parts))
	for i, p := range parts {
		number := aws.Int32(int32(i + 1))
		var etag *string
		if p.copy {
			seg := p.pieces[0]
			var res *awss3.UploadPartCopyOutput
			if res, err = h.conn.api.UploadPartCopy(h.ctx, &awss3.UploadPartCopyInput{
				Bucket:          aws.String(h.conn.bucket),
				Key:             aws.String(h.key),
				UploadId:        upload.UploadId,
				PartNumber:      number,
				CopySource:      aws.String(h.conn.copySource(h.key)),
				CopySourceRange: aws.String(byteRange(seg.offset, seg.size)),
			}); err != nil {
				return
			}
			if res.CopyPartResult != nil {
				etag = res.CopyPartResult.ETag
			}
		} else {
			if etag, err = h.uploadPart(upload.UploadId, number, p.pieces); err != nil {
				return
			}
		}
		completed = append(completed, types.CompletedPart{ETag: etag, PartNumber: number})
	}

	_, err = h.conn.api.CompleteMultipartUpload(h.ctx, &awss3.CompleteMultipartUploadInput{
		Bucket:          aws.String(h.conn.bucket),
		Key:             aws.String(h.key),
		UploadId:        upload.UploadId,
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	return
}

func (h *writeHandle) uploadPart(uploadID *string, number *int32, pieces []segment) (etag *string, err error) {
	var file *os.File
	if file, err = h.materialize(pieces); err != nil {
		return
	}
	defer cleanUpTempFile(file)
	var res *awss3.UploadPartOutput
	if res, err = h.conn.api.UploadPart(h.ctx, &awss3.UploadPartInput{
		Bucket:     aws.String(h.conn.bucket),
		Key:        aws.String(h.key),
		UploadId:   uploadID,
		PartNumber: number,
		Body:       file,
	}); err != nil {
		return
	}
	return res.ETag, nil
}

// materialize writes the pieces one after the other into a temporary file.
func (h *writeHandle) materialize(pieces []segment) (file *os.File, err error) {
	if file, err = os.CreateTemp(h.conn.tmpDir, "fxput-s3-part-"); err != nil {
		return
	}
	defer func() {
		if err != nil {
			cleanUpTempFile(file)
			file = nil
		}
	}()
	for _, seg := range pieces {
		switch seg.kind {
		case segmentCopy:
			var obj *awss3.GetObjectOutput
			if obj, err = h.conn.api.GetObject(h.ctx, &awss3.GetObjectInput{
				Bucket: aws.String(h.conn.bucket),
				Key:    aws.String(h.key),
				Range:  aws.String(byteRange(seg.offset, seg.size)),
			}); err != nil {
				return
			}
			_, err = io.CopyN(file, obj.Body, seg.size)
			_ = obj.Body.Close()
		case segmentZero:
			_, err = io.CopyN(file, zeroReader{}, seg.size)
		case segmentData:
			_, err = io.Copy(file, io.NewSectionReader(h.spool, seg.offset, seg.size))
		}
		if err != nil {
			return
		}
	}
	_, err = file.Seek(0, io.SeekStart)
	return
}

type readHandle struct {
	ctx  context.Context
	conn *s3Conn
	path string
	key  string
	size int64

	mu     sync.Mutex
	pos    int64
	body   io.ReadCloser
	closed bool
}

func (h *readHandle) Read(p []byte) (n int, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	if h.pos >= h.size {
		return 0, io.EOF
	}
	if h.body == nil {
		var obj *awss3.GetObjectOutput
		if obj, err = h.conn.api.GetObject(h.ctx, &awss3.GetObjectInput{
			Bucket: aws.String(h.conn.bucket),
			Key:    aws.String(h.key),
			Range:  aws.String(fmt.Sprintf("bytes=%d-", h.pos)),
		}); err != nil {
			return
		}
		h.body = obj.Body
	}
	n, err = h.body.Read(p)
	h.pos += int64(n)
	if errors.Is(err, io.EOF) {
		h.resetBody()
		switch {
		case h.pos >= h.size:
		case n == 0:
			err = io.ErrUnexpectedEOF
		default:
			err = nil
		}
	}
	return
}

func (h *readHandle) Seek(offset int64, whence int) (pos int64, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return 0, protoc.ErrHandleClosed
	}
	if pos, err = seek(h.pos, h.size, offset, whence); err != nil {
		return
	}
	if pos != h.pos {
		h.resetBody()
		h.pos = pos
	}
	return
}

func (h *readHandle) Close() (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.resetBody()
	return
}

func (h *readHandle) resetBody() {
	if h.body != nil {
		_ = h.body.Close()
		h.body = nil
	}
}

func seek(current, size, offset int64, whence int) (pos int64, err error) {
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = current + offset
	case io.SeekEnd:
		pos = size + offset
	default:
		return current, errors.New("s3: invalid whence")
	}
	if pos < 0 {
		return current, errNegativeOffset
	}
	return
}

func byteRange(offset, size int64) string {
	return fmt.Sprintf("bytes=%d-%d", offset, offset+size-1)
}

func cleanUpTempFile(file *os.File) {
	_ = file.Close()
	_ = os.Remove(file.Name())
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}
