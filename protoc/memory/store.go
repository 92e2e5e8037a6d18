// Package memory provides an in-process remote store. It keeps the whole
// logical namespace in memory, supports fault injection on writes and
// counts the sessions and handles opened against it.
package memory

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/derektruong/fxput/internal/lpath"
	"github.com/derektruong/fxput/protoc"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// WriteFault is consulted before every write. A non-nil error fails the
// write without touching the stored bytes.
type WriteFault func(path string, offset int64, size int) error

type object struct {
	data    []byte
	modTime time.Time
}

// Store is the in-memory namespace. Its zero value is not usable, create it
// with NewStore.
type Store struct {
	id string

	mu          sync.Mutex
	objects     map[string]*object
	collections map[string]time.Time
	writeFault  WriteFault

	// counters
	dials       int
	openConns   int
	peakConns   int
	openHandles int
	peakHandles int
}

var _ protoc.Client = (*Store)(nil)

// NewStore creates an empty store holding only the root collection.
func NewStore() (s *Store) {
	return &Store{
		id:          uuid.NewString(),
		objects:     make(map[string]*object),
		collections: map[string]time.Time{lpath.Separator: time.Now()},
	}
}

func (s *Store) Dial(ctx context.Context, logger logr.Logger) (conn protoc.Conn, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dials++
	s.openConns++
	s.peakConns = max(s.peakConns, s.openConns)
	id := uuid.NewString()
	return &memoryConn{
		id:     id,
		store:  s,
		logger: logger.WithName("memory.conn").WithValues("connectionID", id),
	}, nil
}

func (s *Store) GetConnectionID() string {
	return s.id
}

func (s *Store) GetCredential() any {
	return s
}

// InjectWriteFault installs fault, nil removes it.
func (s *Store) InjectWriteFault(fault WriteFault) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeFault = fault
}

// Object returns a copy of the content of the data object at path.
func (s *Store) Object(path string) (data []byte, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var obj *object
	if obj, ok = s.objects[path]; !ok {
		return
	}
	return append([]byte(nil), obj.data...), true
}

// Collections returns the sorted logical paths of every collection.
func (s *Store) Collections() (paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p := range s.collections {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return
}

// DataObjects returns the sorted logical paths of every data object.
func (s *Store) DataObjects() (paths []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for p := range s.objects {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return
}

// Stats reports the number of sessions dialed, the highest number of
// sessions open at once and the highest number of handles open at once.
func (s *Store) Stats() (dials, peakConns, peakHandles int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dials, s.peakConns, s.peakHandles
}

// OpenHandles returns the number of handles not closed yet.
func (s *Store) OpenHandles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openHandles
}

func (s *Store) statLocked(path string) (status protoc.ObjectStatus, err error) {
	if modTime, ok := s.collections[path]; ok {
		return protoc.ObjectStatus{Path: path, Kind: protoc.KindCollection, ModTime: modTime}, nil
	}
	if obj, ok := s.objects[path]; ok {
		return protoc.ObjectStatus{
			Path:    path,
			Kind:    protoc.KindDataObject,
			Size:    int64(len(obj.data)),
			ModTime: obj.modTime,
		}, nil
	}
	return status, &os.PathError{Op: "stat", Path: path, Err: protoc.ErrNotFound}
}

func (s *Store) writeAt(path string, offset int64, p []byte) (n int, err error) {
	s.mu.Lock()
	fault := s.writeFault
	s.mu.Unlock()
	if fault != nil {
		if err = fault(path, offset, len(p)); err != nil {
			return 0, fmt.Errorf("write %s at %d: %w", path, offset, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	if !ok {
		return 0, &os.PathError{Op: "write", Path: path, Err: protoc.ErrNotFound}
	}
	if end := offset + int64(len(p)); end > int64(len(obj.data)) {
		grown := make([]byte, end)
		copy(grown, obj.data)
		obj.data = grown
	}
	n = copy(obj.data[offset:], p)
	obj.modTime = time.Now()
	return
}

func (s *Store) readAt(path string, offset int64, p []byte) (n int, size int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[path]
	if !ok {
		return 0, 0, &os.PathError{Op: "read", Path: path, Err: protoc.ErrNotFound}
	}
	size = int64(len(obj.data))
	if offset >= size {
		return
	}
	n = copy(p, obj.data[offset:])
	return
}

func (s *Store) size(path string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj, ok := s.objects[path]; ok {
		return int64(len(obj.data))
	}
	return 0
}

func (s *Store) handleOpened() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openHandles++
	s.peakHandles = max(s.peakHandles, s.openHandles)
}

func (s *Store) handleClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openHandles--
}

func (s *Store) connClosed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openConns--
}
