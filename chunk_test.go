package fxput

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync/atomic"
	"time"

	"github.com/derektruong/fxput/protoc"
	"github.com/derektruong/fxput/protoc/memory"
	mock_protoc "github.com/derektruong/fxput/protoc/mock"
	mock_storage "github.com/derektruong/fxput/storage/mock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("chunk copy", func() {
	var (
		mockCtrl   *gomock.Controller
		mockHandle *mock_protoc.MockWriteHandle
		mockFile   *mock_protoc.MockReadHandle
		content    []byte
		buf        []byte
		counter    *atomic.Int64
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		DeferCleanup(mockCtrl.Finish)
		mockHandle = mock_protoc.NewMockWriteHandle(mockCtrl)
		mockFile = mock_protoc.NewMockReadHandle(mockCtrl)
		content = []byte("0123456789abcdefghij")
		buf = make([]byte, 4)
		counter = new(atomic.Int64)
	})

	Describe("copyRange", func() {
		It("should copy the range at the same offset in buffer-sized writes", func(ctx context.Context) {
			store := memory.NewStore()
			conn, err := store.Dial(ctx, GinkgoLogr)
			Expect(err).ToNot(HaveOccurred())
			DeferCleanup(conn.Close)
			handle, err := conn.OpenForWrite(ctx, "/chunk", protoc.OpenCreate)
			Expect(err).ToNot(HaveOccurred())

			written, err := copyRange(handle, bytes.NewReader(content), 5, 10, buf, counter)
			Expect(err).ToNot(HaveOccurred())
			Expect(handle.Close()).To(Succeed())
			Expect(written).To(Equal(int64(10)))
			Expect(counter.Load()).To(Equal(int64(10)))

			data, ok := store.Object("/chunk")
			Expect(ok).To(BeTrue())
			Expect(data).To(HaveLen(15))
			Expect(data[:5]).To(Equal(make([]byte, 5)))
			Expect(data[5:]).To(Equal(content[5:15]))
		}, NodeTimeout(10*time.Second))

		It("should classify a local seek failure", func() {
			mockFile.EXPECT().Seek(int64(5), io.SeekStart).Return(int64(0), errors.New("bad descriptor"))

			_, err := copyRange(mockHandle, mockFile, 5, 10, buf, counter)
			Expect(err).To(MatchError(ErrSeekFailure))
			Expect(err).To(MatchError(ContainSubstring("local offset 5")))
		})

		It("should classify a remote seek failure", func() {
			mockFile.EXPECT().Seek(int64(5), io.SeekStart).Return(int64(5), nil)
			mockHandle.EXPECT().Seek(int64(5), io.SeekStart).Return(int64(0), protoc.ErrHandleClosed)

			_, err := copyRange(mockHandle, mockFile, 5, 10, buf, counter)
			Expect(err).To(MatchError(ErrSeekFailure))
			Expect(err).To(MatchError(protoc.ErrHandleClosed))
		})

		It("should report a short read when the file ends early", func() {
			mockHandle.EXPECT().Seek(int64(15), io.SeekStart).Return(int64(15), nil)
			mockHandle.EXPECT().Write(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
				return len(p), nil
			}).AnyTimes()

			written, err := copyRange(mockHandle, bytes.NewReader(content), 15, 10, buf, counter)
			Expect(err).To(MatchError(ErrShortRead))
			Expect(written).To(Equal(int64(5)))
		})

		It("should classify a local read failure", func() {
			mockFile.EXPECT().Seek(int64(0), io.SeekStart).Return(int64(0), nil)
			mockHandle.EXPECT().Seek(int64(0), io.SeekStart).Return(int64(0), nil)
			mockFile.EXPECT().Read(gomock.Any()).Return(0, errors.New("input/output error"))

			_, err := copyRange(mockHandle, mockFile, 0, 10, buf, counter)
			Expect(err).To(MatchError(ErrIOUnavailable))
		})

		It("should classify a remote write failure", func() {
			mockHandle.EXPECT().Seek(int64(0), io.SeekStart).Return(int64(0), nil)
			mockHandle.EXPECT().Write(gomock.Any()).Return(0, errors.New("quota exceeded"))

			_, err := copyRange(mockHandle, bytes.NewReader(content), 0, 10, buf, counter)
			Expect(err).To(MatchError(ErrRemoteWriteFailure))
			Expect(err).To(MatchError(ContainSubstring("quota exceeded")))
		})

		It("should treat a short write as a remote write failure", func() {
			mockHandle.EXPECT().Seek(int64(0), io.SeekStart).Return(int64(0), nil)
			mockHandle.EXPECT().Write(gomock.Any()).Return(2, nil)

			written, err := copyRange(mockHandle, bytes.NewReader(content), 0, 10, buf, counter)
			Expect(err).To(MatchError(ErrRemoteWriteFailure))
			Expect(err).To(MatchError(io.ErrShortWrite))
			Expect(written).To(Equal(int64(2)))
		})
	})

	Describe("copyStream", func() {
		It("should copy the whole stream", func() {
			var dst bytes.Buffer
			written, err := copyStream(&dst, bytes.NewReader(content), buf, counter)
			Expect(err).ToNot(HaveOccurred())
			Expect(written).To(Equal(int64(len(content))))
			Expect(dst.Bytes()).To(Equal(content))
			Expect(counter.Load()).To(Equal(int64(len(content))))
		})

		It("should classify read and write failures", func() {
			mockFile.EXPECT().Read(gomock.Any()).Return(0, errors.New("broken pipe"))
			_, err := copyStream(io.Discard, mockFile, buf, counter)
			Expect(err).To(MatchError(ErrIOUnavailable))

			mockHandle.EXPECT().Write(gomock.Any()).Return(0, errors.New("denied"))
			_, err = copyStream(mockHandle, bytes.NewReader(content), buf, counter)
			Expect(err).To(MatchError(ErrRemoteWriteFailure))
		})
	})

	Describe("putRange", func() {
		var (
			mockConn   *mock_protoc.MockConn
			mockSource *mock_storage.MockSource
			spec       ChunkSpec
		)

		BeforeEach(func() {
			mockConn = mock_protoc.NewMockConn(mockCtrl)
			mockSource = mock_storage.NewMockSource(mockCtrl)
			spec = ChunkSpec{Source: "/data/f", Destination: "/zone/f", Offset: 0, Length: 4}
		})

		It("should classify a source open failure", func(ctx context.Context) {
			mockSource.EXPECT().Open(gomock.Any(), spec.Source).Return(nil, errors.New("permission denied"))

			err := putRange(ctx, mockConn, mockSource, spec, protoc.OpenCreate, buf, counter)
			Expect(err).To(MatchError(ErrIOUnavailable))
		}, NodeTimeout(10*time.Second))

		It("should classify a remote open failure and close the file", func(ctx context.Context) {
			gomock.InOrder(
				mockSource.EXPECT().Open(gomock.Any(), spec.Source).Return(mockFile, nil),
				mockConn.EXPECT().OpenForWrite(gomock.Any(), spec.Destination, protoc.OpenCreate).
					Return(nil, protoc.ErrNotFound),
				mockFile.EXPECT().Close().Return(nil),
			)

			err := putRange(ctx, mockConn, mockSource, spec, protoc.OpenCreate, buf, counter)
			Expect(err).To(MatchError(ErrRemoteWriteFailure))
			Expect(err).To(MatchError(protoc.ErrNotFound))
		}, NodeTimeout(10*time.Second))

		It("should classify a failed commit on close", func(ctx context.Context) {
			mockSource.EXPECT().Open(gomock.Any(), spec.Source).Return(mockFile, nil)
			mockConn.EXPECT().OpenForWrite(gomock.Any(), spec.Destination, protoc.OpenCreate).Return(mockHandle, nil)
			mockFile.EXPECT().Seek(int64(0), io.SeekStart).Return(int64(0), nil)
			mockHandle.EXPECT().Seek(int64(0), io.SeekStart).Return(int64(0), nil)
			mockFile.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
				return copy(p, "abcd"), nil
			})
			mockHandle.EXPECT().Write([]byte("abcd")).Return(4, nil)
			mockHandle.EXPECT().Close().Return(errors.New("EntityTooSmall"))
			mockFile.EXPECT().Close().Return(nil)

			err := putRange(ctx, mockConn, mockSource, spec, protoc.OpenCreate, buf, counter)
			Expect(err).To(MatchError(ErrRemoteWriteFailure))
			Expect(counter.Load()).To(Equal(int64(4)))
		}, NodeTimeout(10*time.Second))

		It("should close the remote handle when the copy fails", func(ctx context.Context) {
			mockSource.EXPECT().Open(gomock.Any(), spec.Source).Return(mockFile, nil)
			mockConn.EXPECT().OpenForWrite(gomock.Any(), spec.Destination, protoc.OpenCreate).Return(mockHandle, nil)
			mockFile.EXPECT().Seek(int64(0), io.SeekStart).Return(int64(0), errors.New("bad seek"))
			mockHandle.EXPECT().Close().Return(nil)
			mockFile.EXPECT().Close().Return(nil)

			err := putRange(ctx, mockConn, mockSource, spec, protoc.OpenCreate, buf, counter)
			Expect(err).To(MatchError(ErrSeekFailure))
		}, NodeTimeout(10*time.Second))
	})
})
