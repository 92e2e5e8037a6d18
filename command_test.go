package fxput_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/derektruong/fxput"
	"github.com/derektruong/fxput/protoc"
	"github.com/derektruong/fxput/protoc/memory"
	"github.com/derektruong/fxput/storage/local"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Command", func() {
	It("should validate upload command correctly", func(ctx context.Context) {
		cmd := uploadCommandFactory(nil)
		Expect(cmd.Validate(ctx)).To(Succeed())
	}, NodeTimeout(10*time.Second))

	It("should validate stream command correctly", func(ctx context.Context) {
		cmd := streamCommandFactory(nil)
		Expect(cmd.Validate(ctx)).To(Succeed())
	}, NodeTimeout(10*time.Second))

	DescribeTable(
		"Validate upload command matches with validation",
		func(ctx context.Context, cmd fxput.UploadCommand, expectedMsg string) {
			Expect(cmd.Validate(ctx)).To(MatchError(expectedMsg))
		},
		Entry(
			"should return error if source path is empty",
			uploadCommandFactory(func(cmd *fxput.UploadCommand) {
				cmd.SourcePath = ""
			}),
			"Key: 'UploadCommand.SourcePath' Error:Field validation for 'SourcePath' failed on the 'required' tag",
			NodeTimeout(10*time.Second),
		),
		Entry(
			"should return error if source is nil",
			uploadCommandFactory(func(cmd *fxput.UploadCommand) {
				cmd.Source = nil
			}),
			"Key: 'UploadCommand.Source' Error:Field validation for 'Source' failed on the 'required' tag",
			NodeTimeout(10*time.Second),
		),
		Entry(
			"should return error if destination path is relative",
			uploadCommandFactory(func(cmd *fxput.UploadCommand) {
				cmd.DestinationPath = strings.TrimPrefix(cmd.DestinationPath, "/")
			}),
			"Key: 'UploadCommand.DestinationPath' Error:Field validation for 'DestinationPath' failed on the 'startswith' tag",
			NodeTimeout(10*time.Second),
		),
		Entry(
			"should return error if pool is nil",
			uploadCommandFactory(func(cmd *fxput.UploadCommand) {
				cmd.Pool = nil
			}),
			"Key: 'UploadCommand.Pool' Error:Field validation for 'Pool' failed on the 'required' tag",
			NodeTimeout(10*time.Second),
		),
	)

	DescribeTable(
		"Validate stream command matches with validation",
		func(ctx context.Context, cmd fxput.StreamCommand, expectedMsg string) {
			Expect(cmd.Validate(ctx)).To(MatchError(expectedMsg))
		},
		Entry(
			"should return error if reader is nil",
			streamCommandFactory(func(cmd *fxput.StreamCommand) {
				cmd.Reader = nil
			}),
			"Key: 'StreamCommand.Reader' Error:Field validation for 'Reader' failed on the 'required' tag",
			NodeTimeout(10*time.Second),
		),
		Entry(
			"should return error if destination path is empty",
			streamCommandFactory(func(cmd *fxput.StreamCommand) {
				cmd.DestinationPath = ""
			}),
			"Key: 'StreamCommand.DestinationPath' Error:Field validation for 'DestinationPath' failed on the 'required' tag",
			NodeTimeout(10*time.Second),
		),
	)
})

func newTestPool() *protoc.Pool {
	pool, _ := protoc.NewConnectionPool(GinkgoLogr, memory.NewStore(), 1)
	return pool
}

func uploadCommandFactory(editFn func(*fxput.UploadCommand)) fxput.UploadCommand {
	source, _ := local.NewSource(GinkgoLogr)
	cmd := &fxput.UploadCommand{
		SourcePath:      fmt.Sprintf("%s/%s.%s", gofakeit.Word(), gofakeit.Word(), gofakeit.FileExtension()),
		Source:          source,
		DestinationPath: fmt.Sprintf("/%s/%s", gofakeit.Word(), gofakeit.Word()),
		Pool:            newTestPool(),
	}
	if editFn != nil {
		editFn(cmd)
	}
	return *cmd
}

func streamCommandFactory(editFn func(*fxput.StreamCommand)) fxput.StreamCommand {
	cmd := &fxput.StreamCommand{
		Reader:          strings.NewReader(gofakeit.SentenceSimple()),
		DestinationPath: fmt.Sprintf("/%s/%s.txt", gofakeit.Word(), gofakeit.Word()),
		Pool:            newTestPool(),
	}
	if editFn != nil {
		editFn(cmd)
	}
	return *cmd
}
