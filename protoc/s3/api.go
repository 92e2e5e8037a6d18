package s3

import (
	"context"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

//go:generate mockgen -source=api.go -destination=../mock/mock_s3_api.go -package=mock_protoc

// S3API is the subset of the S3 client used by the store.
type S3API interface {
	HeadBucket(ctx context.Context, input *awss3.HeadBucketInput, opt ...func(*awss3.Options)) (*awss3.HeadBucketOutput, error)
	PutObject(ctx context.Context, input *awss3.PutObjectInput, opt ...func(*awss3.Options)) (*awss3.PutObjectOutput, error)
	GetObject(ctx context.Context, input *awss3.GetObjectInput, opt ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
	HeadObject(ctx context.Context, input *awss3.HeadObjectInput, opt ...func(*awss3.Options)) (*awss3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, input *awss3.CopyObjectInput, opt ...func(*awss3.Options)) (*awss3.CopyObjectOutput, error)
	ListObjectsV2(ctx context.Context, input *awss3.ListObjectsV2Input, opt ...func(*awss3.Options)) (*awss3.ListObjectsV2Output, error)
	CreateMultipartUpload(ctx context.Context, input *awss3.CreateMultipartUploadInput, opt ...func(*awss3.Options)) (*awss3.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, input *awss3.UploadPartInput, opt ...func(*awss3.Options)) (*awss3.UploadPartOutput, error)
	UploadPartCopy(ctx context.Context, input *awss3.UploadPartCopyInput, opt ...func(*awss3.Options)) (*awss3.UploadPartCopyOutput, error)
	CompleteMultipartUpload(ctx context.Context, input *awss3.CompleteMultipartUploadInput, opt ...func(*awss3.Options)) (*awss3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, input *awss3.AbortMultipartUploadInput, opt ...func(*awss3.Options)) (*awss3.AbortMultipartUploadOutput, error)
}

var _ S3API = (*awss3.Client)(nil)
