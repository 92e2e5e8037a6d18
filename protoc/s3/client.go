// Package s3 provides a remote store backed by an AWS S3 bucket or a
// compatible server such as MinIO.
//
// The logical path "/a/b" maps onto the object key "a/b". Collections are
// kept as empty marker objects whose key ends with a slash; a prefix shared
// by existing keys is also treated as a collection.
//
// # Positioned writes
//
// S3 objects are immutable, so a write handle spools the written range to
// a temporary file and commits it when the handle is closed. A commit
// composes a new object from the current one: the untouched prefix and
// suffix are copied server side with UploadPartCopy and the new range is
// uploaded with UploadPart. Writing past the current end fills the gap
// with zero bytes. Commits on the same key are serialized among every
// connection dialed from the same client settings, which makes disjoint
// ranges written by concurrent handles all visible once every handle is
// closed.
//
// The user accessing the bucket needs at least the following permissions:
//
//	s3:AbortMultipartUpload
//	s3:GetObject
//	s3:ListBucket
//	s3:PutObject
package s3

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go/metrics/smithyotelmetrics"
	"github.com/derektruong/fxput/protoc"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

var connectionIDNamespace = uuid.MustParse("8676c88d-b3f7-44b2-b645-11c28d6bb4c8")

// Client represents the S3 store settings.
type Client struct {
	Endpoint   string `json:"endpoint" yaml:"endpoint"`
	BucketName string `json:"bucketName" yaml:"bucket"`
	Region     string `json:"region" yaml:"region"`
	AccessKey  string `json:"accessKey" yaml:"access_key"`
	SecretKey  string `json:"secretKey" yaml:"secret_key"`
	// TemporaryDirectory holds the spool files of the write handles,
	// empty means the default directory for temporary files
	TemporaryDirectory string `json:"temporaryDirectory" yaml:"temporary_directory"`
}

// NewClient creates a new S3 client.
func NewClient(
	endpoint, bucketName,
	region, accessKey, secretKey string,
) (c *Client) {
	c = &Client{
		Endpoint:   endpoint,
		BucketName: bucketName,
		Region:     region,
		AccessKey:  accessKey,
		SecretKey:  secretKey,
	}
	return
}

func (c Client) Dial(ctx context.Context, logger logr.Logger) (conn protoc.Conn, err error) {
	api := c.GetS3API()
	if _, err = api.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(c.BucketName),
	}); err != nil {
		return nil, fmt.Errorf("s3 bucket %q: %w", c.BucketName, err)
	}
	return newConn(logger, api, c.BucketName, c.TemporaryDirectory, lockerFor(c.GetConnectionID())), nil
}

func (c Client) GetS3API() S3API {
	s3Options := awss3.Options{
		Region:       c.Region,
		BaseEndpoint: aws.String(c.Endpoint),
		UsePathStyle: true,
		Credentials: aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{
				AccessKeyID:     c.AccessKey,
				SecretAccessKey: c.SecretKey,
			}, nil
		}),
		MeterProvider: smithyotelmetrics.Adapt(otel.GetMeterProvider()),
	}
	return awss3.New(s3Options)
}

func (c Client) GetCredential() any {
	return c
}

func (c Client) GetConnectionID() string {
	return uuid.NewSHA1(
		connectionIDNamespace,
		[]byte(fmt.Sprintf(
			"%s:%s:%s:%s:%s",
			c.Endpoint, c.BucketName, c.Region, c.AccessKey, c.SecretKey),
		),
	).String()
}

func (c Client) GetURI() string {
	endpoint := c.Endpoint
	for _, scheme := range []string{"https", "http"} {
		endpoint = strings.TrimPrefix(endpoint, scheme+"://")
	}
	return fmt.Sprintf("%s/%s", endpoint, c.BucketName)
}
