package s3

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// isAwsError tests whether an error object is an instance of the AWS error
// specified by its code.
func isAwsError[T error](err error) bool {
	var awsErr T
	return errors.As(err, &awsErr)
}

func isAwsErrorCode(err error, code string) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == code
	}
	return false
}

func isNotFound(err error) bool {
	return isAwsError[*types.NotFound](err) || isAwsError[*types.NoSuchKey](err) ||
		isAwsErrorCode(err, "NotFound") || isAwsErrorCode(err, "NoSuchKey")
}

func newMultiError(errs ...error) error {
	joinedErrors := errors.Join(errs...)
	if joinedErrors == nil {
		return nil
	}
	return errors.New("multiple errors occurred:\n" + joinedErrors.Error())
}
