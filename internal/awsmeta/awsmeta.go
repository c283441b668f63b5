// Package awsmeta answers questions about the local AWS environment that
// init uses to sanity-check the user's answers. The sync itself never goes
// through the SDK.
package awsmeta

import (
	"context"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// DefaultStorageClass is offered when the user does not pick one.
const DefaultStorageClass = string(s3types.StorageClassStandard)

// StorageClasses lists the class identifiers the S3 backend accepts.
func StorageClasses() []string {
	values := s3types.StorageClass("").Values()
	classes := make([]string, len(values))
	for i, v := range values {
		classes[i] = string(v)
	}
	return classes
}

// IsStorageClass reports whether name is a known storage class, ignoring case.
func IsStorageClass(name string) bool {
	for _, class := range StorageClasses() {
		if strings.EqualFold(name, class) {
			return true
		}
	}
	return false
}

// ProfileExists reports whether the named profile is defined in the AWS
// shared config. Explicit files override the SDK's default locations; tests
// use that to stay out of the real home directory.
func ProfileExists(ctx context.Context, name string, files ...string) bool {
	_, err := awsconfig.LoadSharedConfigProfile(ctx, name, func(o *awsconfig.LoadSharedConfigOptions) {
		if len(files) > 0 {
			o.ConfigFiles = files
			o.CredentialsFiles = []string{}
		}
	})
	return err == nil
}
