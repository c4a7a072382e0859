package iam

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

// AccountID extracts the account ID from the calling user ARN. Returns an
// empty string when the identity cannot be determined; role expansion then
// requires a full ARN from the caller.
func AccountID(ctx context.Context, cfg aws.Config) string {
	output, err := iam.NewFromConfig(cfg).GetUser(ctx, &iam.GetUserInput{})
	if err != nil {
		logging.GetLogManager().Warn("Error on GetUser", "err", err)
		return ""
	}

	parts := strings.Split(aws.ToString(output.User.Arn), ":")
	if len(parts) < 5 {
		return ""
	}
	return parts[4]
}
