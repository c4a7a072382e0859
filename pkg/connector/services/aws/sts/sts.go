package sts

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

// aws sts get-caller-identity
func Whoami(ctx context.Context, cfg aws.Config) (*sts.GetCallerIdentityOutput, error) {
	logger := logging.GetLogManager()
	output, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		logger.Warn("Error on GetCallerIdentity", "err", err)
		return nil, err
	}

	logger.Info("sts get-caller-identity", "account", aws.ToString(output.Account), "arn", aws.ToString(output.Arn))
	return output, nil
}
