package awsconnector

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

type AWSConfig struct {
	Profile   string
	AccountID string
	// CheckMode makes every resource client report the corrective call it
	// would issue without executing it.
	CheckMode bool
	aws.Config
	logger logging.LogManager
}
