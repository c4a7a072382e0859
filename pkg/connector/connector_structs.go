package connector

import (
	awsconnector "github.com/ryansb/lambdactl/pkg/connector/services/aws"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

type CloudConnector struct {
	AWSConfig awsconnector.AWSConfig
	logger    logging.LogManager
}
