package connector

import (
	"errors"

	awsconnector "github.com/ryansb/lambdactl/pkg/connector/services/aws"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/alias"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/ec2"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/function"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/mapping"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/permission"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/s3event"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

func NewCloudConnector(profile string, region string, endpointUrl string, checkMode bool) (*CloudConnector, error) {
	cc := &CloudConnector{
		AWSConfig: awsconnector.InitAWSConfiguration(profile, region, endpointUrl),
		logger:    logging.GetLogManager(),
	}
	cc.AWSConfig.CheckMode = checkMode
	if !cc.AWSConfig.TestConnection() {
		return nil, errors.New("invalid credentials or expired session")
	}
	return cc, nil
}

func SetActions() error {
	return awsconnector.SetActions()
}

func (cc *CloudConnector) Functions() *function.FunctionClient {
	return function.NewClient(cc.AWSConfig.Config, cc.AWSConfig.CheckMode)
}

func (cc *CloudConnector) Aliases() *alias.AliasClient {
	return alias.NewClient(cc.AWSConfig.Config, cc.AWSConfig.CheckMode)
}

func (cc *CloudConnector) Mappings() *mapping.MappingClient {
	return mapping.NewClient(cc.AWSConfig.Config, cc.AWSConfig.CheckMode)
}

func (cc *CloudConnector) Permissions() *permission.PermissionClient {
	return permission.NewClient(cc.AWSConfig.Config, cc.AWSConfig.CheckMode)
}

func (cc *CloudConnector) S3Events() *s3event.S3EventClient {
	return s3event.NewClient(cc.AWSConfig.Config, cc.AWSConfig.CheckMode)
}

func (cc *CloudConnector) EC2() *ec2.EC2Client {
	return ec2.NewClient(cc.AWSConfig.Config)
}
