package awsconnector

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ryansb/lambdactl/pkg/connector/services/aws/iam"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/sts"
	"github.com/ryansb/lambdactl/pkg/io/logging"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/notdodo/arner"
)

var (
	countRetries    = 100
	functionNameRe  = regexp.MustCompile(`^[\w\-:]+$`)
	maxFunctionName = 64
	roleARNPrefix   = "arn:aws:iam:"
	lambdaARNPrefix = "arn:aws:lambda:"
)

func InitAWSConfiguration(profile string, region string, awsEndpoint string) (awsc AWSConfig) {
	customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		if awsEndpoint != "" {
			return aws.Endpoint{
				PartitionID:   "aws",
				URL:           awsEndpoint,
				SigningRegion: os.Getenv("AWS_DEFAULT_REGION"),
			}, nil
		}

		// returning EndpointNotFoundError will allow the service to fallback to it's default resolution
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	// Load the Shared AWS Configuration (~/.aws/config)
	cfg, _ := config.LoadDefaultConfig(context.TODO(), config.WithSharedConfigProfile(profile),
		config.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(retry.NewStandard(), countRetries)
		}),
		config.WithEndpointResolverWithOptions(customResolver),
	)
	cfg.RetryMode = aws.RetryModeStandard
	if region != "" {
		cfg.Region = region
	}
	awsc = AWSConfig{Profile: profile, Config: cfg, logger: logging.GetLogManager()}
	return
}

func (ac *AWSConfig) TestConnection() bool {
	_, err := ac.Credentials.Retrieve(context.TODO())
	return err == nil
}

// ResolveAccountID caches the account ID taken from STS, falling back to the
// IAM user ARN when GetCallerIdentity is not allowed.
func (ac *AWSConfig) ResolveAccountID(ctx context.Context) string {
	if ac.AccountID != "" {
		return ac.AccountID
	}
	if whoami, err := sts.Whoami(ctx, ac.Config); err == nil {
		ac.AccountID = aws.ToString(whoami.Account)
		return ac.AccountID
	}
	ac.AccountID = iam.AccountID(ctx, ac.Config)
	return ac.AccountID
}

// ExpandRoleARN turns a bare role name into its full ARN. Full ARNs pass through.
func (ac *AWSConfig) ExpandRoleARN(ctx context.Context, role string) string {
	if strings.HasPrefix(role, roleARNPrefix) {
		return role
	}
	return fmt.Sprintf("arn:aws:iam::%s:role/%s", ac.ResolveAccountID(ctx), role)
}

// ValidateFunctionName applies the Lambda naming constraints. ARNs are parsed
// and the embedded resource checked instead.
func ValidateFunctionName(name string) error {
	if strings.HasPrefix(name, lambdaARNPrefix) {
		arned, err := arner.ParseARN(name)
		if err != nil || arned.Resource == "" {
			return fmt.Errorf("function ARN %q is invalid", name)
		}
		return nil
	}
	if !functionNameRe.MatchString(name) {
		return fmt.Errorf("function name %q is invalid: names must contain only alphanumeric characters and hyphens", name)
	}
	if len(name) > maxFunctionName {
		return fmt.Errorf("function name %q exceeds %d character limit", name, maxFunctionName)
	}
	return nil
}
