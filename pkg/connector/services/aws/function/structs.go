package function

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/permission"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

// API is the slice of the Lambda control plane exercised by this package.
type API interface {
	GetFunctionConfiguration(ctx context.Context, params *lambda.GetFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionConfigurationOutput, error)
	GetFunction(ctx context.Context, params *lambda.GetFunctionInput, optFns ...func(*lambda.Options)) (*lambda.GetFunctionOutput, error)
	CreateFunction(ctx context.Context, params *lambda.CreateFunctionInput, optFns ...func(*lambda.Options)) (*lambda.CreateFunctionOutput, error)
	UpdateFunctionCode(ctx context.Context, params *lambda.UpdateFunctionCodeInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionCodeOutput, error)
	UpdateFunctionConfiguration(ctx context.Context, params *lambda.UpdateFunctionConfigurationInput, optFns ...func(*lambda.Options)) (*lambda.UpdateFunctionConfigurationOutput, error)
	DeleteFunction(ctx context.Context, params *lambda.DeleteFunctionInput, optFns ...func(*lambda.Options)) (*lambda.DeleteFunctionOutput, error)
	PublishVersion(ctx context.Context, params *lambda.PublishVersionInput, optFns ...func(*lambda.Options)) (*lambda.PublishVersionOutput, error)
	ListFunctions(ctx context.Context, params *lambda.ListFunctionsInput, optFns ...func(*lambda.Options)) (*lambda.ListFunctionsOutput, error)
	ListVersionsByFunction(ctx context.Context, params *lambda.ListVersionsByFunctionInput, optFns ...func(*lambda.Options)) (*lambda.ListVersionsByFunctionOutput, error)
	ListAliases(ctx context.Context, params *lambda.ListAliasesInput, optFns ...func(*lambda.Options)) (*lambda.ListAliasesOutput, error)
	ListEventSourceMappings(ctx context.Context, params *lambda.ListEventSourceMappingsInput, optFns ...func(*lambda.Options)) (*lambda.ListEventSourceMappingsOutput, error)
	GetPolicy(ctx context.Context, params *lambda.GetPolicyInput, optFns ...func(*lambda.Options)) (*lambda.GetPolicyOutput, error)
	Invoke(ctx context.Context, params *lambda.InvokeInput, optFns ...func(*lambda.Options)) (*lambda.InvokeOutput, error)
}

// S3API covers the deployment package upload.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type FunctionClient struct {
	client    API
	s3        S3API
	Config    aws.Config
	CheckMode bool
	logger    logging.LogManager
}

func NewClient(cfg aws.Config, checkMode bool) *FunctionClient {
	return &FunctionClient{
		client:    lambda.NewFromConfig(cfg),
		s3:        s3.NewFromConfig(cfg, func(o *s3.Options) { o.UsePathStyle = true }),
		Config:    cfg,
		CheckMode: checkMode,
		logger:    logging.GetLogManager(),
	}
}

// Params is the flat, declarative description of one Lambda function.
type Params struct {
	Name             string
	State            string
	Runtime          string
	Handler          string
	Role             string
	S3Bucket         string
	S3Key            string
	S3ObjectVersion  string
	LocalPath        string
	Timeout          int32
	MemorySize       int32
	Description      string
	Publish          bool
	Version          int64
	SubnetIDs        []string
	SecurityGroupIDs []string
	Environment      map[string]string
}

type Result struct {
	Changed   bool                         `json:"changed"`
	CheckMode bool                         `json:"check_mode,omitempty"`
	State     string                       `json:"state"`
	Function  *types.FunctionConfiguration `json:"function,omitempty"`
}

// Facts aggregates everything known about a single function, the way the
// one-shot inventory commands report it.
type Facts struct {
	types.FunctionConfiguration
	Code     types.FunctionCodeLocation              `json:",omitempty"`
	Policy   permission.PolicyDocument               `json:",omitempty"`
	Aliases  []types.AliasConfiguration              `json:",omitempty"`
	Versions []types.FunctionConfiguration           `json:",omitempty"`
	Mappings []types.EventSourceMappingConfiguration `json:",omitempty"`
}
