package permission

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

type API interface {
	GetPolicy(ctx context.Context, params *lambda.GetPolicyInput, optFns ...func(*lambda.Options)) (*lambda.GetPolicyOutput, error)
	AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error)
	RemovePermission(ctx context.Context, params *lambda.RemovePermissionInput, optFns ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error)
}

type PermissionClient struct {
	client    API
	Config    aws.Config
	CheckMode bool
	logger    logging.LogManager
}

func NewClient(cfg aws.Config, checkMode bool) *PermissionClient {
	return &PermissionClient{
		client:    lambda.NewFromConfig(cfg),
		Config:    cfg,
		CheckMode: checkMode,
		logger:    logging.GetLogManager(),
	}
}

type Params struct {
	FunctionName  string
	State         string
	StatementID   string
	Action        string
	Principal     string
	SourceARN     string
	SourceAccount string
	Qualifier     string
}

type Result struct {
	Changed   bool           `json:"changed"`
	CheckMode bool           `json:"check_mode,omitempty"`
	State     string         `json:"state"`
	Policy    PolicyDocument `json:"policy,omitempty"`
	Statement *Statement     `json:"statement,omitempty"`
}

type Statement struct {
	SID       string      `json:"Sid,omitempty"`
	Effect    string      `json:"Effect"`
	Principal interface{} `json:"Principal,omitempty"`
	Action    interface{} `json:"Action"`
	Resource  interface{} `json:"Resource,omitempty"`
	Condition interface{} `json:"Condition,omitempty"`
}

type PolicyDocument struct {
	Version   string      `json:"Version,omitempty"`
	ID        string      `json:"Id,omitempty"`
	Statement []Statement `json:"Statement,omitempty"`
	Condition interface{} `json:"Condition,omitempty"`
}

// IsNotFound matches both the typed Lambda exception and a bare 404 from the
// transport, the latter being what GetPolicy yields on policy-less functions.
func IsNotFound(err error) bool {
	var nf *types.ResourceNotFoundException
	if errors.As(err, &nf) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == 404
}
