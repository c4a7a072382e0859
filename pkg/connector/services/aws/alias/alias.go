package alias

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/permission"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

type API interface {
	GetAlias(ctx context.Context, params *lambda.GetAliasInput, optFns ...func(*lambda.Options)) (*lambda.GetAliasOutput, error)
	CreateAlias(ctx context.Context, params *lambda.CreateAliasInput, optFns ...func(*lambda.Options)) (*lambda.CreateAliasOutput, error)
	UpdateAlias(ctx context.Context, params *lambda.UpdateAliasInput, optFns ...func(*lambda.Options)) (*lambda.UpdateAliasOutput, error)
	DeleteAlias(ctx context.Context, params *lambda.DeleteAliasInput, optFns ...func(*lambda.Options)) (*lambda.DeleteAliasOutput, error)
}

type AliasClient struct {
	client    API
	Config    aws.Config
	CheckMode bool
	logger    logging.LogManager
}

func NewClient(cfg aws.Config, checkMode bool) *AliasClient {
	return &AliasClient{
		client:    lambda.NewFromConfig(cfg),
		Config:    cfg,
		CheckMode: checkMode,
		logger:    logging.GetLogManager(),
	}
}

type Params struct {
	FunctionName string
	Name         string
	State        string
	// Version 0 points the alias at $LATEST.
	Version     int64
	Description string
}

type Result struct {
	Changed   bool                      `json:"changed"`
	CheckMode bool                      `json:"check_mode,omitempty"`
	State     string                    `json:"state"`
	Alias     *types.AliasConfiguration `json:"alias,omitempty"`
}

// Manage reconciles one function alias against its desired state.
func (ac *AliasClient) Manage(ctx context.Context, p Params) (*Result, error) {
	if p.FunctionName == "" {
		return nil, fmt.Errorf("parameter function_name required for resource type alias")
	}
	if p.Name == "" {
		return nil, fmt.Errorf("parameter name required for resource type alias")
	}
	if p.State != "present" && p.State != "absent" {
		return nil, fmt.Errorf("state must be present or absent, got %q", p.State)
	}

	current, err := ac.get(ctx, p)
	if err != nil {
		return nil, err
	}

	result := &Result{State: p.State, CheckMode: ac.CheckMode, Alias: current}

	switch {
	case p.State == "present" && current == nil:
		result.Changed = true
		if ac.CheckMode {
			return result, nil
		}
		output, err := ac.client.CreateAlias(ctx, &lambda.CreateAliasInput{
			FunctionName:    aws.String(p.FunctionName),
			Name:            aws.String(p.Name),
			FunctionVersion: aws.String(p.functionVersion()),
			Description:     description(p.Description),
		})
		if err != nil {
			return nil, fmt.Errorf("creating alias %s for %s: %w", p.Name, p.FunctionName, err)
		}
		result.Alias = toConfiguration(output.AliasArn, output.Name, output.FunctionVersion, output.Description)
	case p.State == "present":
		// only version and description can change
		if p.functionVersion() == aws.ToString(current.FunctionVersion) &&
			(p.Description == "" || p.Description == aws.ToString(current.Description)) {
			return result, nil
		}
		result.Changed = true
		if ac.CheckMode {
			return result, nil
		}
		output, err := ac.client.UpdateAlias(ctx, &lambda.UpdateAliasInput{
			FunctionName:    aws.String(p.FunctionName),
			Name:            aws.String(p.Name),
			FunctionVersion: aws.String(p.functionVersion()),
			Description:     description(p.Description),
		})
		if err != nil {
			return nil, fmt.Errorf("updating alias %s for %s: %w", p.Name, p.FunctionName, err)
		}
		result.Alias = toConfiguration(output.AliasArn, output.Name, output.FunctionVersion, output.Description)
	case current != nil: // absent
		result.Changed = true
		if ac.CheckMode {
			return result, nil
		}
		_, err := ac.client.DeleteAlias(ctx, &lambda.DeleteAliasInput{
			FunctionName: aws.String(p.FunctionName),
			Name:         aws.String(p.Name),
		})
		if err != nil {
			return nil, fmt.Errorf("deleting alias %s for %s: %w", p.Name, p.FunctionName, err)
		}
		result.Alias = nil
	}

	return result, nil
}

func (ac *AliasClient) get(ctx context.Context, p Params) (*types.AliasConfiguration, error) {
	output, err := ac.client.GetAlias(ctx, &lambda.GetAliasInput{
		FunctionName: aws.String(p.FunctionName),
		Name:         aws.String(p.Name),
	})
	if err != nil {
		if permission.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("retrieving alias %s of %s: %w", p.Name, p.FunctionName, err)
	}
	return toConfiguration(output.AliasArn, output.Name, output.FunctionVersion, output.Description), nil
}

func (p *Params) functionVersion() string {
	if p.Version == 0 {
		return "$LATEST"
	}
	return strconv.FormatInt(p.Version, 10)
}

func description(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

func toConfiguration(arn, name, version, desc *string) *types.AliasConfiguration {
	return &types.AliasConfiguration{
		AliasArn:        arn,
		Name:            name,
		FunctionVersion: version,
		Description:     desc,
	}
}
