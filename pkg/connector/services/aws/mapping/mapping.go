package mapping

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

type API interface {
	ListEventSourceMappings(ctx context.Context, params *lambda.ListEventSourceMappingsInput, optFns ...func(*lambda.Options)) (*lambda.ListEventSourceMappingsOutput, error)
	CreateEventSourceMapping(ctx context.Context, params *lambda.CreateEventSourceMappingInput, optFns ...func(*lambda.Options)) (*lambda.CreateEventSourceMappingOutput, error)
	UpdateEventSourceMapping(ctx context.Context, params *lambda.UpdateEventSourceMappingInput, optFns ...func(*lambda.Options)) (*lambda.UpdateEventSourceMappingOutput, error)
	DeleteEventSourceMapping(ctx context.Context, params *lambda.DeleteEventSourceMappingInput, optFns ...func(*lambda.Options)) (*lambda.DeleteEventSourceMappingOutput, error)
}

// DynamoAPI resolves a table name into its stream ARN so callers can point a
// mapping at a DynamoDB table without looking the stream up themselves.
type DynamoAPI interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
}

type MappingClient struct {
	client    API
	dynamo    DynamoAPI
	Config    aws.Config
	CheckMode bool
	logger    logging.LogManager
}

func NewClient(cfg aws.Config, checkMode bool) *MappingClient {
	return &MappingClient{
		client:    lambda.NewFromConfig(cfg),
		dynamo:    dynamodb.NewFromConfig(cfg),
		Config:    cfg,
		CheckMode: checkMode,
		logger:    logging.GetLogManager(),
	}
}

type Params struct {
	FunctionName string
	State        string
	SourceARN    string
	// TableName is resolved to the table's latest stream ARN when SourceARN
	// is not given directly.
	TableName        string
	Enabled          bool
	BatchSize        int32
	StartingPosition string
}

type Result struct {
	Changed   bool                                   `json:"changed"`
	CheckMode bool                                   `json:"check_mode,omitempty"`
	State     string                                 `json:"state"`
	Mapping   *types.EventSourceMappingConfiguration `json:"mapping,omitempty"`
}

// Manage reconciles the event source mapping between one streaming source and
// one function.
func (mc *MappingClient) Manage(ctx context.Context, p Params) (*Result, error) {
	if p.FunctionName == "" {
		return nil, fmt.Errorf("parameter function_name required for resource type mapping")
	}
	if p.SourceARN == "" && p.TableName == "" {
		return nil, fmt.Errorf("parameter source_arn or table_name required for resource type mapping")
	}
	if p.State != "present" && p.State != "absent" {
		return nil, fmt.Errorf("state must be present or absent, got %q", p.State)
	}

	if p.SourceARN == "" {
		arn, err := mc.resolveStreamARN(ctx, p.TableName)
		if err != nil {
			return nil, err
		}
		p.SourceARN = arn
	}

	current, err := mc.find(ctx, p)
	if err != nil {
		return nil, err
	}

	result := &Result{State: p.State, CheckMode: mc.CheckMode, Mapping: current}

	switch {
	case p.State == "present" && current == nil:
		result.Changed = true
		if mc.CheckMode {
			return result, nil
		}
		input := &lambda.CreateEventSourceMappingInput{
			FunctionName:   aws.String(p.FunctionName),
			EventSourceArn: aws.String(p.SourceARN),
			Enabled:        aws.Bool(p.Enabled),
		}
		if p.BatchSize > 0 {
			input.BatchSize = aws.Int32(p.BatchSize)
		}
		if p.StartingPosition != "" {
			input.StartingPosition = types.EventSourcePosition(p.StartingPosition)
		}
		output, err := mc.client.CreateEventSourceMapping(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("creating event source mapping for %s: %w", p.FunctionName, err)
		}
		result.Mapping = &types.EventSourceMappingConfiguration{
			UUID:           output.UUID,
			EventSourceArn: output.EventSourceArn,
			FunctionArn:    output.FunctionArn,
			BatchSize:      output.BatchSize,
			State:          output.State,
		}
	case p.State == "present":
		if !mc.needsUpdate(p, current) {
			return result, nil
		}
		result.Changed = true
		if mc.CheckMode {
			return result, nil
		}
		input := &lambda.UpdateEventSourceMappingInput{
			UUID:    current.UUID,
			Enabled: aws.Bool(p.Enabled),
		}
		if p.BatchSize > 0 {
			input.BatchSize = aws.Int32(p.BatchSize)
		}
		output, err := mc.client.UpdateEventSourceMapping(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("updating event source mapping %s: %w", aws.ToString(current.UUID), err)
		}
		result.Mapping = &types.EventSourceMappingConfiguration{
			UUID:           output.UUID,
			EventSourceArn: output.EventSourceArn,
			FunctionArn:    output.FunctionArn,
			BatchSize:      output.BatchSize,
			State:          output.State,
		}
	case current != nil: // absent
		result.Changed = true
		if mc.CheckMode {
			return result, nil
		}
		if _, err := mc.client.DeleteEventSourceMapping(ctx, &lambda.DeleteEventSourceMappingInput{
			UUID: current.UUID,
		}); err != nil {
			return nil, fmt.Errorf("deleting event source mapping %s: %w", aws.ToString(current.UUID), err)
		}
		result.Mapping = nil
	}

	return result, nil
}

// List returns the mappings registered for a function, optionally filtered by
// source ARN, with MaxItems/Marker paging passed through.
func (mc *MappingClient) List(ctx context.Context, functionName, sourceARN, marker string, maxItems int32) ([]types.EventSourceMappingConfiguration, string, error) {
	input := &lambda.ListEventSourceMappingsInput{}
	if functionName != "" {
		input.FunctionName = aws.String(functionName)
	}
	if sourceARN != "" {
		input.EventSourceArn = aws.String(sourceARN)
	}
	if marker != "" {
		input.Marker = aws.String(marker)
	}
	if maxItems > 0 {
		input.MaxItems = aws.Int32(maxItems)
	}

	output, err := mc.client.ListEventSourceMappings(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("listing event source mappings: %w", err)
	}
	return output.EventSourceMappings, aws.ToString(output.NextMarker), nil
}

func (mc *MappingClient) find(ctx context.Context, p Params) (*types.EventSourceMappingConfiguration, error) {
	mappings, _, err := mc.List(ctx, p.FunctionName, p.SourceARN, "", 0)
	if err != nil {
		return nil, err
	}
	if len(mappings) == 0 {
		return nil, nil
	}
	return &mappings[0], nil
}

func (mc *MappingClient) needsUpdate(p Params, current *types.EventSourceMappingConfiguration) bool {
	if p.BatchSize > 0 && p.BatchSize != aws.ToInt32(current.BatchSize) {
		return true
	}
	enabled := aws.ToString(current.State) == "Enabled" || aws.ToString(current.State) == "Enabling"
	return p.Enabled != enabled
}

func (mc *MappingClient) resolveStreamARN(ctx context.Context, tableName string) (string, error) {
	output, err := mc.dynamo.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)})
	if err != nil {
		return "", fmt.Errorf("describing table %s: %w", tableName, err)
	}
	if output.Table == nil {
		return "", fmt.Errorf("table %s has no stream enabled", tableName)
	}
	arn := aws.ToString(output.Table.LatestStreamArn)
	if arn == "" {
		return "", fmt.Errorf("table %s has no stream enabled", tableName)
	}
	return arn, nil
}
