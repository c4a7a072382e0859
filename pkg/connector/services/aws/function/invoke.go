package function

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
)

type InvokeParams struct {
	FunctionName   string
	Qualifier      string
	InvocationType string
	LogType        string
	ClientContext  string
	Payload        string
}

type InvokeResult struct {
	StatusCode      int32       `json:"status_code"`
	ExecutedVersion string      `json:"executed_version,omitempty"`
	FunctionError   string      `json:"function_error,omitempty"`
	LogTail         string      `json:"log_tail,omitempty"`
	Payload         interface{} `json:"payload,omitempty"`
}

// Invoke executes the function. Check mode downgrades the call to DryRun so
// only authorization and parameters are verified.
func (fc *FunctionClient) Invoke(ctx context.Context, p InvokeParams) (*InvokeResult, error) {
	invocationType := p.InvocationType
	if invocationType == "" {
		invocationType = string(types.InvocationTypeRequestResponse)
	}
	if fc.CheckMode {
		invocationType = string(types.InvocationTypeDryRun)
	}

	input := &lambda.InvokeInput{
		FunctionName:   aws.String(p.FunctionName),
		InvocationType: types.InvocationType(invocationType),
	}
	if p.Qualifier != "" {
		input.Qualifier = aws.String(p.Qualifier)
	}
	if p.LogType != "" {
		input.LogType = types.LogType(p.LogType)
	}
	if p.ClientContext != "" {
		input.ClientContext = aws.String(p.ClientContext)
	}
	if p.Payload != "" {
		input.Payload = []byte(p.Payload)
	}

	output, err := fc.client.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("invoking function %s: %w", p.FunctionName, err)
	}

	result := &InvokeResult{
		StatusCode:      output.StatusCode,
		ExecutedVersion: aws.ToString(output.ExecutedVersion),
		FunctionError:   aws.ToString(output.FunctionError),
	}
	if output.LogResult != nil {
		if decoded, err := base64.StdEncoding.DecodeString(aws.ToString(output.LogResult)); err == nil {
			result.LogTail = string(decoded)
		}
	}
	if len(output.Payload) > 0 {
		var payload interface{}
		if err := json.Unmarshal(output.Payload, &payload); err == nil {
			result.Payload = payload
		} else {
			result.Payload = string(output.Payload)
		}
	}
	return result, nil
}
