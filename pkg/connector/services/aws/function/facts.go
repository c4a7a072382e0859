package function

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/permission"
	"github.com/sourcegraph/conc/iter"
)

// GetFacts assembles configuration, aliases, resource policy, event source
// mappings and optionally the published versions of one function.
func (fc *FunctionClient) GetFacts(ctx context.Context, name string, showVersions bool) (*Facts, error) {
	cfg, err := fc.getConfiguration(ctx, name, nil)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("function %s does not exist", name)
	}

	facts := &Facts{FunctionConfiguration: *cfg}

	if output, err := fc.client.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(name)}); err == nil && output.Code != nil {
		facts.Code = *output.Code
	}

	aliases, err := fc.client.ListAliases(ctx, &lambda.ListAliasesInput{FunctionName: aws.String(name)})
	if err != nil {
		return nil, fmt.Errorf("listing aliases of %s: %w", name, err)
	}
	facts.Aliases = aliases.Aliases

	facts.Policy, err = fc.getPolicy(ctx, name)
	if err != nil {
		return nil, err
	}

	mappings, err := fc.client.ListEventSourceMappings(ctx, &lambda.ListEventSourceMappingsInput{
		FunctionName: aws.String(name),
	})
	if err != nil {
		return nil, fmt.Errorf("listing event source mappings of %s: %w", name, err)
	}
	facts.Mappings = mappings.EventSourceMappings

	if showVersions {
		versions, err := fc.client.ListVersionsByFunction(ctx, &lambda.ListVersionsByFunctionInput{
			FunctionName: aws.String(name),
		})
		if err != nil {
			return nil, fmt.Errorf("listing versions of %s: %w", name, err)
		}
		facts.Versions = versions.Versions
	}

	return facts, nil
}

// ListAll pages through every function in the region and enriches each entry
// with its code location, decoded policy and event source mappings.
func (fc *FunctionClient) ListAll(ctx context.Context, maxItems int32, marker string) (facts []*Facts, nextMarker string, err error) {
	input := &lambda.ListFunctionsInput{}
	if maxItems > 0 {
		input.MaxItems = aws.Int32(maxItems)
	}
	if marker != "" {
		input.Marker = aws.String(marker)
	}

	output, err := fc.client.ListFunctions(ctx, input)
	if err != nil {
		return nil, "", fmt.Errorf("listing functions: %w", err)
	}

	facts = iter.Map(output.Functions, func(fn *types.FunctionConfiguration) *Facts {
		item := &Facts{FunctionConfiguration: *fn}
		name := aws.ToString(fn.FunctionName)
		if out, err := fc.client.GetFunction(ctx, &lambda.GetFunctionInput{FunctionName: aws.String(name)}); err == nil && out.Code != nil {
			item.Code = *out.Code
		}
		item.Policy, _ = fc.getPolicy(ctx, name)
		if mappings, err := fc.client.ListEventSourceMappings(ctx, &lambda.ListEventSourceMappingsInput{
			FunctionName: aws.String(name),
		}); err == nil {
			item.Mappings = mappings.EventSourceMappings
		}
		return item
	})
	return facts, aws.ToString(output.NextMarker), nil
}

func (fc *FunctionClient) getPolicy(ctx context.Context, name string) (policy permission.PolicyDocument, err error) {
	output, err := fc.client.GetPolicy(ctx, &lambda.GetPolicyInput{FunctionName: aws.String(name)})
	if err != nil {
		if permission.IsNotFound(err) { // Function can't have a policy
			return policy, nil
		}
		return policy, fmt.Errorf("retrieving policy of %s: %w", name, err)
	}
	if output.Policy != nil {
		if err := json.Unmarshal([]byte(aws.ToString(output.Policy)), &policy); err != nil {
			return policy, fmt.Errorf("unmarshalling policy document: %w", err)
		}
	}
	return policy, nil
}
