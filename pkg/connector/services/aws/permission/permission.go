package permission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/google/uuid"
)

// Manage reconciles a single resource-policy statement on a function.
func (pc *PermissionClient) Manage(ctx context.Context, p Params) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	policy, err := pc.GetPolicyDocument(ctx, p.FunctionName, p.Qualifier)
	if err != nil {
		return nil, err
	}

	current := findStatement(policy, p.StatementID)
	currentState := "absent"
	if current != nil {
		currentState = "present"
	}

	result := &Result{State: p.State, CheckMode: pc.CheckMode, Policy: policy}

	switch {
	case p.State == currentState && (current == nil || pc.statementMatches(*current, p)):
		return result, nil
	case p.State == "absent":
		result.Changed = true
		if pc.CheckMode {
			return result, nil
		}
		_, err := pc.client.RemovePermission(ctx, &lambda.RemovePermissionInput{
			FunctionName: aws.String(p.FunctionName),
			StatementId:  aws.String(p.StatementID),
			Qualifier:    optional(p.Qualifier),
		})
		if err != nil {
			return nil, fmt.Errorf("removing permission %s from %s: %w", p.StatementID, p.FunctionName, err)
		}
	default: // present
		result.Changed = true
		if pc.CheckMode {
			return result, nil
		}
		// A statement that exists with different fields is replaced in place.
		if current != nil {
			if _, err := pc.client.RemovePermission(ctx, &lambda.RemovePermissionInput{
				FunctionName: aws.String(p.FunctionName),
				StatementId:  aws.String(p.StatementID),
				Qualifier:    optional(p.Qualifier),
			}); err != nil {
				return nil, fmt.Errorf("replacing permission %s on %s: %w", p.StatementID, p.FunctionName, err)
			}
		}
		output, err := pc.client.AddPermission(ctx, &lambda.AddPermissionInput{
			FunctionName:  aws.String(p.FunctionName),
			StatementId:   aws.String(p.StatementID),
			Action:        aws.String(p.Action),
			Principal:     aws.String(p.Principal),
			Qualifier:     optional(p.Qualifier),
			SourceArn:     optional(p.SourceARN),
			SourceAccount: optional(p.SourceAccount),
		})
		if err != nil {
			return nil, fmt.Errorf("adding permission %s to %s: %w", p.StatementID, p.FunctionName, err)
		}
		if output.Statement != nil {
			var added Statement
			if err := json.Unmarshal([]byte(aws.ToString(output.Statement)), &added); err == nil {
				result.Statement = &added
			}
		}
	}

	return result, nil
}

// GetPolicyDocument fetches and decodes the function resource policy. A 404
// is not an error: a function legitimately may carry no policy.
func (pc *PermissionClient) GetPolicyDocument(ctx context.Context, functionName, qualifier string) (policy PolicyDocument, err error) {
	output, err := pc.client.GetPolicy(ctx, &lambda.GetPolicyInput{
		FunctionName: aws.String(functionName),
		Qualifier:    optional(qualifier),
	})
	if err != nil {
		if IsNotFound(err) {
			return policy, nil
		}
		return policy, fmt.Errorf("retrieving policy of %s: %w", functionName, err)
	}

	if output.Policy != nil {
		if err := json.Unmarshal([]byte(aws.ToString(output.Policy)), &policy); err != nil {
			return policy, fmt.Errorf("unmarshalling policy document: %w", err)
		}
	}
	return policy, nil
}

func (p *Params) validate() error {
	if p.FunctionName == "" {
		return fmt.Errorf("parameter function_name required for resource type permission")
	}
	if p.State != "present" && p.State != "absent" {
		return fmt.Errorf("state must be present or absent, got %q", p.State)
	}
	if p.State == "present" {
		if p.Action == "" {
			return fmt.Errorf("parameter action required to add a permission statement")
		}
		if p.Principal == "" {
			return fmt.Errorf("parameter principal required to add a permission statement")
		}
		if p.StatementID == "" {
			p.StatementID = "lambdactl-" + strings.ReplaceAll(uuid.New().String(), "-", "")[0:8]
		}
	}
	if p.State == "absent" && p.StatementID == "" {
		return fmt.Errorf("parameter statement_id required to remove a permission statement")
	}
	return nil
}

func findStatement(policy PolicyDocument, sid string) *Statement {
	for i := range policy.Statement {
		if policy.Statement[i].SID == sid {
			return &policy.Statement[i]
		}
	}
	return nil
}

// statementMatches compares the fields AddPermission controls directly.
// Conditions synthesized by AWS from SourceArn/SourceAccount are left to the
// service to normalize and are not diffed.
func (pc *PermissionClient) statementMatches(st Statement, p Params) bool {
	if action, ok := st.Action.(string); ok && action != p.Action {
		return false
	}
	switch principal := st.Principal.(type) {
	case string:
		return principal == p.Principal
	case map[string]interface{}:
		for _, v := range principal {
			if s, ok := v.(string); ok && s == p.Principal {
				return true
			}
		}
		return false
	}
	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}
