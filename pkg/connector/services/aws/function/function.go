package function

import (
	"context"
	"fmt"
	"maps"
	"os"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/permission"
	"github.com/ryansb/lambdactl/tools/filesystem/files"
	pkgzip "github.com/ryansb/lambdactl/tools/filesystem/zip"
)

const (
	minMemorySize = 2 * 64
	maxMemorySize = 24 * 64
)

// Manage reconciles one Lambda function: code, configuration and, on request,
// a published version. At most one corrective call is made per concern.
func (fc *FunctionClient) Manage(ctx context.Context, p Params) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	current, err := fc.getConfiguration(ctx, p.Name, p.qualifier())
	if err != nil {
		return nil, err
	}

	result := &Result{State: p.State, CheckMode: fc.CheckMode, Function: current}

	switch {
	case p.State == "present" && current == nil:
		if err := fc.create(ctx, p, result); err != nil {
			return nil, err
		}
	case p.State == "present":
		if err := fc.update(ctx, p, current, result); err != nil {
			return nil, err
		}
	case current != nil: // absent
		result.Changed = true
		if fc.CheckMode {
			return result, nil
		}
		_, err := fc.client.DeleteFunction(ctx, &lambda.DeleteFunctionInput{
			FunctionName: aws.String(p.Name),
			Qualifier:    p.qualifier(),
		})
		if err != nil {
			return nil, fmt.Errorf("deleting function %s: %w", p.Name, err)
		}
		result.Function = nil
		return result, nil
	}

	if result.Changed && !fc.CheckMode {
		refreshed, err := fc.getConfiguration(ctx, p.Name, nil)
		if err == nil {
			result.Function = refreshed
		}
	}
	return result, nil
}

func (fc *FunctionClient) create(ctx context.Context, p Params, result *Result) error {
	result.Changed = true
	if fc.CheckMode {
		return nil
	}

	code, err := fc.stageCode(ctx, p)
	if err != nil {
		return err
	}

	input := &lambda.CreateFunctionInput{
		FunctionName: aws.String(p.Name),
		Runtime:      types.Runtime(p.Runtime),
		Role:         aws.String(p.Role),
		Handler:      aws.String(p.Handler),
		Timeout:      aws.Int32(p.Timeout),
		MemorySize:   aws.Int32(p.MemorySize),
		Publish:      p.Publish,
		Code:         code,
	}
	if p.Description != "" {
		input.Description = aws.String(p.Description)
	}
	if len(p.SubnetIDs) > 0 {
		input.VpcConfig = &types.VpcConfig{SubnetIds: p.SubnetIDs, SecurityGroupIds: p.SecurityGroupIDs}
	}
	if len(p.Environment) > 0 {
		input.Environment = &types.Environment{Variables: p.Environment}
	}

	if _, err := fc.client.CreateFunction(ctx, input); err != nil {
		return fmt.Errorf("creating function %s: %w", p.Name, err)
	}
	return nil
}

func (fc *FunctionClient) update(ctx context.Context, p Params, current *types.FunctionConfiguration, result *Result) error {
	codeChanged, err := fc.codeChanged(p, current)
	if err != nil {
		return err
	}
	configChanged := configChanged(p, current)
	result.Changed = codeChanged || configChanged
	if fc.CheckMode || !result.Changed {
		return nil
	}

	if codeChanged {
		code, err := fc.stageCode(ctx, p)
		if err != nil {
			return err
		}
		_, err = fc.client.UpdateFunctionCode(ctx, &lambda.UpdateFunctionCodeInput{
			FunctionName:    aws.String(p.Name),
			S3Bucket:        code.S3Bucket,
			S3Key:           code.S3Key,
			S3ObjectVersion: code.S3ObjectVersion,
			ZipFile:         code.ZipFile,
		})
		if err != nil {
			return fmt.Errorf("updating function code of %s: %w", p.Name, err)
		}
	}

	if configChanged {
		input := &lambda.UpdateFunctionConfigurationInput{
			FunctionName: aws.String(p.Name),
			Role:         aws.String(p.Role),
			Handler:      aws.String(p.Handler),
			Timeout:      aws.Int32(p.Timeout),
			MemorySize:   aws.Int32(p.MemorySize),
		}
		if p.Description != "" {
			input.Description = aws.String(p.Description)
		}
		if len(p.SubnetIDs) > 0 {
			input.VpcConfig = &types.VpcConfig{SubnetIds: p.SubnetIDs, SecurityGroupIds: p.SecurityGroupIDs}
		} else {
			// detaching from the VPC requires explicitly empty lists
			input.VpcConfig = &types.VpcConfig{SubnetIds: []string{}, SecurityGroupIds: []string{}}
		}
		if len(p.Environment) > 0 {
			input.Environment = &types.Environment{Variables: p.Environment}
		}
		if _, err := fc.client.UpdateFunctionConfiguration(ctx, input); err != nil {
			return fmt.Errorf("updating function configuration of %s: %w", p.Name, err)
		}
	}

	if p.Publish {
		input := &lambda.PublishVersionInput{FunctionName: aws.String(p.Name)}
		if p.Description != "" {
			input.Description = aws.String(p.Description)
		}
		if _, err := fc.client.PublishVersion(ctx, input); err != nil {
			return fmt.Errorf("publishing version of %s: %w", p.Name, err)
		}
	}
	return nil
}

// stageCode uploads the local package when a bucket is configured, otherwise
// inlines it; without a local path the already-uploaded S3 object is referenced.
func (fc *FunctionClient) stageCode(ctx context.Context, p Params) (*types.FunctionCode, error) {
	if p.LocalPath != "" && p.S3Bucket == "" {
		data, err := os.ReadFile(files.NormalizePath(p.LocalPath))
		if err != nil {
			return nil, fmt.Errorf("reading deployment package: %w", err)
		}
		return &types.FunctionCode{ZipFile: data}, nil
	}

	if p.LocalPath != "" {
		f, err := os.Open(files.NormalizePath(p.LocalPath))
		if err != nil {
			return nil, fmt.Errorf("opening deployment package: %w", err)
		}
		defer f.Close()
		_, err = fc.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(p.S3Bucket),
			Key:    aws.String(p.S3Key),
			Body:   f,
		})
		if err != nil {
			return nil, fmt.Errorf("uploading package to s3://%s/%s: %w", p.S3Bucket, p.S3Key, err)
		}
	}

	code := &types.FunctionCode{
		S3Bucket: aws.String(p.S3Bucket),
		S3Key:    aws.String(p.S3Key),
	}
	if p.S3ObjectVersion != "" {
		code.S3ObjectVersion = aws.String(p.S3ObjectVersion)
	}
	return code, nil
}

func (fc *FunctionClient) codeChanged(p Params, current *types.FunctionConfiguration) (bool, error) {
	if p.LocalPath == "" {
		return false, nil
	}
	localHash, err := pkgzip.Base64Sha256(files.NormalizePath(p.LocalPath))
	if err != nil {
		return false, fmt.Errorf("hashing deployment package: %w", err)
	}
	return localHash != aws.ToString(current.CodeSha256), nil
}

func configChanged(p Params, current *types.FunctionConfiguration) bool {
	if p.Role != aws.ToString(current.Role) ||
		p.Handler != aws.ToString(current.Handler) ||
		p.Timeout != aws.ToInt32(current.Timeout) ||
		p.MemorySize != aws.ToInt32(current.MemorySize) {
		return true
	}
	if p.Description != "" && p.Description != aws.ToString(current.Description) {
		return true
	}

	var currentSubnets, currentGroups []string
	if current.VpcConfig != nil {
		currentSubnets = current.VpcConfig.SubnetIds
		currentGroups = current.VpcConfig.SecurityGroupIds
	}
	if !sortedEqual(p.SubnetIDs, currentSubnets) || !sortedEqual(p.SecurityGroupIDs, currentGroups) {
		return true
	}

	if len(p.Environment) > 0 {
		var currentEnv map[string]string
		if current.Environment != nil {
			currentEnv = current.Environment.Variables
		}
		if !maps.Equal(p.Environment, currentEnv) {
			return true
		}
	}
	return false
}

func sortedEqual(desired, current []string) bool {
	if len(desired) != len(current) {
		return false
	}
	d := append([]string(nil), desired...)
	c := append([]string(nil), current...)
	sort.Strings(d)
	sort.Strings(c)
	for i := range d {
		if d[i] != c[i] {
			return false
		}
	}
	return true
}

func (fc *FunctionClient) getConfiguration(ctx context.Context, name string, qualifier *string) (*types.FunctionConfiguration, error) {
	output, err := fc.client.GetFunctionConfiguration(ctx, &lambda.GetFunctionConfigurationInput{
		FunctionName: aws.String(name),
		Qualifier:    qualifier,
	})
	if err != nil {
		if permission.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("retrieving configuration of %s: %w", name, err)
	}

	cfg := types.FunctionConfiguration{
		CodeSha256:   output.CodeSha256,
		CodeSize:     output.CodeSize,
		Description:  output.Description,
		Environment:  output.Environment,
		FunctionArn:  output.FunctionArn,
		FunctionName: output.FunctionName,
		Handler:      output.Handler,
		LastModified: output.LastModified,
		MemorySize:   output.MemorySize,
		Role:         output.Role,
		Runtime:      output.Runtime,
		Timeout:      output.Timeout,
		Version:      output.Version,
		VpcConfig:    output.VpcConfig,
	}
	return &cfg, nil
}

func (p *Params) validate() error {
	if p.Name == "" {
		return fmt.Errorf("parameter name required for resource type function")
	}
	if p.State != "present" && p.State != "absent" {
		return fmt.Errorf("state must be present or absent, got %q", p.State)
	}
	if p.State == "present" && p.Version > 0 {
		return fmt.Errorf("cannot specify a version with state=present")
	}
	if p.State == "present" {
		if p.MemorySize%64 != 0 || p.MemorySize < minMemorySize || p.MemorySize > maxMemorySize {
			return fmt.Errorf("parameter memory_size must be between %d and %d and a multiple of 64", minMemorySize, maxMemorySize)
		}
		if p.LocalPath != "" && !files.Exists(p.LocalPath) {
			return fmt.Errorf("invalid local file path for deployment package: %s", p.LocalPath)
		}
		if p.LocalPath == "" && p.S3Key == "" {
			return fmt.Errorf("either a local package path or an s3_bucket/s3_key pair is required")
		}
		if (len(p.SubnetIDs) > 0) != (len(p.SecurityGroupIDs) > 0) {
			return fmt.Errorf("parameters subnet_ids and security_group_ids are required together")
		}
	}
	return nil
}

func (p *Params) qualifier() *string {
	if p.Version > 0 {
		return aws.String(strconv.FormatInt(p.Version, 10))
	}
	return nil
}
