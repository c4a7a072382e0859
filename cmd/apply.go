package cmd

import (
	"context"

	"github.com/ryansb/lambdactl/pkg/connector"
	awsconnector "github.com/ryansb/lambdactl/pkg/connector/services/aws"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/alias"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/function"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/mapping"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/permission"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/s3event"
	"github.com/ryansb/lambdactl/tools/yamler"
	"github.com/spf13/cobra"
)

var (
	manifestFile string
	applyCmd     = &cobra.Command{
		Use:   "apply",
		Short: "Reconcile every resource declared in a YAML manifest, in order",
		Run: func(cmd *cobra.Command, args []string) {
			manifest, err := yamler.GetManifest(manifestFile)
			if err != nil {
				logger.Error("Error loading manifest", "err", err, "file", manifestFile)
			}
			if manifest.Region != "" && awsRegion == "" {
				awsRegion = manifest.Region
			}

			ctx := context.TODO()
			cloudConnector := newConnector(cmd)
			for i := range manifest.Resources {
				resource := &manifest.Resources[i]
				logger.Info("Applying resource", "index", i, "type", resource.Title(), "state", resource.State)
				applyResource(ctx, cloudConnector, resource)
			}
		},
	}
)

func applyResource(ctx context.Context, cloudConnector *connector.CloudConnector, r *yamler.Resource) {
	switch r.Kind() {
	case "function":
		if err := awsconnector.ValidateFunctionName(r.Name); err != nil {
			logger.Error(err.Error())
		}
		role := r.Role
		if r.State == "present" && role != "" {
			role = cloudConnector.AWSConfig.ExpandRoleARN(ctx, role)
		}
		result, err := cloudConnector.Functions().Manage(ctx, function.Params{
			Name:             r.Name,
			State:            r.State,
			Runtime:          r.Runtime,
			Handler:          r.Handler,
			Role:             role,
			S3Bucket:         r.S3Bucket,
			S3Key:            r.S3Key,
			S3ObjectVersion:  r.S3ObjectVersion,
			LocalPath:        r.LocalPath,
			Timeout:          r.Timeout,
			MemorySize:       r.MemorySize,
			Description:      r.Description,
			Publish:          r.Publish,
			Version:          r.Version,
			SubnetIDs:        r.SubnetIDs,
			SecurityGroupIDs: r.SecurityGroupIDs,
			Environment:      r.Environment,
		})
		if err != nil {
			fatal(err, "Lambda - Function", "Manage")
		}
		printResult("Function", result)
	case "alias":
		result, err := cloudConnector.Aliases().Manage(ctx, alias.Params{
			FunctionName: r.FunctionName,
			Name:         r.Name,
			State:        r.State,
			Version:      r.Version,
			Description:  r.Description,
		})
		if err != nil {
			fatal(err, "Lambda - Alias", "Manage")
		}
		printResult("Alias", result)
	case "mapping":
		enabled := true
		if r.Enabled != nil {
			enabled = *r.Enabled
		}
		result, err := cloudConnector.Mappings().Manage(ctx, mapping.Params{
			FunctionName:     r.FunctionName,
			State:            r.State,
			SourceARN:        r.SourceARN,
			TableName:        r.TableName,
			Enabled:          enabled,
			BatchSize:        r.BatchSize,
			StartingPosition: r.StartingPosition,
		})
		if err != nil {
			fatal(err, "Lambda - EventSourceMapping", "Manage")
		}
		printResult("Mapping", result)
	case "permission":
		result, err := cloudConnector.Permissions().Manage(ctx, permission.Params{
			FunctionName:  r.FunctionName,
			State:         r.State,
			StatementID:   r.StatementID,
			Action:        r.Action,
			Principal:     r.Principal,
			SourceARN:     r.SourceARN,
			SourceAccount: r.SourceAccount,
			Qualifier:     r.Qualifier,
		})
		if err != nil {
			fatal(err, "Lambda - Permission", "Manage")
		}
		printResult("Permission", result)
	case "s3event":
		result, err := cloudConnector.S3Events().Manage(ctx, s3event.Params{
			Bucket:      r.Bucket,
			State:       r.State,
			ID:          r.ID,
			FunctionARN: r.LambdaFunctionARN,
			Events:      r.Events,
			Prefix:      r.Prefix,
			Suffix:      r.Suffix,
		})
		if err != nil {
			fatal(err, "S3 - Notification", "Manage")
		}
		printResult("S3Event", result)
	}
}

func init() {
	applyCmd.Flags().StringVarP(&manifestFile, "manifest", "m", "", "YAML manifest describing the resources")
	markAsRequired(applyCmd, "manifest")
	rootCmd.AddCommand(applyCmd)
}
