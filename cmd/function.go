package cmd

import (
	"context"

	awsconnector "github.com/ryansb/lambdactl/pkg/connector/services/aws"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/function"
	"github.com/spf13/cobra"
)

var (
	functionParams function.Params
	functionCmd    = &cobra.Command{
		Use:   "function",
		Short: "Create, update or delete a Lambda function",
		Run: func(cmd *cobra.Command, args []string) {
			if err := awsconnector.ValidateFunctionName(functionParams.Name); err != nil {
				logger.Error(err.Error())
			}

			ctx := context.TODO()
			cloudConnector := newConnector(cmd)
			if len(functionParams.SubnetIDs) > 0 {
				if err := cloudConnector.EC2().VerifyVpcConfig(ctx, functionParams.SubnetIDs, functionParams.SecurityGroupIDs); err != nil {
					logger.Error(err.Error())
				}
			}
			if functionParams.State == "present" && functionParams.Role != "" {
				functionParams.Role = cloudConnector.AWSConfig.ExpandRoleARN(ctx, functionParams.Role)
			}

			result, err := cloudConnector.Functions().Manage(ctx, functionParams)
			if err != nil {
				fatal(err, "Lambda - Function", "Manage")
			}
			printResult("Function", result)
		},
	}
)

func init() {
	functionCmd.Flags().StringVarP(&functionParams.Name, "name", "n", "", "Function name or ARN")
	functionCmd.Flags().StringVarP(&functionParams.State, flagState, "s", "present", "Desired state: present or absent")
	functionCmd.Flags().StringVar(&functionParams.Runtime, "runtime", "", "Runtime identifier, e.g. python3.12")
	functionCmd.Flags().StringVar(&functionParams.Handler, "handler", "", "Entry point of the function")
	functionCmd.Flags().StringVar(&functionParams.Role, "role", "", "Execution role name or ARN")
	functionCmd.Flags().StringVar(&functionParams.S3Bucket, "s3-bucket", "", "Bucket holding the deployment package")
	functionCmd.Flags().StringVar(&functionParams.S3Key, "s3-key", "", "Key of the deployment package")
	functionCmd.Flags().StringVar(&functionParams.S3ObjectVersion, "s3-object-version", "", "Object version of the deployment package")
	functionCmd.Flags().StringVar(&functionParams.LocalPath, "local-path", "", "Local zip file with the function code")
	functionCmd.Flags().Int32Var(&functionParams.Timeout, "timeout", 3, "Execution timeout in seconds")
	functionCmd.Flags().Int32Var(&functionParams.MemorySize, "memory-size", 128, "Memory in MB, a multiple of 64")
	functionCmd.Flags().StringVar(&functionParams.Description, "description", "", "Function description")
	functionCmd.Flags().BoolVar(&functionParams.Publish, "publish", false, "Publish a new version after a change")
	functionCmd.Flags().Int64Var(&functionParams.Version, "version", 0, "Numeric version to target, 0 for $LATEST")
	functionCmd.Flags().StringSliceVar(&functionParams.SubnetIDs, "subnet-ids", nil, "VPC subnets to attach the function to")
	functionCmd.Flags().StringSliceVar(&functionParams.SecurityGroupIDs, "security-group-ids", nil, "VPC security groups for the function")
	functionCmd.Flags().StringToStringVar(&functionParams.Environment, "environment", nil, "Environment variables as key=value pairs")
	markAsRequired(functionCmd, "name")
	rootCmd.AddCommand(functionCmd)
}
