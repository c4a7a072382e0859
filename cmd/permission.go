package cmd

import (
	"context"

	"github.com/ryansb/lambdactl/pkg/connector"
	awsconnector "github.com/ryansb/lambdactl/pkg/connector/services/aws"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/permission"
	"github.com/spf13/cobra"
)

var (
	permissionParams permission.Params
	validateAction   bool
	permissionCmd    = &cobra.Command{
		Use:   "permission",
		Short: "Grant or revoke an invoke permission on a function policy",
		Run: func(cmd *cobra.Command, args []string) {
			if validateAction && permissionParams.Action != "" {
				if err := connector.SetActions(); err != nil {
					logger.Warn("Unable to fetch the action catalog, skipping validation", "err", err)
				} else if !awsconnector.KnownAction(permissionParams.Action) {
					logger.Error("Unknown IAM action", "action", permissionParams.Action)
				}
			}

			cloudConnector := newConnector(cmd)
			result, err := cloudConnector.Permissions().Manage(context.TODO(), permissionParams)
			if err != nil {
				fatal(err, "Lambda - Permission", "Manage")
			}
			printResult("Permission", result)
		},
	}
)

func init() {
	permissionCmd.Flags().StringVar(&permissionParams.FunctionName, "function-name", "", "Function whose policy is managed")
	permissionCmd.Flags().StringVarP(&permissionParams.State, flagState, "s", "present", "Desired state: present or absent")
	permissionCmd.Flags().StringVar(&permissionParams.StatementID, "statement-id", "", "Statement ID, generated when omitted")
	permissionCmd.Flags().StringVar(&permissionParams.Action, "action", "lambda:InvokeFunction", "Action the principal is allowed to perform")
	permissionCmd.Flags().StringVar(&permissionParams.Principal, "principal", "", "Service or account receiving the grant, e.g. s3.amazonaws.com")
	permissionCmd.Flags().StringVar(&permissionParams.SourceARN, "source-arn", "", "Restrict the grant to events from this ARN")
	permissionCmd.Flags().StringVar(&permissionParams.SourceAccount, "source-account", "", "Restrict the grant to this source account")
	permissionCmd.Flags().StringVar(&permissionParams.Qualifier, "qualifier", "", "Version or alias scope of the grant")
	permissionCmd.Flags().BoolVar(&validateAction, "validate-action", false, "Check the action against the published IAM action catalog")
	markAsRequired(permissionCmd, "function-name")
	rootCmd.AddCommand(permissionCmd)
}
