package cmd

import (
	"context"

	"github.com/ryansb/lambdactl/pkg/connector/services/aws/alias"
	"github.com/spf13/cobra"
)

var (
	aliasParams alias.Params
	aliasCmd    = &cobra.Command{
		Use:   "alias",
		Short: "Point a named alias at a published function version",
		Run: func(cmd *cobra.Command, args []string) {
			cloudConnector := newConnector(cmd)
			result, err := cloudConnector.Aliases().Manage(context.TODO(), aliasParams)
			if err != nil {
				fatal(err, "Lambda - Alias", "Manage")
			}
			printResult("Alias", result)
		},
	}
)

func init() {
	aliasCmd.Flags().StringVar(&aliasParams.FunctionName, "function-name", "", "Function the alias belongs to")
	aliasCmd.Flags().StringVarP(&aliasParams.Name, "name", "n", "", "Alias name")
	aliasCmd.Flags().StringVarP(&aliasParams.State, flagState, "s", "present", "Desired state: present or absent")
	aliasCmd.Flags().Int64Var(&aliasParams.Version, "version", 0, "Function version to point at, 0 for $LATEST")
	aliasCmd.Flags().StringVar(&aliasParams.Description, "description", "", "Alias description")
	markAsRequired(aliasCmd, "function-name", "name")
	rootCmd.AddCommand(aliasCmd)
}
