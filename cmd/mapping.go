package cmd

import (
	"context"

	"github.com/ryansb/lambdactl/pkg/connector/services/aws/mapping"
	"github.com/spf13/cobra"
)

var (
	mappingParams mapping.Params
	mappingCmd    = &cobra.Command{
		Use:   "mapping",
		Short: "Wire a Kinesis or DynamoDB stream to a function",
		Run: func(cmd *cobra.Command, args []string) {
			cloudConnector := newConnector(cmd)
			result, err := cloudConnector.Mappings().Manage(context.TODO(), mappingParams)
			if err != nil {
				fatal(err, "Lambda - EventSourceMapping", "Manage")
			}
			printResult("Mapping", result)
		},
	}
)

func init() {
	mappingCmd.Flags().StringVar(&mappingParams.FunctionName, "function-name", "", "Function consuming the stream")
	mappingCmd.Flags().StringVarP(&mappingParams.State, flagState, "s", "present", "Desired state: present or absent")
	mappingCmd.Flags().StringVar(&mappingParams.SourceARN, "source-arn", "", "ARN of the stream to consume")
	mappingCmd.Flags().StringVar(&mappingParams.TableName, "table-name", "", "DynamoDB table whose latest stream should be consumed")
	mappingCmd.Flags().BoolVar(&mappingParams.Enabled, "enabled", true, "Whether the mapping polls the source")
	mappingCmd.Flags().Int32Var(&mappingParams.BatchSize, "batch-size", 100, "Largest number of records per invocation")
	mappingCmd.Flags().StringVar(&mappingParams.StartingPosition, "starting-position", "LATEST", "Where to start reading: TRIM_HORIZON or LATEST")
	markAsRequired(mappingCmd, "function-name")
	rootCmd.AddCommand(mappingCmd)
}
