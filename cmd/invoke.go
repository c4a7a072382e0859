package cmd

import (
	"context"
	"os"

	"github.com/ryansb/lambdactl/pkg/connector/services/aws/function"
	"github.com/spf13/cobra"
)

var (
	invokeParams  function.InvokeParams
	invokePayload string
	invokeCmd     = &cobra.Command{
		Use:   "invoke",
		Short: "Execute a function and print its response",
		Run: func(cmd *cobra.Command, args []string) {
			if invokePayload != "" {
				data, err := os.ReadFile(invokePayload)
				if err != nil {
					logger.Error("Error reading payload file", "err", err, "file", invokePayload)
				}
				invokeParams.Payload = string(data)
			}

			cloudConnector := newConnector(cmd)
			result, err := cloudConnector.Functions().Invoke(context.TODO(), invokeParams)
			if err != nil {
				fatal(err, "Lambda - Function", "Invoke")
			}
			printResult("Invoke", result)
		},
	}
)

func init() {
	invokeCmd.Flags().StringVar(&invokeParams.FunctionName, "function-name", "", "Function name or ARN")
	invokeCmd.Flags().StringVar(&invokeParams.Qualifier, "qualifier", "", "Version or alias to invoke")
	invokeCmd.Flags().StringVar(&invokeParams.InvocationType, "invocation-type", "RequestResponse", "RequestResponse, Event or DryRun")
	invokeCmd.Flags().StringVar(&invokeParams.LogType, "log-type", "Tail", "Tail to capture the last 4 KB of execution log")
	invokeCmd.Flags().StringVar(&invokeParams.ClientContext, "client-context", "", "Base64 client context passed to the function")
	invokeCmd.Flags().StringVar(&invokeParams.Payload, "payload", "", "JSON payload for the invocation")
	invokeCmd.Flags().StringVar(&invokePayload, "payload-file", "", "File holding the JSON payload")
	markAsRequired(invokeCmd, "function-name")
	rootCmd.AddCommand(invokeCmd)
}
