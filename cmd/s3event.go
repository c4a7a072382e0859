package cmd

import (
	"context"

	"github.com/ryansb/lambdactl/pkg/connector/services/aws/s3event"
	"github.com/spf13/cobra"
)

var (
	s3eventParams s3event.Params
	s3eventCmd    = &cobra.Command{
		Use:   "s3event",
		Short: "Subscribe a function to bucket notifications",
		Run: func(cmd *cobra.Command, args []string) {
			cloudConnector := newConnector(cmd)
			result, err := cloudConnector.S3Events().Manage(context.TODO(), s3eventParams)
			if err != nil {
				fatal(err, "S3 - Notification", "Manage")
			}
			printResult("S3Event", result)
		},
	}
)

func init() {
	s3eventCmd.Flags().StringVar(&s3eventParams.Bucket, "bucket", "", "Bucket emitting the events")
	s3eventCmd.Flags().StringVarP(&s3eventParams.State, flagState, "s", "present", "Desired state: present or absent")
	s3eventCmd.Flags().StringVar(&s3eventParams.ID, "id", "", "Identifier of this notification entry")
	s3eventCmd.Flags().StringVar(&s3eventParams.FunctionARN, "lambda-function-arn", "", "ARN of the function receiving the events")
	s3eventCmd.Flags().StringSliceVar(&s3eventParams.Events, "events", nil, "Event types to subscribe to, e.g. s3:ObjectCreated:*")
	s3eventCmd.Flags().StringVar(&s3eventParams.Prefix, "prefix", "", "Only keys with this prefix trigger events")
	s3eventCmd.Flags().StringVar(&s3eventParams.Suffix, "suffix", "", "Only keys with this suffix trigger events")
	markAsRequired(s3eventCmd, "bucket", "id")
	rootCmd.AddCommand(s3eventCmd)
}
