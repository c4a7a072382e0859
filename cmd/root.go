package cmd

import (
	"errors"
	"os"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/ryansb/lambdactl/pkg/connector"
	"github.com/ryansb/lambdactl/pkg/io/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	flagVerbose        = "verbose"
	flagDebug          = "debug"
	flagAWSProfile     = "aws-profile"
	flagRegion         = "region"
	flagAWSEndpointUrl = "aws-endpoint-url"
	flagCheck          = "check"
	flagOutputFormat   = "output-format"
	flagOutputDir      = "output-dir"
	flagState          = "state"
)

var (
	logger          logging.LogManager
	awsProfile      string
	awsRegion       string
	awsEndpointUrl  string
	checkMode       bool
	outputFormat    string
	outputDirectory string
	rootCmd         = &cobra.Command{
		Use:   "lambdactl",
		Short: "Declarative management of AWS Lambda functions, aliases, triggers and policies",
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	logger = logging.GetLogManager()
	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolP(flagDebug, "d", false, "Debug output")
	rootCmd.PersistentFlags().StringVarP(&awsProfile, flagAWSProfile, "p", "default", "AWS Profile to use")
	rootCmd.PersistentFlags().StringVarP(&awsRegion, flagRegion, "r", "", "AWS region override")
	rootCmd.PersistentFlags().StringVar(&awsEndpointUrl, flagAWSEndpointUrl, "", "Custom AWS endpoint, e.g. a LocalStack URL")
	rootCmd.PersistentFlags().BoolVarP(&checkMode, flagCheck, "C", false, "Report what would change without issuing any mutating call")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, flagOutputFormat, "f", "json", "Output format: json or flat")
	rootCmd.PersistentFlags().StringVarP(&outputDirectory, flagOutputDir, "o", "", "Directory where results are also saved as files")

	for _, flag := range []string{flagAWSProfile, flagRegion, flagAWSEndpointUrl, flagOutputFormat} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			logger.Error("Error binding flag", "err", err, "flag", flag)
		}
	}
}

// initConfig merges ~/.lambdactl.yaml and LAMBDACTL_* environment variables
// under the command line flags.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")
	viper.SetConfigName(".lambdactl")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("LAMBDACTL")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("Using config file", "file", viper.ConfigFileUsed())
	}
	awsProfile = viper.GetString(flagAWSProfile)
	awsRegion = viper.GetString(flagRegion)
	awsEndpointUrl = viper.GetString(flagAWSEndpointUrl)
	outputFormat = viper.GetString(flagOutputFormat)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Error("Error executing command", "err", err)
	}
}

func newConnector(cmd *cobra.Command) *connector.CloudConnector {
	if cmd.Flags().Changed(flagVerbose) {
		logger.SetVerboseLevel()
	}
	if cmd.Flags().Changed(flagDebug) {
		logger.SetDebugLevel()
	}
	cloudConnector, err := connector.NewCloudConnector(awsProfile, awsRegion, awsEndpointUrl, checkMode)
	if err != nil {
		logger.Error(err.Error())
	}
	return cloudConnector
}

// fatal classifies SDK transport errors before exiting.
func fatal(err error, service string, operation string) {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		logging.HandleAWSError(re, service, operation)
	}
	logging.HandleError(err, service, operation)
}

func markAsRequired(cmd *cobra.Command, flags ...string) {
	for _, flag := range flags {
		if err := cmd.MarkFlagRequired(flag); err != nil {
			logger.Error("Required flags not provided", "err", err, "flag", flag)
		}
	}
}
