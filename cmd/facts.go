package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gocarina/gocsv"
	"github.com/ryansb/lambdactl/pkg/connector/services/aws/function"
	"github.com/ryansb/lambdactl/tools/filesystem/files"
	"github.com/ryansb/lambdactl/tools/filesystem/zip"
	"github.com/spf13/cobra"
)

var (
	factsName     string
	factsAll      bool
	factsVersions bool
	factsMaxItems int32
	factsCmd      = &cobra.Command{
		Use:   "facts",
		Short: "Report configuration, code, policy and triggers of Lambda functions",
		Run: func(cmd *cobra.Command, args []string) {
			if factsName == "" && !factsAll {
				logger.Error("Either --name or --all must be given")
			}

			ctx := context.TODO()
			cloudConnector := newConnector(cmd)
			functions := cloudConnector.Functions()

			if factsName != "" {
				facts, err := functions.GetFacts(ctx, factsName, factsVersions)
				if err != nil {
					fatal(err, "Lambda - Function", "GetFacts")
				}
				printResult("Function", facts)
				return
			}

			var all []*function.Facts
			marker := ""
			for {
				page, nextMarker, err := functions.ListAll(ctx, factsMaxItems, marker)
				if err != nil {
					fatal(err, "Lambda - Function", "ListAll")
				}
				all = append(all, page...)
				if nextMarker == "" {
					break
				}
				marker = nextMarker
			}
			saveFacts(all)
		},
	}
)

// saveFacts writes the whole inventory in the requested format. The csv and
// zip formats always produce files, the others print and optionally save.
func saveFacts(all []*function.Facts) {
	switch outputFormat {
	case "csv":
		writeInventoryCSV(all)
	case "zip":
		results := map[string]interface{}{"Lambdas": all}
		zip.Zip(outputDirectory, awsProfile, &results)
	default:
		printResult("Lambdas", all)
	}
}

type inventoryRow struct {
	Name         string `csv:"name"`
	Runtime      string `csv:"runtime"`
	Handler      string `csv:"handler"`
	Role         string `csv:"role"`
	MemorySize   int32  `csv:"memory_size"`
	Timeout      int32  `csv:"timeout"`
	Version      string `csv:"version"`
	CodeSha256   string `csv:"code_sha256"`
	LastModified string `csv:"last_modified"`
}

func writeInventoryCSV(all []*function.Facts) {
	rows := make([]*inventoryRow, 0, len(all))
	for _, facts := range all {
		rows = append(rows, &inventoryRow{
			Name:         aws.ToString(facts.FunctionName),
			Runtime:      string(facts.Runtime),
			Handler:      aws.ToString(facts.Handler),
			Role:         aws.ToString(facts.Role),
			MemorySize:   aws.ToInt32(facts.MemorySize),
			Timeout:      aws.ToInt32(facts.Timeout),
			Version:      aws.ToString(facts.Version),
			CodeSha256:   aws.ToString(facts.CodeSha256),
			LastModified: aws.ToString(facts.LastModified),
		})
	}

	today := time.Now().Format("20060102")
	path := filepath.Join(files.NormalizePath(outputDirectory), fmt.Sprintf("lambdas_%s.csv", today))
	csvFile, err := os.Create(path)
	if err != nil {
		logger.Error("Error creating inventory file", "err", err, "file", path)
	}
	defer csvFile.Close()
	if err := gocsv.MarshalFile(&rows, csvFile); err != nil {
		logger.Error("Error writing inventory file", "err", err, "file", path)
	}
	logger.Info("Inventory saved", "file", path, "functions", len(rows))
}

func init() {
	factsCmd.Flags().StringVarP(&factsName, "name", "n", "", "Function name or ARN to report on")
	factsCmd.Flags().BoolVar(&factsAll, "all", false, "Report on every function in the region")
	factsCmd.Flags().BoolVar(&factsVersions, "show-versions", false, "Include every published version")
	factsCmd.Flags().Int32Var(&factsMaxItems, "max-items", 50, "Page size for function listing")
	rootCmd.AddCommand(factsCmd)
}
