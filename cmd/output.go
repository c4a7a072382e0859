package cmd

import (
	"fmt"
	"time"

	"github.com/notdodo/goflat/v2"
	"github.com/ohler55/ojg/oj"
	"github.com/ryansb/lambdactl/tools/filesystem/files"
)

func printResult(name string, value interface{}) {
	switch outputFormat {
	case "flat":
		fmt.Println(flatten(value))
	default:
		fmt.Println(string(logger.PrettyJSON(value)))
	}

	if outputDirectory != "" {
		today := time.Now().Format("20060102")
		files.PrettyJSONToFile(outputDirectory, fmt.Sprintf("%s_%s.json", name, today), value)
	}
}

func flatten(value interface{}) string {
	jsonString, err := oj.Marshal(value)
	if err != nil {
		logger.Error("Error marshalling result", "err", err)
	}
	flat, err := goflat.FlatJSON(string(jsonString), goflat.FlattenerConfig{
		Prefix:    "",
		Separator: "_",
		OmitNil:   true,
		OmitEmpty: true,
	})
	if err != nil {
		logger.Error("Error flattening result", "err", err)
	}
	return flat
}
