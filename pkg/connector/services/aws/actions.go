package awsconnector

import (
	"fmt"
	"strings"
	"time"

	req "github.com/imroc/req/v3"
	"github.com/itchyny/gojq"
	"github.com/ohler55/ojg/oj"
)

var (
	ActionsMap  map[string][]string
	ActionsList []string
)

// SetActions downloads the action catalog behind the AWS policy generator and
// fills ActionsMap/ActionsList. Used only when permission statements are
// validated against the live catalog.
func SetActions() error {
	URL := "https://awspolicygen.s3.amazonaws.com/js/policies.js"
	client := req.C().SetBaseURL(URL).SetTimeout(30 * time.Second).SetUserAgent("Mozilla/5.0 (X11; Linux x86_64; rv:103.0) Gecko/20100101 Firefox/103.0")

	response := client.Get().
		SetHeader("Connection", "keep-alive").
		SetHeader("Pragma", "no-cache").
		SetHeader("Cache-Control", "no-cache").
		Do()
	if response.Err != nil {
		return fmt.Errorf("fetching action catalog: %w", response.Err)
	}

	resString := strings.Replace(response.String(), "app.PolicyEditorConfig=", "", 1)
	obj, err := oj.ParseString(resString)
	if err != nil {
		return fmt.Errorf("parsing action catalog: %w", err)
	}
	query, err := gojq.Parse(`.serviceMap[] | .StringPrefix as $prefix | .Actions[] | "\($prefix):\(.)"`)
	if err != nil {
		return fmt.Errorf("compiling action query: %w", err)
	}

	iter := query.Run(obj)
	ActionsMap = make(map[string][]string, 0)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return fmt.Errorf("iterating action catalog: %w", err)
		}

		ActionsList = append(ActionsList, v.(string))
		split := strings.Split(v.(string), ":")
		ActionsMap[split[0]] = append(ActionsMap[split[0]], split[1])
	}

	ActionsList = unique(ActionsList)
	return nil
}

// KnownAction reports whether action appears in the downloaded catalog.
// Wildcards on the action part are accepted when the service prefix exists.
func KnownAction(action string) bool {
	split := strings.SplitN(action, ":", 2)
	if len(split) != 2 {
		return false
	}
	service, name := split[0], split[1]
	actions, ok := ActionsMap[service]
	if !ok {
		return false
	}
	if name == "*" {
		return true
	}
	for _, a := range actions {
		if a == name {
			return true
		}
	}
	return false
}

func unique(slice []string) []string {
	keys := make(map[string]bool)
	list := []string{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			list = append(list, entry)
		}
	}
	return list
}
