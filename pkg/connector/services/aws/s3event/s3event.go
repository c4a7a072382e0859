package s3event

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ryansb/lambdactl/pkg/io/logging"
)

type API interface {
	GetBucketNotificationConfiguration(ctx context.Context, params *s3.GetBucketNotificationConfigurationInput, optFns ...func(*s3.Options)) (*s3.GetBucketNotificationConfigurationOutput, error)
	PutBucketNotificationConfiguration(ctx context.Context, params *s3.PutBucketNotificationConfigurationInput, optFns ...func(*s3.Options)) (*s3.PutBucketNotificationConfigurationOutput, error)
}

type S3EventClient struct {
	client    API
	Config    aws.Config
	CheckMode bool
	logger    logging.LogManager
}

func NewClient(cfg aws.Config, checkMode bool) *S3EventClient {
	return &S3EventClient{
		client: s3.NewFromConfig(cfg, func(o *s3.Options) {
			o.UsePathStyle = true
		}),
		Config:    cfg,
		CheckMode: checkMode,
		logger:    logging.GetLogManager(),
	}
}

type Params struct {
	Bucket      string
	State       string
	ID          string
	FunctionARN string
	Events      []string
	Prefix      string
	Suffix      string
}

type Result struct {
	Changed       bool                                `json:"changed"`
	CheckMode     bool                                `json:"check_mode,omitempty"`
	State         string                              `json:"state"`
	Notifications []types.LambdaFunctionConfiguration `json:"notifications,omitempty"`
}

// Manage reconciles one Lambda notification entry on a bucket. Queue, topic
// and EventBridge configurations and unrelated Lambda entries are carried
// through untouched: PutBucketNotificationConfiguration replaces the whole
// set every time.
func (sc *S3EventClient) Manage(ctx context.Context, p Params) (*Result, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	current, err := sc.client.GetBucketNotificationConfiguration(ctx, &s3.GetBucketNotificationConfigurationInput{
		Bucket: aws.String(p.Bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("retrieving notification configuration of bucket %s: %w", p.Bucket, err)
	}

	existing, others := splitByID(current.LambdaFunctionConfigurations, p.ID)
	result := &Result{State: p.State, CheckMode: sc.CheckMode, Notifications: current.LambdaFunctionConfigurations}

	var next []types.LambdaFunctionConfiguration
	switch {
	case p.State == "present":
		desired := p.toConfiguration()
		if existing != nil && configurationsEqual(*existing, desired) {
			return result, nil
		}
		next = append(others, desired)
	case existing != nil: // absent
		next = others
	default:
		return result, nil
	}

	result.Changed = true
	if sc.CheckMode {
		return result, nil
	}

	_, err = sc.client.PutBucketNotificationConfiguration(ctx, &s3.PutBucketNotificationConfigurationInput{
		Bucket: aws.String(p.Bucket),
		NotificationConfiguration: &types.NotificationConfiguration{
			LambdaFunctionConfigurations: next,
			QueueConfigurations:          current.QueueConfigurations,
			TopicConfigurations:          current.TopicConfigurations,
			EventBridgeConfiguration:     current.EventBridgeConfiguration,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("writing notification configuration of bucket %s: %w", p.Bucket, err)
	}

	result.Notifications = next
	return result, nil
}

func (p *Params) validate() error {
	if p.Bucket == "" {
		return fmt.Errorf("parameter bucket required for resource type s3event")
	}
	if p.ID == "" {
		return fmt.Errorf("parameter id required for resource type s3event")
	}
	if p.State != "present" && p.State != "absent" {
		return fmt.Errorf("state must be present or absent, got %q", p.State)
	}
	if p.State == "present" {
		if p.FunctionARN == "" {
			return fmt.Errorf("parameter lambda_function_arn required to create an s3 event notification")
		}
		if len(p.Events) == 0 {
			return fmt.Errorf("parameter events required to create an s3 event notification")
		}
	}
	return nil
}

func (p *Params) toConfiguration() types.LambdaFunctionConfiguration {
	cfg := types.LambdaFunctionConfiguration{
		Id:                aws.String(p.ID),
		LambdaFunctionArn: aws.String(p.FunctionARN),
	}
	for _, event := range p.Events {
		cfg.Events = append(cfg.Events, types.Event(event))
	}

	var rules []types.FilterRule
	if p.Prefix != "" {
		rules = append(rules, types.FilterRule{Name: types.FilterRuleNamePrefix, Value: aws.String(p.Prefix)})
	}
	if p.Suffix != "" {
		rules = append(rules, types.FilterRule{Name: types.FilterRuleNameSuffix, Value: aws.String(p.Suffix)})
	}
	if len(rules) > 0 {
		cfg.Filter = &types.NotificationConfigurationFilter{Key: &types.S3KeyFilter{FilterRules: rules}}
	}
	return cfg
}

func splitByID(configs []types.LambdaFunctionConfiguration, id string) (match *types.LambdaFunctionConfiguration, rest []types.LambdaFunctionConfiguration) {
	for i := range configs {
		if aws.ToString(configs[i].Id) == id {
			match = &configs[i]
			continue
		}
		rest = append(rest, configs[i])
	}
	return
}

func configurationsEqual(a, b types.LambdaFunctionConfiguration) bool {
	if aws.ToString(a.LambdaFunctionArn) != aws.ToString(b.LambdaFunctionArn) {
		return false
	}
	if !eventsEqual(a.Events, b.Events) {
		return false
	}
	return filterRulesEqual(filterRules(a), filterRules(b))
}

func eventsEqual(a, b []types.Event) bool {
	if len(a) != len(b) {
		return false
	}
	as := make([]string, len(a))
	bs := make([]string, len(b))
	for i := range a {
		as[i] = string(a[i])
		bs[i] = string(b[i])
	}
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func filterRules(c types.LambdaFunctionConfiguration) map[string]string {
	rules := make(map[string]string)
	if c.Filter == nil || c.Filter.Key == nil {
		return rules
	}
	for _, rule := range c.Filter.Key.FilterRules {
		rules[string(rule.Name)] = aws.ToString(rule.Value)
	}
	return rules
}

func filterRulesEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
