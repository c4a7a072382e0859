package s3event

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3API struct {
	current *s3.GetBucketNotificationConfigurationOutput
	put     *s3.PutBucketNotificationConfigurationInput
}

func (f *fakeS3API) GetBucketNotificationConfiguration(ctx context.Context, params *s3.GetBucketNotificationConfigurationInput, optFns ...func(*s3.Options)) (*s3.GetBucketNotificationConfigurationOutput, error) {
	if f.current != nil {
		return f.current, nil
	}
	return &s3.GetBucketNotificationConfigurationOutput{}, nil
}

func (f *fakeS3API) PutBucketNotificationConfiguration(ctx context.Context, params *s3.PutBucketNotificationConfigurationInput, optFns ...func(*s3.Options)) (*s3.PutBucketNotificationConfigurationOutput, error) {
	f.put = params
	return &s3.PutBucketNotificationConfigurationOutput{}, nil
}

const functionARN = "arn:aws:lambda:us-east-1:123456789012:function:uploader"

func lambdaEntry(id, arn string, events ...types.Event) types.LambdaFunctionConfiguration {
	return types.LambdaFunctionConfiguration{
		Id:                aws.String(id),
		LambdaFunctionArn: aws.String(arn),
		Events:            events,
	}
}

func baseParams() Params {
	return Params{
		Bucket:      "uploads",
		State:       "present",
		ID:          "on-upload",
		FunctionARN: functionARN,
		Events:      []string{"s3:ObjectCreated:*"},
	}
}

func TestManageAddsNotification(t *testing.T) {
	api := &fakeS3API{}
	sc := &S3EventClient{client: api}

	result, err := sc.Manage(context.Background(), baseParams())
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, api.put)
	require.Len(t, api.put.NotificationConfiguration.LambdaFunctionConfigurations, 1)
	entry := api.put.NotificationConfiguration.LambdaFunctionConfigurations[0]
	assert.Equal(t, "on-upload", aws.ToString(entry.Id))
	assert.Equal(t, functionARN, aws.ToString(entry.LambdaFunctionArn))
}

func TestManagePreservesOtherConfigurations(t *testing.T) {
	api := &fakeS3API{current: &s3.GetBucketNotificationConfigurationOutput{
		LambdaFunctionConfigurations: []types.LambdaFunctionConfiguration{
			lambdaEntry("other-entry", "arn:aws:lambda:us-east-1:123456789012:function:other", "s3:ObjectRemoved:*"),
		},
		TopicConfigurations: []types.TopicConfiguration{{
			Id:       aws.String("to-topic"),
			TopicArn: aws.String("arn:aws:sns:us-east-1:123456789012:uploads"),
			Events:   []types.Event{"s3:ObjectCreated:*"},
		}},
	}}
	sc := &S3EventClient{client: api}

	_, err := sc.Manage(context.Background(), baseParams())
	require.NoError(t, err)
	require.NotNil(t, api.put)
	assert.Len(t, api.put.NotificationConfiguration.LambdaFunctionConfigurations, 2)
	assert.Len(t, api.put.NotificationConfiguration.TopicConfigurations, 1)
}

func TestManageNoopWhenEntryMatches(t *testing.T) {
	api := &fakeS3API{current: &s3.GetBucketNotificationConfigurationOutput{
		LambdaFunctionConfigurations: []types.LambdaFunctionConfiguration{
			lambdaEntry("on-upload", functionARN, "s3:ObjectCreated:*"),
		},
	}}
	sc := &S3EventClient{client: api}

	result, err := sc.Manage(context.Background(), baseParams())
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Nil(t, api.put)
}

func TestManageReplacesDriftedEntry(t *testing.T) {
	api := &fakeS3API{current: &s3.GetBucketNotificationConfigurationOutput{
		LambdaFunctionConfigurations: []types.LambdaFunctionConfiguration{
			lambdaEntry("on-upload", functionARN, "s3:ObjectRemoved:*"),
		},
	}}
	sc := &S3EventClient{client: api}

	result, err := sc.Manage(context.Background(), baseParams())
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, api.put)
	require.Len(t, api.put.NotificationConfiguration.LambdaFunctionConfigurations, 1)
	assert.Equal(t, types.Event("s3:ObjectCreated:*"), api.put.NotificationConfiguration.LambdaFunctionConfigurations[0].Events[0])
}

func TestManageAppliesFilterRules(t *testing.T) {
	api := &fakeS3API{}
	sc := &S3EventClient{client: api}

	params := baseParams()
	params.Prefix = "incoming/"
	params.Suffix = ".jpg"
	_, err := sc.Manage(context.Background(), params)
	require.NoError(t, err)
	require.NotNil(t, api.put)
	entry := api.put.NotificationConfiguration.LambdaFunctionConfigurations[0]
	require.NotNil(t, entry.Filter)
	assert.Len(t, entry.Filter.Key.FilterRules, 2)
}

func TestManageRemovesEntry(t *testing.T) {
	api := &fakeS3API{current: &s3.GetBucketNotificationConfigurationOutput{
		LambdaFunctionConfigurations: []types.LambdaFunctionConfiguration{
			lambdaEntry("on-upload", functionARN, "s3:ObjectCreated:*"),
			lambdaEntry("other-entry", functionARN, "s3:ObjectRemoved:*"),
		},
	}}
	sc := &S3EventClient{client: api}

	result, err := sc.Manage(context.Background(), Params{Bucket: "uploads", State: "absent", ID: "on-upload"})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, api.put)
	require.Len(t, api.put.NotificationConfiguration.LambdaFunctionConfigurations, 1)
	assert.Equal(t, "other-entry", aws.ToString(api.put.NotificationConfiguration.LambdaFunctionConfigurations[0].Id))
}

func TestManageRemoveMissingIsNoop(t *testing.T) {
	api := &fakeS3API{}
	sc := &S3EventClient{client: api}

	result, err := sc.Manage(context.Background(), Params{Bucket: "uploads", State: "absent", ID: "on-upload"})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Nil(t, api.put)
}

func TestManageCheckMode(t *testing.T) {
	api := &fakeS3API{}
	sc := &S3EventClient{client: api, CheckMode: true}

	result, err := sc.Manage(context.Background(), baseParams())
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Nil(t, api.put)
}

func TestManageValidatesParams(t *testing.T) {
	sc := &S3EventClient{client: &fakeS3API{}}

	_, err := sc.Manage(context.Background(), Params{State: "present", ID: "on-upload"})
	assert.ErrorContains(t, err, "bucket")
	_, err = sc.Manage(context.Background(), Params{Bucket: "uploads", State: "present", ID: "on-upload"})
	assert.ErrorContains(t, err, "lambda_function_arn")
	_, err = sc.Manage(context.Background(), Params{Bucket: "uploads", State: "bogus", ID: "on-upload"})
	assert.ErrorContains(t, err, "state must be present or absent")
}
