package permission

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePermissionAPI struct {
	policy  string
	getErr  error
	added   *lambda.AddPermissionInput
	removed *lambda.RemovePermissionInput
}

func (f *fakePermissionAPI) GetPolicy(ctx context.Context, params *lambda.GetPolicyInput, optFns ...func(*lambda.Options)) (*lambda.GetPolicyOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &lambda.GetPolicyOutput{Policy: aws.String(f.policy)}, nil
}

func (f *fakePermissionAPI) AddPermission(ctx context.Context, params *lambda.AddPermissionInput, optFns ...func(*lambda.Options)) (*lambda.AddPermissionOutput, error) {
	f.added = params
	statement := `{"Sid":"` + aws.ToString(params.StatementId) + `","Effect":"Allow","Action":"` + aws.ToString(params.Action) + `"}`
	return &lambda.AddPermissionOutput{Statement: aws.String(statement)}, nil
}

func (f *fakePermissionAPI) RemovePermission(ctx context.Context, params *lambda.RemovePermissionInput, optFns ...func(*lambda.Options)) (*lambda.RemovePermissionOutput, error) {
	f.removed = params
	return &lambda.RemovePermissionOutput{}, nil
}

func newTestClient(api *fakePermissionAPI, checkMode bool) *PermissionClient {
	return &PermissionClient{client: api, CheckMode: checkMode}
}

const s3InvokePolicy = `{
	"Version": "2012-10-17",
	"Id": "default",
	"Statement": [{
		"Sid": "s3-invoke",
		"Effect": "Allow",
		"Principal": {"Service": "s3.amazonaws.com"},
		"Action": "lambda:InvokeFunction",
		"Resource": "arn:aws:lambda:us-east-1:123456789012:function:uploader"
	}]
}`

func TestManageAddsMissingStatement(t *testing.T) {
	api := &fakePermissionAPI{getErr: &types.ResourceNotFoundException{}}
	pc := newTestClient(api, false)

	result, err := pc.Manage(context.Background(), Params{
		FunctionName: "uploader",
		State:        "present",
		StatementID:  "s3-invoke",
		Action:       "lambda:InvokeFunction",
		Principal:    "s3.amazonaws.com",
		SourceARN:    "arn:aws:s3:::uploads",
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Nil(t, api.removed)
	require.NotNil(t, api.added)
	assert.Equal(t, "s3-invoke", aws.ToString(api.added.StatementId))
	assert.Equal(t, "arn:aws:s3:::uploads", aws.ToString(api.added.SourceArn))
	require.NotNil(t, result.Statement)
	assert.Equal(t, "s3-invoke", result.Statement.SID)
}

func TestManageKeepsMatchingStatement(t *testing.T) {
	api := &fakePermissionAPI{policy: s3InvokePolicy}
	pc := newTestClient(api, false)

	result, err := pc.Manage(context.Background(), Params{
		FunctionName: "uploader",
		State:        "present",
		StatementID:  "s3-invoke",
		Action:       "lambda:InvokeFunction",
		Principal:    "s3.amazonaws.com",
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Nil(t, api.added)
	assert.Nil(t, api.removed)
	assert.Len(t, result.Policy.Statement, 1)
}

func TestManageReplacesDriftedStatement(t *testing.T) {
	api := &fakePermissionAPI{policy: s3InvokePolicy}
	pc := newTestClient(api, false)

	result, err := pc.Manage(context.Background(), Params{
		FunctionName: "uploader",
		State:        "present",
		StatementID:  "s3-invoke",
		Action:       "lambda:InvokeFunction",
		Principal:    "sns.amazonaws.com",
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, api.removed)
	require.NotNil(t, api.added)
	assert.Equal(t, "sns.amazonaws.com", aws.ToString(api.added.Principal))
}

func TestManageRemovesStatement(t *testing.T) {
	api := &fakePermissionAPI{policy: s3InvokePolicy}
	pc := newTestClient(api, false)

	result, err := pc.Manage(context.Background(), Params{
		FunctionName: "uploader",
		State:        "absent",
		StatementID:  "s3-invoke",
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, api.removed)
	assert.Equal(t, "s3-invoke", aws.ToString(api.removed.StatementId))
}

func TestManageRemoveMissingIsNoop(t *testing.T) {
	api := &fakePermissionAPI{getErr: &types.ResourceNotFoundException{}}
	pc := newTestClient(api, false)

	result, err := pc.Manage(context.Background(), Params{
		FunctionName: "uploader",
		State:        "absent",
		StatementID:  "s3-invoke",
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Nil(t, api.removed)
}

func TestManageCheckModeSkipsCalls(t *testing.T) {
	api := &fakePermissionAPI{getErr: &types.ResourceNotFoundException{}}
	pc := newTestClient(api, true)

	result, err := pc.Manage(context.Background(), Params{
		FunctionName: "uploader",
		State:        "present",
		StatementID:  "s3-invoke",
		Action:       "lambda:InvokeFunction",
		Principal:    "s3.amazonaws.com",
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.CheckMode)
	assert.Nil(t, api.added)
	assert.Nil(t, api.removed)
}

func TestManageGeneratesStatementID(t *testing.T) {
	api := &fakePermissionAPI{getErr: &types.ResourceNotFoundException{}}
	pc := newTestClient(api, false)

	_, err := pc.Manage(context.Background(), Params{
		FunctionName: "uploader",
		State:        "present",
		Action:       "lambda:InvokeFunction",
		Principal:    "s3.amazonaws.com",
	})
	require.NoError(t, err)
	require.NotNil(t, api.added)
	sid := aws.ToString(api.added.StatementId)
	assert.True(t, strings.HasPrefix(sid, "lambdactl-"))
	assert.Len(t, sid, len("lambdactl-")+8)
}

func TestManageRequiresPrincipal(t *testing.T) {
	pc := newTestClient(&fakePermissionAPI{}, false)
	_, err := pc.Manage(context.Background(), Params{
		FunctionName: "uploader",
		State:        "present",
		Action:       "lambda:InvokeFunction",
	})
	assert.Error(t, err)
}

func TestManageRejectsUnknownState(t *testing.T) {
	api := &fakePermissionAPI{}
	pc := newTestClient(api, false)
	_, err := pc.Manage(context.Background(), Params{
		FunctionName: "uploader",
		State:        "bogus",
		Action:       "lambda:InvokeFunction",
		Principal:    "s3.amazonaws.com",
	})
	assert.ErrorContains(t, err, "state must be present or absent")
	assert.Nil(t, api.added)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&types.ResourceNotFoundException{}))
	assert.False(t, IsNotFound(errors.New("throttled")))
	assert.False(t, IsNotFound(nil))
}
