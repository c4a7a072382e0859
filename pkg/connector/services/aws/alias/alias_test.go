package alias

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/lambda/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAliasAPI struct {
	existing *lambda.GetAliasOutput
	getErr   error
	created  *lambda.CreateAliasInput
	updated  *lambda.UpdateAliasInput
	deleted  *lambda.DeleteAliasInput
}

func (f *fakeAliasAPI) GetAlias(ctx context.Context, params *lambda.GetAliasInput, optFns ...func(*lambda.Options)) (*lambda.GetAliasOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.existing, nil
}

func (f *fakeAliasAPI) CreateAlias(ctx context.Context, params *lambda.CreateAliasInput, optFns ...func(*lambda.Options)) (*lambda.CreateAliasOutput, error) {
	f.created = params
	return &lambda.CreateAliasOutput{
		AliasArn:        aws.String("arn:aws:lambda:us-east-1:123456789012:function:uploader:" + aws.ToString(params.Name)),
		Name:            params.Name,
		FunctionVersion: params.FunctionVersion,
		Description:     params.Description,
	}, nil
}

func (f *fakeAliasAPI) UpdateAlias(ctx context.Context, params *lambda.UpdateAliasInput, optFns ...func(*lambda.Options)) (*lambda.UpdateAliasOutput, error) {
	f.updated = params
	return &lambda.UpdateAliasOutput{
		Name:            params.Name,
		FunctionVersion: params.FunctionVersion,
		Description:     params.Description,
	}, nil
}

func (f *fakeAliasAPI) DeleteAlias(ctx context.Context, params *lambda.DeleteAliasInput, optFns ...func(*lambda.Options)) (*lambda.DeleteAliasOutput, error) {
	f.deleted = params
	return &lambda.DeleteAliasOutput{}, nil
}

func existingAlias(version string) *lambda.GetAliasOutput {
	return &lambda.GetAliasOutput{
		AliasArn:        aws.String("arn:aws:lambda:us-east-1:123456789012:function:uploader:live"),
		Name:            aws.String("live"),
		FunctionVersion: aws.String(version),
	}
}

func TestManageCreatesMissingAlias(t *testing.T) {
	api := &fakeAliasAPI{getErr: &types.ResourceNotFoundException{}}
	ac := &AliasClient{client: api}

	result, err := ac.Manage(context.Background(), Params{
		FunctionName: "uploader",
		Name:         "live",
		State:        "present",
		Version:      2,
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, api.created)
	assert.Equal(t, "2", aws.ToString(api.created.FunctionVersion))
	assert.Equal(t, "live", aws.ToString(result.Alias.Name))
}

func TestManageVersionZeroMeansLatest(t *testing.T) {
	api := &fakeAliasAPI{getErr: &types.ResourceNotFoundException{}}
	ac := &AliasClient{client: api}

	_, err := ac.Manage(context.Background(), Params{
		FunctionName: "uploader",
		Name:         "live",
		State:        "present",
	})
	require.NoError(t, err)
	require.NotNil(t, api.created)
	assert.Equal(t, "$LATEST", aws.ToString(api.created.FunctionVersion))
}

func TestManageRepointsAlias(t *testing.T) {
	api := &fakeAliasAPI{existing: existingAlias("2")}
	ac := &AliasClient{client: api}

	result, err := ac.Manage(context.Background(), Params{
		FunctionName: "uploader",
		Name:         "live",
		State:        "present",
		Version:      3,
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, api.updated)
	assert.Equal(t, "3", aws.ToString(api.updated.FunctionVersion))
}

func TestManageNoopWhenAliasMatches(t *testing.T) {
	api := &fakeAliasAPI{existing: existingAlias("2")}
	ac := &AliasClient{client: api}

	result, err := ac.Manage(context.Background(), Params{
		FunctionName: "uploader",
		Name:         "live",
		State:        "present",
		Version:      2,
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Nil(t, api.updated)
}

func TestManageDeletesAlias(t *testing.T) {
	api := &fakeAliasAPI{existing: existingAlias("2")}
	ac := &AliasClient{client: api}

	result, err := ac.Manage(context.Background(), Params{
		FunctionName: "uploader",
		Name:         "live",
		State:        "absent",
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	require.NotNil(t, api.deleted)
	assert.Nil(t, result.Alias)
}

func TestManageDeleteMissingIsNoop(t *testing.T) {
	api := &fakeAliasAPI{getErr: &types.ResourceNotFoundException{}}
	ac := &AliasClient{client: api}

	result, err := ac.Manage(context.Background(), Params{
		FunctionName: "uploader",
		Name:         "live",
		State:        "absent",
	})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Nil(t, api.deleted)
}

func TestManageCheckMode(t *testing.T) {
	api := &fakeAliasAPI{existing: existingAlias("2")}
	ac := &AliasClient{client: api, CheckMode: true}

	result, err := ac.Manage(context.Background(), Params{
		FunctionName: "uploader",
		Name:         "live",
		State:        "present",
		Version:      9,
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.True(t, result.CheckMode)
	assert.Nil(t, api.updated)
}

func TestManageRequiresNames(t *testing.T) {
	ac := &AliasClient{client: &fakeAliasAPI{}}
	_, err := ac.Manage(context.Background(), Params{Name: "live", State: "present"})
	assert.Error(t, err)
	_, err = ac.Manage(context.Background(), Params{FunctionName: "uploader", State: "present"})
	assert.Error(t, err)
}

func TestManageRejectsUnknownState(t *testing.T) {
	ac := &AliasClient{client: &fakeAliasAPI{}}
	_, err := ac.Manage(context.Background(), Params{FunctionName: "uploader", Name: "live", State: "bogus"})
	assert.ErrorContains(t, err, "state must be present or absent")
}
