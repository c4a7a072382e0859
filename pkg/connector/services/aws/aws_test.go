package awsconnector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFunctionName(t *testing.T) {
	assert.NoError(t, ValidateFunctionName("uploader"))
	assert.NoError(t, ValidateFunctionName("uploader-v2"))
	assert.NoError(t, ValidateFunctionName("arn:aws:lambda:us-east-1:123456789012:function:uploader"))

	assert.Error(t, ValidateFunctionName("has spaces"))
	assert.Error(t, ValidateFunctionName("has/slash"))
	assert.Error(t, ValidateFunctionName(strings.Repeat("a", 65)))
}

func TestKnownAction(t *testing.T) {
	ActionsMap = map[string][]string{
		"lambda": {"InvokeFunction", "CreateFunction"},
		"s3":     {"GetObject"},
	}

	assert.True(t, KnownAction("lambda:InvokeFunction"))
	assert.True(t, KnownAction("lambda:*"))
	assert.False(t, KnownAction("lambda:LaunchRocket"))
	assert.False(t, KnownAction("glacier:GetObject"))
	assert.False(t, KnownAction("notanaction"))
}
