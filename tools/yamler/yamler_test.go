package yamler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stack.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestGetManifest(t *testing.T) {
	path := writeManifest(t, `
description: uploader stack
region: us-east-1
resources:
  - type: function
    name: uploader
    runtime: python3.12
    handler: app.handler
    role: uploader-role
    memory_size: 256
  - type: alias
    function_name: uploader
    name: live
    version: 2
  - type: permission
    state: absent
    function_name: uploader
    statement_id: old-grant
`)

	manifest, err := GetManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", manifest.Region)
	require.Len(t, manifest.Resources, 3)

	fn := manifest.Resources[0]
	assert.Equal(t, "function", fn.Kind())
	assert.Equal(t, "Function", fn.Title())
	assert.Equal(t, "present", fn.State)
	assert.Equal(t, int32(256), fn.MemorySize)

	assert.Equal(t, int64(2), manifest.Resources[1].Version)
	assert.Equal(t, "absent", manifest.Resources[2].State)
}

func TestGetManifestRejectsUnknownType(t *testing.T) {
	path := writeManifest(t, `
resources:
  - type: topic
    name: alerts
`)
	_, err := GetManifest(path)
	assert.ErrorContains(t, err, "unknown type")
}

func TestGetManifestRejectsBadState(t *testing.T) {
	path := writeManifest(t, `
resources:
  - type: function
    name: uploader
    state: paused
`)
	_, err := GetManifest(path)
	assert.ErrorContains(t, err, "state")
}

func TestGetManifestRejectsEmpty(t *testing.T) {
	path := writeManifest(t, "description: nothing here\n")
	_, err := GetManifest(path)
	assert.ErrorContains(t, err, "no resources")
}

func TestGetManifestMissingFile(t *testing.T) {
	_, err := GetManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
