package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("ROUTERBOT_TEST_STUDENT=66070046\nROUTERBOT_TEST_PRESET=file\n"), 0o600))

	t.Setenv("ROUTERBOT_TEST_PRESET", "env")
	t.Setenv("ROUTERBOT_TEST_STUDENT", "")
	require.NoError(t, os.Unsetenv("ROUTERBOT_TEST_STUDENT"))

	require.NoError(t, initEnv(context.Background(), dir))
	assert.Equal(t, "66070046", os.Getenv("ROUTERBOT_TEST_STUDENT"))
	assert.Equal(t, "env", os.Getenv("ROUTERBOT_TEST_PRESET"))
}

func TestInitEnv_Missing(t *testing.T) {
	assert.NoError(t, initEnv(context.Background(), filepath.Join(t.TempDir(), "nope")))
}

func TestReadMessage(t *testing.T) {
	msg, err := readMessage([]string{"/66070046 create"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "/66070046 create", msg)

	msg, err = readMessage(nil, strings.NewReader("  /66070046 status\n"))
	require.NoError(t, err)
	assert.Equal(t, "/66070046 status", msg)
}
