package main

import (
	"bytes"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupStoreEnv(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("AUTH_CONFIG_FILE", "")
	t.Setenv("AUTH_CLIENT_STORE", "sqlite")
	t.Setenv("AUTH_DATABASE_FILE", filepath.Join(dir, "registrar.db"))
	t.Setenv("AUTH_PEPPER_FILE", filepath.Join(dir, "pepper"))
	t.Setenv("AUTH_MASTER_KEY", "cli-test-master-key")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "registrar version ")
}

func TestBootstrapThenManageClients(t *testing.T) {
	setupStoreEnv(t)

	out, err := run(t, "clients", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No clients registered")

	out, err = run(t, "bootstrap", "--name", "ops")
	require.NoError(t, err)
	m := regexp.MustCompile(`client_id:\s+(\S+)`).FindStringSubmatch(out)
	require.Len(t, m, 2)
	clientID := m[1]
	require.Regexp(t, `client_secret:\s+\S+`, out)
	require.Contains(t, out, "client.create")

	_, err = run(t, "bootstrap", "--name", "again")
	require.ErrorContains(t, err, "refusing to bootstrap")

	out, err = run(t, "clients", "list")
	require.NoError(t, err)
	require.Contains(t, out, clientID)
	require.Contains(t, out, "protected")

	_, err = run(t, "clients", "delete", clientID)
	require.ErrorContains(t, err, "cannot be deleted")

	_, err = run(t, "clients", "delete", "missing")
	require.ErrorContains(t, err, "no client with id")
}

func TestBootstrap_RejectsBadName(t *testing.T) {
	setupStoreEnv(t)

	_, err := run(t, "bootstrap", "--name", "has spaces")
	require.ErrorContains(t, err, "invalid client_name")
}

func TestKeys_EmptyStore(t *testing.T) {
	setupStoreEnv(t)

	out, err := run(t, "keys", "list")
	require.NoError(t, err)
	require.Contains(t, out, "No signing keys stored")

	_, err = run(t, "keys", "retire", "registrar-missing")
	require.ErrorContains(t, err, "no signing key")
}

func TestOperatorCommands_RefuseMemoryStore(t *testing.T) {
	setupStoreEnv(t)
	t.Setenv("AUTH_CLIENT_STORE", "memory")

	_, err := run(t, "clients", "list")
	require.ErrorContains(t, err, "memory store")
}
