package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "btcx-e2e-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "btcx")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func runCLI(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()
	args = append([]string{"--data-dir", dataDir}, args...)
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "btcx")
}

func TestInfoBeforeInit(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "info")
	require.NoError(t, err)
	assert.Contains(t, out, "BTCX Digital Currency")
	assert.Contains(t, out, "not initialized")
}

func TestInitAndQueryFlow(t *testing.T) {
	dir := t.TempDir()
	const recipient = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	out, err := runCLI(t, dir, "init", "--recipient", recipient, "--supply", "1000")
	require.NoError(t, err, out)
	assert.Contains(t, out, "ledger initialized")

	out, err = runCLI(t, dir, "supply")
	require.NoError(t, err, out)
	assert.Contains(t, out, "1000")

	out, err = runCLI(t, dir, "balance", recipient)
	require.NoError(t, err, out)
	assert.Contains(t, out, "1000")

	// A second init must be rejected: the supply is minted exactly once.
	out, err = runCLI(t, dir, "init", "--recipient", recipient)
	require.Error(t, err)
	assert.Contains(t, strings.ToLower(out), "already initialized")
}

func TestEventsRecorded(t *testing.T) {
	dir := t.TempDir()
	const recipient = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"

	_, err := runCLI(t, dir, "init", "--recipient", recipient, "--supply", "50")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "events")
	require.NoError(t, err, out)
	assert.Contains(t, out, "transfer")
	assert.Contains(t, out, "initialized")
}

func TestUnknownWalletRejected(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "balance", "no-such-wallet")
	require.Error(t, err)
	assert.Contains(t, out, "neither an address nor a known wallet")
}
