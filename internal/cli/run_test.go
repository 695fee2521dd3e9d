package cli_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calvinalkan/vecscan/internal/cli"
)

func Test_Invalid_Global_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, exitCode := c.Run("--invalid-flag", "apply")

	assert.Equal(t, 2, exitCode, "usage errors exit with 2")
	assert.Empty(t, stdout)

	cli.AssertContains(t, stderr, "unknown flag")
	cli.AssertContains(t, stderr, "--invalid-flag")
	cli.AssertContains(t, stderr, "--cwd")
	cli.AssertContains(t, stderr, "--config")
}

func Test_Bare_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	// Call Run directly without test helper (which adds --cwd)
	var stdout, stderr bytes.Buffer

	exitCode := cli.Run(context.Background(), nil, &stdout, &stderr, []string{"vscan"}, nil)

	assert.Equal(t, 0, exitCode)
	assert.Empty(t, stderr.String())

	cli.AssertContains(t, stdout.String(), "vscan - apply line rules")
	cli.AssertContains(t, stdout.String(), "--cwd")
	cli.AssertContains(t, stdout.String(), "apply [flags] <file>...")
	cli.AssertContains(t, stdout.String(), "print-config")
}

func Test_Unknown_Command_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	_, stderr, exitCode := c.Run("frobnicate")

	assert.Equal(t, 2, exitCode)

	cli.AssertContains(t, stderr, "unknown command: frobnicate")
	cli.AssertContains(t, stderr, "Commands:")
}

func Test_Command_Help_When_Help_Flag_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("apply", "--help")

	cli.AssertContains(t, stdout, "Usage: vscan apply [flags] <file>...")
	cli.AssertContains(t, stdout, "--dry-run")
	cli.AssertContains(t, stdout, "--drop")
	cli.AssertContains(t, stdout, "--stop-after")
}

func Test_Print_Config_When_Project_Config_Exists(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".vscan.json", `{
		// comments are allowed
		"rules": [
			{"match": "^#", "action": "drop"},
		],
		"stop_after": 3,
	}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"match": "^#"`)
	cli.AssertContains(t, stdout, `"action": "drop"`)
	cli.AssertContains(t, stdout, `"stop_after": 3`)
	cli.AssertContains(t, stdout, "# project:")
	cli.AssertNotContains(t, stdout, "# global:")
}

func Test_Print_Config_Includes_Global_Config_When_XDG_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["XDG_CONFIG_HOME"] = c.Dir + "/xdg"
	c.WriteFile("xdg/vscan/rules.json", `{"rules": [{"match": "TODO", "action": "drop"}]}`)

	stdout := c.MustRun("print-config")

	cli.AssertContains(t, stdout, `"match": "TODO"`)
	cli.AssertContains(t, stdout, "# global:")
}

func Test_Print_Config_Fails_When_Explicit_Config_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("-c", "missing.json", "print-config")

	cli.AssertContains(t, stderr, "config file not found")
}

func Test_Command_Exits_With_Usage_Code_When_Flag_Unknown(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("a.txt", "a\n")

	stdout, stderr, exitCode := c.Run("apply", "--no-such-flag", "a.txt")

	assert.Equal(t, 2, exitCode)
	assert.Empty(t, stdout)
	cli.AssertContains(t, stderr, "unknown flag: --no-such-flag")
	cli.AssertContains(t, stderr, "run 'vscan apply --help' for usage")
}

func Test_Command_Help_Lists_Examples_When_Defined(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("apply", "-h")

	cli.AssertContains(t, stdout, "Examples:")
	cli.AssertContains(t, stdout, "vscan apply --dry-run --drop '^#' a.txt b.txt")
}
