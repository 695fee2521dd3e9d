package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/vecscan/internal/cli"
)

func Test_Apply_Drops_Lines_When_Project_Config_Has_Drop_Rule(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".vscan.json", `{"rules": [{"match": "^#", "action": "drop"}]}`)
	c.WriteFile("notes.txt", "a\n# comment\nb\n")

	stdout := c.MustRun("apply", "notes.txt")

	assert.Equal(t, "notes.txt: dropped 1", stdout)
	assert.Equal(t, "a\nb\n", c.ReadFile("notes.txt"))
}

func Test_Apply_Uses_Drop_Flag_When_No_Config_Exists(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("list.txt", "keep\ndebug: x\nkeep too")

	stdout := c.MustRun("apply", "--drop", "^debug:", "list.txt")

	assert.Equal(t, "list.txt: dropped 1", stdout)
	assert.Equal(t, "keep\nkeep too", c.ReadFile("list.txt"), "missing trailing newline should be preserved")
}

func Test_Apply_Combines_Actions_When_Several_Rules_Match(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".vscan.json", `{
		"rules": [
			{"name": "rename", "match": "foo", "action": "replace", "with": "bar"},
			{"match": "^section", "action": "insert-after", "lines": ["---"]},
			{"match": "^end$", "action": "insert-before", "lines": [""]},
		],
	}`)
	c.WriteFile("doc.txt", "section one\nfoo foo\nend\n")

	stdout := c.MustRun("apply", "doc.txt")

	assert.Equal(t, "doc.txt: replaced 1, inserted 2", stdout)
	assert.Equal(t, "section one\n---\nbar bar\n\nend\n", c.ReadFile("doc.txt"))
}

func Test_Apply_Stops_Early_When_Stop_After_Reached(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("x.txt", "x\nx\nx\n")

	stdout := c.MustRun("apply", "--drop", "x", "--stop-after", "2", "x.txt")

	assert.Equal(t, "x.txt: dropped 2", stdout)
	assert.Equal(t, "x\n", c.ReadFile("x.txt"))
}

func Test_Apply_Leaves_File_Untouched_When_Dry_Run(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("a.txt", "1\n2\n3\n")

	stdout := c.MustRun("apply", "--dry-run", "--drop", "2", "a.txt")

	assert.Equal(t, "1\n3", stdout)
	assert.Equal(t, "1\n2\n3\n", c.ReadFile("a.txt"))
}

func Test_Apply_Prints_Headers_When_Dry_Run_Has_Several_Files(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("a.txt", "a\nx\n")
	c.WriteFile("b.txt", "x\nb\n")

	stdout := c.MustRun("apply", "--dry-run", "--drop", "^x$", "a.txt", "b.txt")

	assert.Equal(t, "==> a.txt <==\na\n\n==> b.txt <==\nb", stdout)
}

func Test_Apply_Warns_When_No_Rules_Configured(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("a.txt", "a\n")

	stdout, stderr, exitCode := c.Run("apply", "a.txt")

	assert.Equal(t, 1, exitCode, "warnings should set exit code 1")
	assert.Equal(t, "a.txt: unchanged\n", stdout)
	cli.AssertContains(t, stderr, "warning: no rules configured")
	assert.Equal(t, "a\n", c.ReadFile("a.txt"))
}

func Test_Apply_Continues_With_Other_Files_When_One_Is_Missing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("a.txt", "a\nx\n")

	stdout, stderr, exitCode := c.Run("apply", "--drop", "x", "missing.txt", "a.txt")

	assert.Equal(t, 1, exitCode)
	assert.Equal(t, "a.txt: dropped 1\n", stdout)
	cli.AssertContains(t, stderr, "missing.txt")
	cli.AssertContains(t, stderr, "some files could not be processed: 1 of 2")
	assert.Equal(t, "a\n", c.ReadFile("a.txt"))
}

func Test_Apply_Fails_When_Invoked_Incorrectly(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		config string
		args   []string
		errMsg string
	}{
		{
			name:   "NoFiles",
			args:   []string{"apply", "--drop", "x"},
			errMsg: "no files given",
		},
		{
			name:   "NegativeStopAfter",
			args:   []string{"apply", "--stop-after", "-1", "a.txt"},
			errMsg: "--stop-after: value must not be negative",
		},
		{
			name:   "InvalidPattern",
			args:   []string{"apply", "--drop", "(", "a.txt"},
			errMsg: "invalid match pattern",
		},
		{
			name:   "InvalidAction",
			config: `{"rules": [{"match": "x", "action": "explode"}]}`,
			args:   []string{"apply", "a.txt"},
			errMsg: `invalid action: "explode"`,
		},
		{
			name:   "InsertWithoutLines",
			config: `{"rules": [{"match": "x", "action": "insert-after"}]}`,
			args:   []string{"apply", "a.txt"},
			errMsg: "insert action requires lines",
		},
		{
			name:   "MalformedConfig",
			config: `{"rules": [`,
			args:   []string{"apply", "a.txt"},
			errMsg: "invalid config file",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.WriteFile("a.txt", "x\n")

			if testCase.config != "" {
				c.WriteFile(".vscan.json", testCase.config)
			}

			stderr := c.MustFail(testCase.args...)

			cli.AssertContains(t, stderr, testCase.errMsg)
			require.Equal(t, "x\n", c.ReadFile("a.txt"), "file must not change on error")
		})
	}
}
