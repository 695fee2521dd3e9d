package seqfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/vecscan/internal/seqfile"
)

var errTestCallback = errors.New("test callback error")

func writeFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seq.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600), "creating test file")

	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path) //nolint:gosec // test file
	require.NoError(t, err, "reading test file")

	return string(content)
}

func Test_Parse_Round_Trips_Content_When_Bytes_Called(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		content string
		want    seqfile.Lines
	}{
		{name: "Empty", content: "", want: seqfile.Lines{}},
		{name: "SingleNewline", content: "\n", want: seqfile.Lines{Lines: []string{""}, TrailingNewline: true}},
		{name: "NoTrailingNewline", content: "a\nb", want: seqfile.Lines{Lines: []string{"a", "b"}}},
		{name: "TrailingNewline", content: "a\nb\n", want: seqfile.Lines{Lines: []string{"a", "b"}, TrailingNewline: true}},
		{name: "BlankLines", content: "a\n\n\nb\n", want: seqfile.Lines{Lines: []string{"a", "", "", "b"}, TrailingNewline: true}},
		{name: "CRLF", content: "a\r\nb\r\n", want: seqfile.Lines{Lines: []string{"a\r", "b\r"}, TrailingNewline: true}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := seqfile.Parse([]byte(testCase.content))

			diff := cmp.Diff(testCase.want, got)
			require.Empty(t, diff, "parse mismatch (-want +got)")

			assert.Equal(t, testCase.content, string(got.Bytes()), "round trip mismatch")
		})
	}
}

func Test_Edit_Rewrites_File_When_Edit_Reports_Change(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "one\ntwo\nthree\n")

	err := seqfile.Edit(path, seqfile.Options{}, func(lines *seqfile.Lines) (bool, error) {
		assert.Equal(t, []string{"one", "two", "three"}, lines.Lines)

		lines.Lines = lines.Lines[:2]

		return true, nil
	})
	require.NoError(t, err)

	assert.Equal(t, "one\ntwo\n", readFile(t, path))
}

func Test_Edit_Leaves_File_Alone_When_Edit_Reports_No_Change(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "keep\n")

	before, err := os.Stat(path)
	require.NoError(t, err)

	err = seqfile.Edit(path, seqfile.Options{}, func(lines *seqfile.Lines) (bool, error) {
		lines.Lines = nil

		return false, nil
	})
	require.NoError(t, err)

	after, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, "keep\n", readFile(t, path))
	assert.True(t, os.SameFile(before, after), "file should not be replaced")
}

func Test_Edit_Returns_Callback_Error_When_Edit_Fails(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "x\n")

	err := seqfile.Edit(path, seqfile.Options{}, func(*seqfile.Lines) (bool, error) {
		return true, errTestCallback
	})
	require.ErrorIs(t, err, errTestCallback)

	assert.Equal(t, "x\n", readFile(t, path), "file must not change on error")
}

func Test_Edit_Returns_Error_When_File_Missing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.txt")

	err := seqfile.Edit(path, seqfile.Options{}, func(*seqfile.Lines) (bool, error) {
		t.Fatal("edit must not run for a missing file")

		return false, nil
	})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func Test_Edit_Returns_Error_When_Path_Is_Directory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	err := seqfile.Edit(dir, seqfile.Options{}, func(*seqfile.Lines) (bool, error) {
		return false, nil
	})
	require.ErrorIs(t, err, seqfile.ErrNotRegular)
}

func Test_Edit_Times_Out_When_Lock_Held(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "x\n")

	entered := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup

	wg.Add(1)

	go func() {
		defer wg.Done()

		_ = seqfile.Edit(path, seqfile.Options{}, func(*seqfile.Lines) (bool, error) {
			close(entered)
			<-release

			return false, nil
		})
	}()

	<-entered

	err := seqfile.Edit(path, seqfile.Options{LockTimeout: 50 * time.Millisecond}, func(*seqfile.Lines) (bool, error) {
		t.Error("edit must not run while the lock is held")

		return false, nil
	})

	close(release)
	wg.Wait()

	require.ErrorIs(t, err, seqfile.ErrLockTimeout)
}

func Test_Edit_Serializes_Writers_When_Run_Concurrently(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "")

	const writers = 8

	var wg sync.WaitGroup

	for range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			err := seqfile.Edit(path, seqfile.Options{}, func(lines *seqfile.Lines) (bool, error) {
				lines.Lines = append(lines.Lines, "line")
				lines.TrailingNewline = true

				return true, nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	got := seqfile.Parse([]byte(readFile(t, path)))
	assert.Len(t, got.Lines, writers, "every writer's append must survive")
}
