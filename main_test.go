package main

import (
	"context"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// chomp runs the CLI without picking up a chomp.yaml from the working directory.
func chomp(t *testing.T, input string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	args = append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...)
	code = run(context.Background(), args, strings.NewReader(input), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestPlay(t *testing.T) {
	t.Run("losing to the solver", func(t *testing.T) {
		code, out, _ := chomp(t, "0 1\n0 0\n", "2", "2")
		require.Equal(t, 0, code)
		require.Contains(t, out, "##\n##\n")
		require.Contains(t, out, "AI moved: 1 0\n")
		require.True(t, strings.HasSuffix(out, "YOU LOSE!\n"))
	})

	t.Run("winning from a won position", func(t *testing.T) {
		code, out, _ := chomp(t, "1 1\n0 1\n", "2", "2")
		require.Equal(t, 0, code)
		require.Contains(t, out, "AI moved: 1 0\n")
		require.True(t, strings.HasSuffix(out, "YOU WIN!\n"))
	})

	t.Run("reprompting on bad input", func(t *testing.T) {
		code, out, _ := chomp(t, "7 7\n0 0\n", "1", "2")
		require.Equal(t, 0, code)
		require.Contains(t, out, "BAD SELECTION!")
		require.Contains(t, out, "YOU LOSE!")
	})

	t.Run("quitting", func(t *testing.T) {
		code, out, _ := chomp(t, "q\n", "3", "3")
		require.Equal(t, 0, code)
		require.Contains(t, out, "Bye!")
	})

	t.Run("running out of input", func(t *testing.T) {
		code, _, stderr := chomp(t, "", "3", "3")
		require.Equal(t, 1, code)
		require.Contains(t, stderr, "unexpected EOF")
	})
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{{}, {"3"}, {"a", "3"}, {"3", "4", "5"}, {"--bogus", "3", "3"}} {
		code, _, stderr := chomp(t, "", args...)
		require.Equal(t, 1, code, "%v", args)
		require.Contains(t, stderr, "Usage:", "%v", args)
	}

	t.Run("size violations exit without usage", func(t *testing.T) {
		code, _, stderr := chomp(t, "", "0", "3")
		require.Equal(t, 1, code)
		require.Contains(t, stderr, "not enough rows to play")
		require.NotContains(t, stderr, "Usage:")

		code, _, stderr = chomp(t, "", "3", "9")
		require.Equal(t, 1, code)
		require.Contains(t, stderr, "too many columns (9 > 8)")
	})
}

func TestSolve(t *testing.T) {
	code, out, _ := chomp(t, "", "solve", "2", "3")
	require.Equal(t, 0, code)
	require.Contains(t, out, "winning move: 1 2\n")

	code, out, _ = chomp(t, "", "--no-memo", "solve", "2", "2", "--heights", "2,1")
	require.Equal(t, 0, code)
	require.Contains(t, out, "no winning move\n")

	code, _, stderr := chomp(t, "", "solve", "2", "2", "--heights", "1,2")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "staircase")

	code, out, stderr = chomp(t, "", "solve", "2", "2", "--heights", "0,0")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "poison cell is already eaten")
	require.NotContains(t, out, "no winning move")
}

func TestServe(t *testing.T) {
	t.Run("shutting down when the context ends", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var out, errOut bytes.Buffer
		args := []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "serve", "--addr", "127.0.0.1:0"}
		code := run(ctx, args, strings.NewReader(""), &out, &errOut)
		require.Equal(t, 0, code, errOut.String())
	})

	t.Run("refusing the plain search", func(t *testing.T) {
		code, _, stderr := chomp(t, "", "--no-memo", "serve", "--addr", "127.0.0.1:0")
		require.Equal(t, 1, code)
		require.Contains(t, stderr, "--no-memo")
	})
}

func TestTablebaseBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tb")

	code, out, _ := chomp(t, "", "--tablebase", dir, "tablebase", "build", "2", "3")
	require.Equal(t, 0, code)
	require.Contains(t, out, "solved 9 shapes")
	require.Contains(t, out, "9 stored")

	// The game reuses the tablebase
	code, out, _ = chomp(t, "0 1\n0 0\n", "--tablebase", dir, "2", "2")
	require.Equal(t, 0, code)
	require.Contains(t, out, "YOU LOSE!")

	code, _, stderr := chomp(t, "", "tablebase", "build", "2", "3")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "--tablebase")
}

func TestExperiment(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "chomp.yaml")
	data := "experiments:\n  games: 1\n  workers: 2\n  boards: [\"2x2\"]\n  output_dir: " + filepath.Join(dir, "results") + "\n"
	require.NoError(t, os.WriteFile(config, []byte(data), 0600))

	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"--config", config, "experiment", "--name", "smoke"}, strings.NewReader(""), &out, &errOut)
	require.Equal(t, 0, code, errOut.String())
	require.Contains(t, out.String(), "4 games recorded in "+filepath.Join(dir, "results", "smoke"))
}
