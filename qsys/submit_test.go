package qsys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSubmitProgram writes an executable shell script standing in for
// sbatch/qsub and returns its path.
func fakeSubmitProgram(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-submit")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func TestSubmitScrapesJobID(t *testing.T) {
	def := builtins()["slurm"]
	def.SubmitProgram = fakeSubmitProgram(t, `echo "Submitted batch job 4242"`)

	id, err := def.Submit("echo hello\n")
	require.NoError(t, err)
	assert.Equal(t, "4242", id)
}

func TestSubmitReportsStderr(t *testing.T) {
	def := builtins()["slurm"]
	def.SubmitProgram = fakeSubmitProgram(t,
		`echo "sbatch: error: invalid partition specified" >&2`+"\nexit 1\n")

	_, err := def.Submit("echo hello\n")
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid partition specified")
}

func TestSubmitNoProgram(t *testing.T) {
	def := Definition{Name: "broken"}
	_, err := def.Submit("echo hello\n")
	assert.ErrorContains(t, err, "no submit program")
}
