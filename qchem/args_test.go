package qchem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qsys-tools/qchem-script/core"
)

func writeInFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExamineDefaults(t *testing.T) {
	infile := writeInFile(t, "water.in", "$rem\nmethod hf\n$end\n")
	data := &core.JobData{}

	job, err := Examine(&Options{}, infile, data)
	require.NoError(t, err)

	assert.Equal(t, "water.in", job.RunFile)
	assert.Equal(t, "water.out", job.OutFile)
	assert.Equal(t, "water", data.JobName)
	assert.Equal(t, []string{infile}, job.CopyIn)
	assert.Equal(t, []string{"water.out"}, job.CopyOut)
	assert.Equal(t, []string{"water.out"}, job.CopyErrorOut)
}

func TestExamineKeepsOtherExtensions(t *testing.T) {
	infile := writeInFile(t, "water.qcin", "")
	data := &core.JobData{}

	job, err := Examine(&Options{}, infile, data)
	require.NoError(t, err)
	assert.Equal(t, "water.qcin.out", job.OutFile)
	assert.Equal(t, "water.qcin", data.JobName)
}

func TestExamineExplicitValues(t *testing.T) {
	infile := writeInFile(t, "water.in", "")
	data := &core.JobData{JobName: "given"}

	job, err := Examine(&Options{Out: "custom.out", SaveDir: "keep", Save: true},
		infile, data)
	require.NoError(t, err)
	assert.Equal(t, "custom.out", job.OutFile)
	assert.Equal(t, "keep", job.SaveDir)
	assert.True(t, job.Save)
	assert.Equal(t, "given", data.JobName)
}

func TestExamineValidation(t *testing.T) {
	infile := writeInFile(t, "water.in", "")

	_, err := Examine(&Options{}, filepath.Join(t.TempDir(), "missing.in"), &core.JobData{})
	assert.ErrorContains(t, err, "file not found")

	_, err = Examine(&Options{Save: true}, infile, &core.JobData{})
	assert.ErrorContains(t, err, "--savedir")

	_, err = Examine(&Options{SaveDir: "a/b"}, infile, &core.JobData{})
	assert.ErrorContains(t, err, "not be a path")

	_, err = Examine(&Options{NpToQchem: true, NtToQchem: true}, infile, &core.JobData{})
	assert.ErrorContains(t, err, "mutually exclusive")
}

func TestRegisterHooks(t *testing.T) {
	infile := writeInFile(t, "water.in", "")
	data := &core.JobData{}
	job, err := Examine(&Options{Executable: "/opt/qchem/bin/qchem"}, infile, data)
	require.NoError(t, err)

	env := core.DefaultEnvironment()
	b := core.NewBuilder(data, &env)
	job.Register(b)

	script, err := b.Build()
	require.NoError(t, err)

	// copy-in before the qchem call, copy-out after it
	copyIn := indexOf(t, script, "copy input files")
	payload := indexOf(t, script, "/opt/qchem/bin/qchem")
	copyOut := indexOf(t, script, "copy result files")
	assert.Less(t, copyIn, payload)
	assert.Less(t, payload, copyOut)
}

func TestScriptUsesWorkDirNames(t *testing.T) {
	// infile paths live in the submit directory, the script works on
	// flat copies in the work directory
	infile := writeInFile(t, "water.in", "$rem\nmethod hf\n$end\n")
	data := &core.JobData{}
	job, err := Examine(&Options{Executable: "qchem"}, infile, data)
	require.NoError(t, err)

	env := core.DefaultEnvironment()
	b := core.NewBuilder(data, &env)
	job.Register(b)
	script, err := b.Build()
	require.NoError(t, err)

	assert.Contains(t, script, `cp "`+infile+`" .`)
	assert.NotContains(t, script, "${JOB_SUBMIT_DIR}//")
	assert.Contains(t, script, `qchem "water.in" "water.out"`)
	assert.Contains(t, script, `" "water.out"; then`)
	assert.Contains(t, script, `cp -r "water.out" "${JOB_SUBMIT_DIR}/"`)
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	idx := strings.Index(s, sub)
	require.GreaterOrEqual(t, idx, 0, "missing %q", sub)
	return idx
}
