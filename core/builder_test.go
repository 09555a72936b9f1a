package core

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHook struct {
	text string
	err  error
}

func (h *fakeHook) Generate(data *JobData, env *Environment, calc *CalcEnv) (string, error) {
	return h.text, h.err
}

func testBuilder() *Builder {
	env := DefaultEnvironment()
	return NewBuilder(&JobData{JobName: "test"}, &env)
}

func TestBuildRequiresPayloadHook(t *testing.T) {
	_, err := testBuilder().Build()
	assert.Error(t, err)
}

func TestBuildHookOrder(t *testing.T) {
	b := testBuilder()
	b.AddPayloadHook(&fakeHook{text: "MARK_LAST"}, PrioCopyOut)
	b.AddPayloadHook(&fakeHook{text: "MARK_FIRST"}, PrioCopyIn)
	b.AddPayloadHook(&fakeHook{text: "MARK_MID_A"}, PrioPayload)
	b.AddPayloadHook(&fakeHook{text: "MARK_MID_B"}, PrioPayload)

	script, err := b.Build()
	require.NoError(t, err)

	var got []string
	for _, line := range strings.Split(script, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "MARK_") {
			got = append(got, line)
		}
	}
	want := []string{"MARK_FIRST", "MARK_MID_A", "MARK_MID_B", "MARK_LAST"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("hook order mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildGuardsAndEpilogue(t *testing.T) {
	b := testBuilder()
	b.Calc.SubmitDirVar = "SLURM_SUBMIT_DIR"
	b.AddPayloadHook(&fakeHook{text: "payload_section"}, PrioPayload)
	b.AddErrorHook(&fakeHook{text: "error_section"}, PrioCopyIn)

	script, err := b.Build()
	require.NoError(t, err)

	assert.Contains(t, script, `JOB_SUBMIT_DIR="${SLURM_SUBMIT_DIR:-$PWD}"`)
	assert.Contains(t, script, `mkdir -p "${JOB_WORK_DIR}"`)
	assert.Contains(t, script, `cd "${JOB_WORK_DIR}" || exit 1`)
	assert.Contains(t, script, `if [ "${RETURN_VALUE}" -eq 0 ]; then`)
	assert.Contains(t, script, `if [ "${RETURN_VALUE}" -ne 0 ]; then`)
	assert.Contains(t, script, `rm -rf "${NODE_SCRATCH_DIR}"`)
	assert.Contains(t, script, `exit "${RETURN_VALUE}"`)

	// error section sits inside the failure branch
	failIdx := strings.Index(script, `-ne 0`)
	errIdx := strings.Index(script, "error_section")
	require.True(t, failIdx >= 0 && errIdx > failIdx)

	// no scheduler variable configured falls back to $PWD
	b2 := testBuilder()
	b2.AddPayloadHook(&fakeHook{text: "x"}, PrioPayload)
	script2, err := b2.Build()
	require.NoError(t, err)
	assert.Contains(t, script2, `JOB_SUBMIT_DIR="$PWD"`)
}

func TestBuildHookError(t *testing.T) {
	b := testBuilder()
	b.AddPayloadHook(&fakeHook{err: errors.New("boom")}, PrioPayload)
	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestCopyHooks(t *testing.T) {
	env := DefaultEnvironment()
	calc := DefaultCalcEnv()
	data := &JobData{}

	in, err := NewCopyInHook([]string{"water.in", "sub/other.mol", "/data/guess.fchk"}).
		Generate(data, &env, &calc)
	require.NoError(t, err)
	assert.Contains(t, in, `cp "${JOB_SUBMIT_DIR}/water.in" .`)
	assert.Contains(t, in, `cp "${JOB_SUBMIT_DIR}/sub/other.mol" .`)
	// absolute sources are not resolved against the submit directory
	assert.Contains(t, in, `cp "/data/guess.fchk" .`)
	assert.NotContains(t, in, `${JOB_SUBMIT_DIR}//data`)
	assert.Contains(t, in, "RETURN_VALUE=1")

	out, err := NewCopyOutHook([]string{"water.out"}).Generate(data, &env, &calc)
	require.NoError(t, err)
	assert.Contains(t, out, `if [ -e "water.out" ]; then`)
	assert.Contains(t, out, `cp -r "water.out" "${JOB_SUBMIT_DIR}/"`)

	empty, err := NewCopyOutHook(nil).Generate(data, &env, &calc)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
