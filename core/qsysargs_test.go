package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQsysArgsOverrides(t *testing.T) {
	data := &JobData{
		JobName:  "old",
		Walltime: time.Hour,
	}
	data.AddNode(NodeSpec{Procs: 2})

	err := ParseQsysArgs(data, "--wt 02:00:00 --np 8 -m 4gb --vmem 8gb --name water --queue short --mail user@example.org -p 5")
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, data.Walltime)
	assert.Equal(t, 8, data.ProcCount())
	assert.Equal(t, 1, data.NodeCount())
	assert.Equal(t, int64(4*1024*1024*1024), data.PhysicalMemory)
	assert.Equal(t, int64(8*1024*1024*1024), data.VirtualMemory)
	assert.Equal(t, "water", data.JobName)
	assert.Equal(t, "short", data.Queue)
	assert.Equal(t, "user@example.org", data.MailAddress)
	require.NotNil(t, data.Priority)
	assert.Equal(t, 5, *data.Priority)
}

func TestParseQsysArgsEmpty(t *testing.T) {
	data := &JobData{JobName: "keep"}
	require.NoError(t, ParseQsysArgs(data, ""))
	assert.Equal(t, "keep", data.JobName)
}

func TestParseQsysArgsErrors(t *testing.T) {
	assert.Error(t, ParseQsysArgs(&JobData{}, "--wt soon"))
	assert.Error(t, ParseQsysArgs(&JobData{}, "--np 0"))
	assert.Error(t, ParseQsysArgs(&JobData{}, "--mem lots"))
	assert.Error(t, ParseQsysArgs(&JobData{}, "--bogus 1"))
	assert.Error(t, ParseQsysArgs(&JobData{}, "stray"))
}
