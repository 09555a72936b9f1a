package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWalltime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"01:30:00", 90 * time.Minute},
		{"00:00:30", 30 * time.Second},
		{"30:00", 30 * time.Minute},
		{"3600", time.Hour},
		{"2h30m", 2*time.Hour + 30*time.Minute},
		{" 10:00:00 ", 10 * time.Hour},
	}
	for _, c := range cases {
		got, err := ParseWalltime(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	for _, in := range []string{"", "junk", "-5", "-2h", "1:2:3:4", "1:xx"} {
		_, err := ParseWalltime(in)
		assert.Error(t, err, in)
	}
}

func TestFormatWalltime(t *testing.T) {
	assert.Equal(t, "01:30:00", FormatWalltime(90*time.Minute))
	assert.Equal(t, "00:00:45", FormatWalltime(45*time.Second))
	assert.Equal(t, "25:00:00", FormatWalltime(25*time.Hour))
}

func TestParseMemory(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"4gb", 4 * 1024 * 1024 * 1024},
		{"4G", 4 * 1024 * 1024 * 1024},
		{"512", 512 * 1024 * 1024},
		{"2048K", 2048 * 1024},
		{"1tb", 1024 * 1024 * 1024 * 1024},
		{"300mb", 300 * 1024 * 1024},
	}
	for _, c := range cases {
		got, err := ParseMemory(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}

	for _, in := range []string{"", "gb", "4q", "lots"} {
		_, err := ParseMemory(in)
		assert.Error(t, err, in)
	}
}

func TestMemoryMB(t *testing.T) {
	assert.Equal(t, int64(1), MemoryMB(1))
	assert.Equal(t, int64(1), MemoryMB(1024*1024))
	assert.Equal(t, int64(2), MemoryMB(1024*1024+1))
	assert.Equal(t, int64(2048), MemoryMB(2*1024*1024*1024))
}

func TestJobDataCounts(t *testing.T) {
	data := &JobData{}
	assert.Equal(t, 0, data.NodeCount())
	assert.Equal(t, 0, data.ProcCount())

	data.AddNode(NodeSpec{Procs: 4})
	data.AddNode(NodeSpec{Procs: 2})
	assert.Equal(t, 2, data.NodeCount())
	assert.Equal(t, 6, data.ProcCount())
}
