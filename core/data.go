package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// NodeSpec describes one requested node.
type NodeSpec struct {
	Procs int `json:"procs"`
}

// JobData is the merged queuing-system configuration for one job. It is
// filled from the command line, from --qsys-args and from directives
// found in the input file; zero values mean "not requested".
type JobData struct {
	JobName        string        `json:"job_name"`
	Walltime       time.Duration `json:"walltime"`
	PhysicalMemory int64         `json:"physical_memory"`
	VirtualMemory  int64         `json:"virtual_memory"`
	Queue          string        `json:"queue"`
	MailAddress    string        `json:"mail_address"`
	Priority       *int          `json:"priority,omitempty"`
	NodeSpecs      []NodeSpec    `json:"node_specs"`
}

func (d *JobData) AddNode(n NodeSpec) {
	d.NodeSpecs = append(d.NodeSpecs, n)
}

// NodeCount returns the number of requested nodes.
func (d *JobData) NodeCount() int {
	return len(d.NodeSpecs)
}

// ProcCount returns the total processor count over all requested nodes.
func (d *JobData) ProcCount() int {
	procs := 0
	for _, n := range d.NodeSpecs {
		procs += n.Procs
	}
	return procs
}

var (
	memBase   = regexp.MustCompile("^[0-9]+")
	memSuffix = regexp.MustCompile("(?i)[kmgt]b?$")
)

// ParseMemory decodes a memory request like "4gb", "512M" or "2048"
// into bytes. Bare numbers are megabytes, which is what Q-Chem's
// mem_total uses.
func ParseMemory(req string) (int64, error) {
	req = strings.TrimSpace(req)
	match := memBase.FindString(req)
	if len(match) == 0 {
		return 0, errors.New("invalid memory request: " + req)
	}
	base, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0, errors.New("invalid memory request: " + req)
	}
	rest := req[len(match):]
	if len(rest) > 0 && !memSuffix.MatchString(rest) {
		return 0, errors.New("invalid memory request: " + req)
	}
	switch strings.ToUpper(memSuffix.FindString(rest) + " ")[:1] {
	case "K":
		return base * 1024, nil
	case "M":
		return base * 1024 * 1024, nil
	case "G":
		return base * 1024 * 1024 * 1024, nil
	case "T":
		return base * 1024 * 1024 * 1024 * 1024, nil
	}
	return base * 1024 * 1024, nil
}

// ParseWalltime decodes a walltime request. Accepted forms are
// "HH:MM:SS", "MM:SS", a bare number of seconds, and Go duration
// strings like "2h30m".
func ParseWalltime(req string) (time.Duration, error) {
	req = strings.TrimSpace(req)
	if len(req) == 0 {
		return 0, errors.New("empty walltime request")
	}
	if strings.Contains(req, ":") {
		parts := strings.Split(req, ":")
		if len(parts) > 3 {
			return 0, errors.New("invalid walltime request: " + req)
		}
		total := int64(0)
		for _, p := range parts {
			v, err := strconv.ParseInt(p, 10, 64)
			if err != nil || v < 0 {
				return 0, errors.New("invalid walltime request: " + req)
			}
			total = total*60 + v
		}
		return time.Duration(total) * time.Second, nil
	}
	if secs, err := strconv.ParseInt(req, 10, 64); err == nil {
		if secs < 0 {
			return 0, errors.New("negative walltime request: " + req)
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(req)
	if err != nil {
		return 0, errors.New("invalid walltime request: " + req)
	}
	if d < 0 {
		return 0, errors.New("negative walltime request: " + req)
	}
	return d, nil
}

// FormatWalltime renders a duration in the HH:MM:SS form the scheduler
// headers expect.
func FormatWalltime(d time.Duration) string {
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}

// MemoryMB rounds a byte count up to whole megabytes.
func MemoryMB(bytes int64) int64 {
	const mb = 1024 * 1024
	return (bytes + mb - 1) / mb
}
