package qchem

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/qsys-tools/qchem-script/core"
	"github.com/qsys-tools/qchem-script/logger"
)

const qsysDirective = "!QSYS "

// scanInFile updates the job data and the copy lists from directives
// embedded in the Q-Chem input file:
//
//	!QSYS wt=, np=, mem=, vmem=   queuing-system requests
//	$molecule ... READ file       extra copy-in files
//	$rem threads / mem_total      processor and memory requests
//
// Values already present in the job data win; conflicting input-file
// values are reported and ignored. Malformed values are never fatal.
func (j *Job) scanInFile(data *core.JobData) error {
	f, err := os.Open(j.InFile)
	if err != nil {
		return err
	}
	defer f.Close()

	section := ""
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, qsysDirective) {
			applyQsysDirective(data, strings.TrimSpace(line[len(qsysDirective):]))
			continue
		}

		if strings.HasPrefix(line, "$end") {
			section = ""
			continue
		}

		switch section {
		case "":
			if strings.HasPrefix(line, "$molecule") {
				section = "molecule"
			} else if strings.HasPrefix(line, "$rem") {
				section = "rem"
			}
		case "molecule":
			if strings.HasPrefix(line, "READ") {
				file := strings.TrimSpace(line[len("READ"):])
				if len(file) > 0 {
					j.CopyIn = append(j.CopyIn, file)
				}
			}
		case "rem":
			j.applyRemSetting(data, line)
		}
	}
	return scanner.Err()
}

// applyQsysDirective handles one "!QSYS key=value" line.
func applyQsysDirective(data *core.JobData, directive string) {
	key, value, found := strings.Cut(directive, "=")
	if !found {
		logger.WarningPrintf("ignoring malformed !QSYS directive: %s", directive)
		return
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "wt":
		if data.Walltime > 0 {
			logger.WarningPrintf("ignoring walltime from \"!QSYS wt=\": walltime already given on the command line")
			return
		}
		d, err := core.ParseWalltime(value)
		if err != nil {
			logger.WarningPrintf("ignoring \"!QSYS wt=%s\": %v", value, err)
			return
		}
		data.Walltime = d
	case "np":
		if data.NodeCount() > 0 {
			logger.WarningPrintf("ignoring processor count from \"!QSYS np=\": already given on the command line")
			return
		}
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			logger.WarningPrintf("ignoring \"!QSYS np=%s\": not a positive integer", value)
			return
		}
		data.AddNode(core.NodeSpec{Procs: n})
	case "mem":
		if data.PhysicalMemory > 0 {
			logger.WarningPrintf("ignoring memory from \"!QSYS mem=\": already given on the command line")
			return
		}
		b, err := core.ParseMemory(value)
		if err != nil {
			logger.WarningPrintf("ignoring \"!QSYS mem=%s\": %v", value, err)
			return
		}
		data.PhysicalMemory = b
	case "vmem":
		if data.VirtualMemory > 0 {
			logger.WarningPrintf("ignoring virtual memory from \"!QSYS vmem=\": already given on the command line")
			return
		}
		b, err := core.ParseMemory(value)
		if err != nil {
			logger.WarningPrintf("ignoring \"!QSYS vmem=%s\": %v", value, err)
			return
		}
		data.VirtualMemory = b
	default:
		logger.WarningPrintf("ignoring unknown !QSYS directive: %s", key)
	}
}

// applyRemSetting handles the $rem settings the queuing system cares
// about. Q-Chem $rem keywords are case-insensitive and allow an
// optional "=" between keyword and value.
func (j *Job) applyRemSetting(data *core.JobData, line string) {
	fields := strings.Fields(strings.ReplaceAll(line, "=", " "))
	if len(fields) < 2 {
		return
	}
	switch {
	case strings.EqualFold(fields[0], "threads"):
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			return
		}
		// raise the request up to the thread count
		if have := data.ProcCount(); have < n {
			data.AddNode(core.NodeSpec{Procs: n - have})
		}
	case strings.EqualFold(fields[0], "mem_total"):
		// value is in MB
		mb, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil || mb <= 0 {
			return
		}
		if data.PhysicalMemory == 0 {
			data.PhysicalMemory = mb * 1024 * 1024
		}
		if data.VirtualMemory == 0 {
			data.VirtualMemory = mb * 1024 * 1024
		}
	}
}
