// Package qchem is the Q-Chem front-end: it merges command-line
// options with directives found in the input file, validates the
// result and registers the copy-in/payload/copy-out hooks.
package qchem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/qsys-tools/qchem-script/core"
)

// Options are the Q-Chem specific command line flags. The struct tags
// are consumed by the go-flags parser in the CLI layer.
type Options struct {
	Out        string `long:"out" value-name:"file" description:"Q-Chem output filename (default: infile with .in replaced by .out)"`
	Save       bool   `long:"save" description:"Pass the -save option to qchem"`
	SaveDir    string `long:"savedir" value-name:"dir" description:"The directory to use as the qchem savedir"`
	NpToQchem  bool   `long:"np-to-qchem" description:"Pass the -np option followed by the number of processors to qchem (MPI runs)"`
	NtToQchem  bool   `long:"nt-to-qchem" description:"Pass the -nt option followed by the number of processors to qchem (OpenMP runs)"`
	Version    string `long:"version" value-name:"string" description:"Version string identifying the Q-Chem version to be used"`
	Executable string `long:"executable" value-name:"path" description:"Q-Chem wrapper script to run; skips qchem-vselector"`
	Perf       bool   `long:"perf" description:"Use time or perf to monitor the memory/cpu usage of Q-Chem"`
}

// Job is a validated Q-Chem run: the resolved options plus the file
// lists the hooks copy around. InFile is the path as given on the
// command line; RunFile and OutFile are the names the script uses
// inside the work directory, where copy-in puts the files flat.
type Job struct {
	InFile     string
	RunFile    string
	OutFile    string
	SaveDir    string
	Save       bool
	NpFlag     bool
	NtFlag     bool
	UsePerf    bool
	Executable string

	CopyIn       []string
	CopyOut      []string
	CopyErrorOut []string
}

// Examine validates the options against the input file, fills the
// defaults, scans the input file for embedded directives and updates
// the job data. Command-line values win over input-file values.
func Examine(opts *Options, infile string, data *core.JobData) (*Job, error) {
	if !fileExists(infile) {
		return nil, errors.New("file not found: " + infile)
	}
	if opts.Save && len(opts.SaveDir) == 0 {
		return nil, errors.New("if --save is provided a --savedir has to be set")
	}
	if strings.Contains(opts.SaveDir, "/") {
		return nil, errors.New("the savedir given should not be a path, just a name")
	}
	if opts.NpToQchem && opts.NtToQchem {
		return nil, errors.New("--np-to-qchem and --nt-to-qchem are mutually exclusive")
	}

	job := &Job{
		InFile:     infile,
		RunFile:    filepath.Base(infile),
		SaveDir:    opts.SaveDir,
		Save:       opts.Save,
		NpFlag:     opts.NpToQchem,
		NtFlag:     opts.NtToQchem,
		UsePerf:    opts.Perf,
		Executable: opts.Executable,
	}

	// infile.in -> infile; other extensions stay part of the base name
	base := job.RunFile
	if filepath.Ext(base) == ".in" {
		base = strings.TrimSuffix(base, ".in")
	}
	if len(opts.Out) > 0 {
		job.OutFile = opts.Out
	} else {
		job.OutFile = base + ".out"
	}
	if len(data.JobName) == 0 {
		data.JobName = base
	}

	job.CopyIn = append(job.CopyIn, job.InFile)
	job.CopyErrorOut = append(job.CopyErrorOut, job.OutFile)

	if err := job.scanInFile(data); err != nil {
		return nil, err
	}

	job.CopyOut = append(job.CopyOut, job.OutFile)
	return job, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Register adds the job's hooks to the builder at the fixed priorities:
// copy-in before the payload, copy-out after it, and the error copy-out
// on the error chain.
func (j *Job) Register(b *core.Builder) {
	b.AddPayloadHook(core.NewCopyInHook(j.CopyIn), core.PrioCopyIn)
	b.AddPayloadHook(&Payload{Job: j}, core.PrioPayload)
	b.AddPayloadHook(core.NewCopyOutHook(j.CopyOut), core.PrioCopyOut)
	b.AddErrorHook(core.NewCopyOutHook(j.CopyErrorOut), core.PrioCopyIn)
}
