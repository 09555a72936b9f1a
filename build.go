package main

import (
	"errors"

	"github.com/qsys-tools/qchem-script/core"
	"github.com/qsys-tools/qchem-script/logger"
	"github.com/qsys-tools/qchem-script/qchem"
	"github.com/qsys-tools/qchem-script/qsys"
)

// JobFlags are the queuing-system options shared by the script and
// submit commands. Values left unset here may be completed from the
// input file's directives; --qsys-args overrides both.
type JobFlags struct {
	Help     bool   `short:"h" long:"help" description:"Show this help message"`
	Name     string `short:"N" long:"name" value-name:"name" description:"Job name (default: input file base name)"`
	Walltime string `short:"t" long:"wt" value-name:"time" description:"Walltime (HH:MM:SS, seconds or a Go duration like 2h30m)"`
	Np       int    `short:"n" long:"np" value-name:"procs" description:"Number of processors"`
	Mem      string `short:"m" long:"mem" value-name:"size" description:"Physical memory (e.g. 4gb)"`
	Vmem     string `long:"vmem" value-name:"size" description:"Virtual memory (e.g. 4gb)"`
	Queue    string `short:"q" long:"queue" value-name:"queue" description:"Target queue"`
	Mail     string `long:"mail" value-name:"address" description:"Send-mail address"`
	Priority *int   `short:"p" long:"priority" value-name:"prio" description:"Job priority"`
	Qsys     string `long:"qsys" value-name:"name" description:"Queuing system: slurm, pbs, sge or a qsys.d entry (default from config)"`
	QsysArgs string `long:"qsys-args" value-name:"args" description:"Extra queuing-system arguments, GNU style; these override everything else"`
}

func (f *JobFlags) jobData(env *core.Environment) (*core.JobData, error) {
	data := &core.JobData{
		JobName:     f.Name,
		Queue:       f.Queue,
		MailAddress: f.Mail,
		Priority:    f.Priority,
	}
	if len(f.Walltime) > 0 {
		d, err := core.ParseWalltime(f.Walltime)
		if err != nil {
			return nil, err
		}
		data.Walltime = d
	}
	if f.Np < 0 {
		return nil, errors.New("invalid processor count")
	}
	if f.Np > 0 {
		data.AddNode(core.NodeSpec{Procs: f.Np})
	}
	if len(f.Mem) > 0 {
		b, err := core.ParseMemory(f.Mem)
		if err != nil {
			return nil, err
		}
		data.PhysicalMemory = b
	}
	if len(f.Vmem) > 0 {
		b, err := core.ParseMemory(f.Vmem)
		if err != nil {
			return nil, err
		}
		data.VirtualMemory = b
	}
	if len(data.Queue) == 0 {
		data.Queue = env.DefaultQueue
	}
	if len(data.MailAddress) == 0 {
		data.MailAddress = env.MailAddress
	}
	return data, nil
}

// buildJob runs the whole pipeline: merge flags, input-file directives
// and --qsys-args, resolve the Q-Chem executable, assemble the hook
// chains and wrap the body with scheduler headers. The returned job
// data is the fully merged configuration.
func buildJob(jf *JobFlags, qopts *qchem.Options, infile string) (string, qsys.Definition, *core.JobData, error) {
	env, err := core.ReadEnvironment()
	if err != nil {
		logger.WarningPrintf("using default configuration: %v", err)
	}
	data, err := jf.jobData(&env)
	if err != nil {
		return "", qsys.Definition{}, nil, err
	}

	job, err := qchem.Examine(qopts, infile, data)
	if err != nil {
		return "", qsys.Definition{}, nil, err
	}
	if err := core.ParseQsysArgs(data, jf.QsysArgs); err != nil {
		return "", qsys.Definition{}, nil, err
	}

	if len(job.Executable) == 0 {
		path, verr := qchem.DeterminePath(qopts.Version)
		if verr != nil {
			if len(qopts.Version) > 0 {
				return "", qsys.Definition{}, nil, errors.New(
					"invalid Q-Chem version string passed via --version")
			}
			return "", qsys.Definition{}, nil, verr
		}
		job.Executable = path
	}

	schedName := jf.Qsys
	if len(schedName) == 0 {
		schedName = env.Scheduler
	}
	def, err := qsys.Lookup(schedName, core.ConfigDir())
	if err != nil {
		return "", qsys.Definition{}, nil, err
	}

	logger.DebugObj("job data", data)

	b := core.NewBuilder(data, &env)
	b.Calc.SubmitDirVar = def.SubmitDirVar
	job.Register(b)
	body, err := b.Build()
	if err != nil {
		return "", qsys.Definition{}, nil, err
	}
	script, err := def.WrapScript(data, body)
	if err != nil {
		return "", qsys.Definition{}, nil, err
	}
	return script, def, data, nil
}
