package core

import (
	"errors"
	"io"
	"strings"

	flag "github.com/juju/gnuflag"
)

// Queuing systems support short and long command line options.
// Register both with the same Golang flag.
func setFlagString(flags *flag.FlagSet, short, long, value, usage string) *string {
	flagVar := flags.String(long, value, usage)
	if len(short) > 0 {
		flags.StringVar(flagVar, short, value, usage)
	}
	return flagVar
}

func setFlagInt(flags *flag.FlagSet, short, long string, value int, usage string) *int {
	flagVar := flags.Int(long, value, usage)
	if len(short) > 0 {
		flags.IntVar(flagVar, short, value, usage)
	}
	return flagVar
}

// ParseQsysArgs applies a --qsys-args passthrough string to the job
// data. These are scheduler-style GNU options and they overwrite
// whatever the command line or the input file already set.
func ParseQsysArgs(data *JobData, raw string) error {
	args := strings.Fields(raw)
	if len(args) == 0 {
		return nil
	}

	flags := flag.NewFlagSet("qsys-args", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	wt := setFlagString(flags, "w", "wt", "", "walltime")
	np := setFlagInt(flags, "n", "np", 0, "number of processors")
	mem := setFlagString(flags, "m", "mem", "", "physical memory")
	vmem := setFlagString(flags, "", "vmem", "", "virtual memory")
	name := setFlagString(flags, "N", "name", "", "job name")
	queue := setFlagString(flags, "q", "queue", "", "target queue")
	mail := setFlagString(flags, "", "mail", "", "send-mail address")
	prio := setFlagInt(flags, "p", "priority", 0, "job priority")

	if flags.Parse(true, args) != nil {
		return errors.New("qsys-args: cannot process " + raw)
	}
	if flags.NArg() > 0 {
		return errors.New("qsys-args: unexpected argument " + flags.Arg(0))
	}

	var perr error
	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "w", "wt":
			d, err := ParseWalltime(*wt)
			if err != nil {
				perr = errors.New("qsys-args: " + err.Error())
				return
			}
			data.Walltime = d
		case "n", "np":
			if *np <= 0 {
				perr = errors.New("qsys-args: invalid processor count")
				return
			}
			data.NodeSpecs = []NodeSpec{{Procs: *np}}
		case "m", "mem":
			b, err := ParseMemory(*mem)
			if err != nil {
				perr = errors.New("qsys-args: " + err.Error())
				return
			}
			data.PhysicalMemory = b
		case "vmem":
			b, err := ParseMemory(*vmem)
			if err != nil {
				perr = errors.New("qsys-args: " + err.Error())
				return
			}
			data.VirtualMemory = b
		case "N", "name":
			data.JobName = *name
		case "q", "queue":
			data.Queue = *queue
		case "mail":
			data.MailAddress = *mail
		case "p", "priority":
			v := *prio
			data.Priority = &v
		}
	})
	return perr
}
