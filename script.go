package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/qsys-tools/qchem-script/qchem"
)

type ScriptCommand struct {
	Job    JobFlags      `group:"Job Options"`
	Qchem  qchem.Options `group:"Q-Chem Options"`
	Output string        `short:"o" long:"output" value-name:"file" description:"Write the job script to file instead of stdout"`
	Args   struct {
		InFile string `positional-arg-name:"infile.in" description:"The path to the Q-Chem input file"`
	} `positional-args:"true" required:"1"`
}

var scriptCommand ScriptCommand

func (x *ScriptCommand) Execute(args []string) error {
	if x.Job.Help {
		return createHelpErr()
	}
	script, _, _, err := buildJob(&x.Job, &x.Qchem, x.Args.InFile)
	if err != nil {
		return errors.New("script: " + err.Error())
	}
	if len(x.Output) > 0 {
		if err := os.WriteFile(x.Output, []byte(script), 0755); err != nil {
			return errors.New("script: " + err.Error())
		}
		fmt.Printf("Job script written to %s\n", x.Output)
		return nil
	}
	fmt.Print(script)
	return nil
}

func init() {
	parser.AddCommand("script",
		"generate a job script",
		"Generate a shell job script that runs Q-Chem on the given input file "+
			"under the configured queuing system. Parameters not given on the "+
			"command line are completed from the input file: job name, output "+
			"file name, walltime (\"!QSYS wt=\"), number of processors "+
			"(\"!QSYS np=\" or the threads setting) and memory (mem_total).",
		&scriptCommand)
}
