package main

import (
	"errors"
	"fmt"

	"github.com/qsys-tools/qchem-script/qchem"
)

type SubmitCommand struct {
	Job   JobFlags      `group:"Job Options"`
	Qchem qchem.Options `group:"Q-Chem Options"`
	Args  struct {
		InFile string `positional-arg-name:"infile.in" description:"The path to the Q-Chem input file"`
	} `positional-args:"true" required:"1"`
}

var submitCommand SubmitCommand

func (x *SubmitCommand) Execute(args []string) error {
	if x.Job.Help {
		return createHelpErr()
	}
	script, def, data, err := buildJob(&x.Job, &x.Qchem, x.Args.InFile)
	if err != nil {
		return errors.New("submit: " + err.Error())
	}
	jobID, err := def.Submit(script)
	if err != nil {
		return errors.New("submit: " + err.Error())
	}
	fmt.Printf("Your job %s (\"%s\") has been submitted\n",
		jobID, data.JobName)
	return nil
}

func init() {
	parser.AddCommand("submit",
		"generate and submit a job script",
		"Generate the job script and hand it to the queuing system's submit "+
			"program (sbatch, qsub, ...).",
		&submitCommand)
}
