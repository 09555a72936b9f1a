package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/qsys-tools/qchem-script/core"
	"github.com/qsys-tools/qchem-script/qsys"
)

type EnvCommand struct {
	Help      bool   `short:"h" long:"help" description:"Show this help message"`
	Scheduler string `short:"s" long:"scheduler" value-name:"name" description:"Set the default queuing system"`
	Queue     string `short:"q" long:"queue" value-name:"queue" description:"Set the default queue"`
	Scratch   string `long:"scratch-var" value-name:"var" description:"Set the node scratch directory variable"`
	Mail      string `long:"mail" value-name:"address" description:"Set the default send-mail address"`
	Write     bool   `short:"w" long:"write" description:"Write the shown configuration to the config file"`
	List      bool   `short:"l" long:"list" description:"List the known queuing-system definitions"`
}

var envCommand EnvCommand

func (x *EnvCommand) Execute(args []string) error {
	if x.Help {
		return createHelpErr()
	}
	if x.List {
		defs := qsys.LoadDefinitions(core.ConfigDir())
		names := make([]string, 0, len(defs))
		for name := range defs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("%s\t(submit: %s)\n", name, defs[name].SubmitProgram)
		}
		return nil
	}

	env, err := core.ReadEnvironment()
	if err != nil {
		return errors.New("env: " + err.Error())
	}
	if len(x.Scheduler) > 0 {
		if _, err := qsys.Lookup(x.Scheduler, core.ConfigDir()); err != nil {
			return errors.New("env: " + err.Error())
		}
		env.Scheduler = x.Scheduler
	}
	if len(x.Queue) > 0 {
		env.DefaultQueue = x.Queue
	}
	if len(x.Scratch) > 0 {
		env.ScratchDirVar = x.Scratch
	}
	if len(x.Mail) > 0 {
		env.MailAddress = x.Mail
	}

	data, _ := json.MarshalIndent(env, "", "	")
	fmt.Println(string(data))

	if x.Write {
		if err := core.WriteEnvironment(env); err != nil {
			return errors.New("env: unable to write config file: " + err.Error())
		}
	}
	return nil
}

func init() {
	parser.AddCommand("env",
		"show or change the site configuration",
		"Show the effective site configuration, optionally change it and "+
			"write it back to the config file.",
		&envCommand)
}
