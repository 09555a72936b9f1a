// Package qsys renders scheduler-specific headers around generated
// job-script bodies and hands finished scripts to the scheduler's
// submit program.
package qsys

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/qsys-tools/qchem-script/core"
	"github.com/qsys-tools/qchem-script/logger"
)

//go:embed header.tmpl
var templates embed.FS

// OptionSet holds the per-scheduler format strings for the header
// directives. Empty format strings mean the scheduler has no such
// option and the request is skipped.
type OptionSet struct {
	JobName  string `yaml:"job_name"` // %s
	Walltime string `yaml:"walltime"` // %s, HH:MM:SS
	Nodes    string `yaml:"nodes"`    // %d
	Procs    string `yaml:"procs"`    // %d
	Memory   string `yaml:"memory"`   // %d, megabytes
	Vmem     string `yaml:"vmem"`     // %d, megabytes
	Queue    string `yaml:"queue"`    // %s
	Mail     string `yaml:"mail"`     // %s
	Priority string `yaml:"priority"` // %d
}

// Definition describes one queuing system.
type Definition struct {
	Name            string    `yaml:"name"`
	DirectivePrefix string    `yaml:"directive_prefix"`
	SubmitProgram   string    `yaml:"submit_program"`
	SubmitDirVar    string    `yaml:"submit_dir_var"`
	JobIDPattern    string    `yaml:"job_id_pattern"`
	Options         OptionSet `yaml:"options"`
}

func builtins() map[string]Definition {
	return map[string]Definition{
		"slurm": {
			Name:            "slurm",
			DirectivePrefix: "#SBATCH",
			SubmitProgram:   "sbatch",
			SubmitDirVar:    "SLURM_SUBMIT_DIR",
			JobIDPattern:    `Submitted batch job ([0-9]+)`,
			Options: OptionSet{
				JobName:  "--job-name=%s",
				Walltime: "--time=%s",
				Nodes:    "--nodes=%d",
				Procs:    "--ntasks=%d",
				Memory:   "--mem=%dM",
				Queue:    "--partition=%s",
				Mail:     "--mail-user=%s",
				Priority: "--priority=%d",
			},
		},
		"pbs": {
			Name:            "pbs",
			DirectivePrefix: "#PBS",
			SubmitProgram:   "qsub",
			SubmitDirVar:    "PBS_O_WORKDIR",
			JobIDPattern:    `^([0-9]+)`,
			Options: OptionSet{
				JobName:  "-N %s",
				Walltime: "-l walltime=%s",
				Nodes:    "-l nodes=%d",
				Procs:    "-l ncpus=%d",
				Memory:   "-l mem=%dmb",
				Vmem:     "-l vmem=%dmb",
				Queue:    "-q %s",
				Mail:     "-M %s",
				Priority: "-p %d",
			},
		},
		"sge": {
			Name:            "sge",
			DirectivePrefix: "#$",
			SubmitProgram:   "qsub",
			SubmitDirVar:    "SGE_O_WORKDIR",
			JobIDPattern:    `Your job ([0-9]+)`,
			Options: OptionSet{
				JobName:  "-N %s",
				Walltime: "-l h_rt=%s",
				Procs:    "-pe smp %d",
				Memory:   "-l h_rss=%dM",
				Vmem:     "-l h_vmem=%dM",
				Queue:    "-q %s",
				Mail:     "-M %s",
				Priority: "-p %d",
			},
		},
	}
}

// LoadDefinitions reads extra scheduler definitions from qsys.d/*.yaml
// below the config directory. A definition named like a built-in
// overrides it.
func LoadDefinitions(configDir string) map[string]Definition {
	defs := builtins()
	pattern := filepath.Join(configDir, "qsys.d", "*.yaml")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return defs
	}
	sort.Strings(matches)
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.WarningPrintf("qsys: cannot read %s: %v", path, err)
			continue
		}
		var def Definition
		if err := yaml.Unmarshal(data, &def); err != nil {
			logger.WarningPrintf("qsys: cannot parse %s: %v", path, err)
			continue
		}
		if len(def.Name) == 0 {
			logger.WarningPrintf("qsys: %s has no name, skipping", path)
			continue
		}
		defs[def.Name] = def
	}
	return defs
}

// Lookup resolves a scheduler name against the built-in and qsys.d
// definitions.
func Lookup(name, configDir string) (Definition, error) {
	defs := LoadDefinitions(configDir)
	if def, ok := defs[name]; ok {
		return def, nil
	}
	known := make([]string, 0, len(defs))
	for k := range defs {
		known = append(known, k)
	}
	sort.Strings(known)
	return Definition{}, errors.New("unknown queuing system: " + name +
		" (known: " + strings.Join(known, ", ") + ")")
}

// Directives renders the header directive arguments for the job data.
// Only requested values produce directives.
func (def Definition) Directives(data *core.JobData) []string {
	opts := def.Options
	var out []string
	add := func(format string, a ...interface{}) {
		if len(format) > 0 {
			out = append(out, fmt.Sprintf(format, a...))
		}
	}
	if len(data.JobName) > 0 {
		add(opts.JobName, data.JobName)
	}
	if data.Walltime > 0 {
		add(opts.Walltime, core.FormatWalltime(data.Walltime))
	}
	if data.NodeCount() > 0 {
		add(opts.Nodes, data.NodeCount())
		add(opts.Procs, data.ProcCount())
	}
	if data.PhysicalMemory > 0 {
		add(opts.Memory, core.MemoryMB(data.PhysicalMemory))
	}
	if data.VirtualMemory > 0 {
		add(opts.Vmem, core.MemoryMB(data.VirtualMemory))
	}
	if len(data.Queue) > 0 {
		add(opts.Queue, data.Queue)
	}
	if len(data.MailAddress) > 0 {
		add(opts.Mail, data.MailAddress)
	}
	if data.Priority != nil {
		add(opts.Priority, *data.Priority)
	}
	return out
}

type headerData struct {
	Prefix     string
	Directives []string
	Body       string
}

// WrapScript puts the shebang and the scheduler directives in front of
// a script body built by core.Builder.
func (def Definition) WrapScript(data *core.JobData, body string) (string, error) {
	tmpl, err := template.ParseFS(templates, "header.tmpl")
	if err != nil {
		return "", err
	}
	var s strings.Builder
	err = tmpl.Execute(&s, headerData{
		Prefix:     def.DirectivePrefix,
		Directives: def.Directives(data),
		Body:       body,
	})
	if err != nil {
		return "", err
	}
	return s.String(), nil
}

// ParseJobID scrapes the job id out of the submit program's output.
func (def Definition) ParseJobID(output string) (string, error) {
	re, err := regexp.Compile(def.JobIDPattern)
	if err != nil {
		return "", errors.New("qsys: bad job_id_pattern for " + def.Name)
	}
	m := re.FindStringSubmatch(strings.TrimSpace(output))
	if len(m) < 2 {
		return "", errors.New("qsys: no job id in submit output")
	}
	return m[1], nil
}
