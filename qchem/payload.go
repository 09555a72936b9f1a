package qchem

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/qsys-tools/qchem-script/core"
)

// Q-Chem prints this as the last line of a successful run.
const successBanner = "Thank you very much for using Q-Chem.  Have a nice day."

// Payload generates the shell section that runs Q-Chem itself.
type Payload struct {
	Job *Job
}

// arguments assembles the qchem command line following the invocation
// order qchem expects: flags, infile, outfile, savedir.
func (p *Payload) arguments(data *core.JobData) string {
	job := p.Job
	args := ""
	if job.Save {
		args += " -save"
	}
	if job.NpFlag {
		args += " -np " + strconv.Itoa(data.ProcCount())
	}
	if job.NtFlag {
		args += " -nt " + strconv.Itoa(data.ProcCount())
	}
	args += ` "` + job.RunFile + `"`
	if len(job.OutFile) > 0 {
		args += ` "` + job.OutFile + `"`
	}
	if len(job.SaveDir) > 0 {
		args += ` "` + job.SaveDir + `"`
	}
	return args
}

func (p *Payload) Generate(data *core.JobData, env *core.Environment, calc *core.CalcEnv) (string, error) {
	job := p.Job
	if len(job.Executable) == 0 {
		return "", &core.DataNotReadyError{Reason: "no path to a Q-Chem wrapper script provided"}
	}
	if len(job.OutFile) == 0 {
		return "", &core.DataNotReadyError{Reason: "no output file provided"}
	}
	if job.Save && len(job.SaveDir) == 0 {
		return "", &core.DataNotReadyError{Reason: "if the save flag is set, a savedir is needed as well"}
	}

	args := p.arguments(data)
	var s strings.Builder
	fmt.Fprintf(&s, "export QCSCRATCH=\"$%s\"\n", calc.NodeScratchDir)

	if job.UsePerf {
		s.WriteString("if which perf &> /dev/null; then\n")
		fmt.Fprintf(&s, "    perf %s%s\n", job.Executable, args)
		fmt.Fprintf(&s, "    %s=$?\n", calc.ReturnValue)
		s.WriteString("else\n")
		fmt.Fprintf(&s, "    /usr/bin/time -v %s%s\n", job.Executable, args)
		fmt.Fprintf(&s, "    %s=$?\n", calc.ReturnValue)
		s.WriteString("fi\n")
	} else {
		fmt.Fprintf(&s, "%s%s\n", job.Executable, args)
		fmt.Fprintf(&s, "%s=$?\n", calc.ReturnValue)
	}
	s.WriteString("\n")

	s.WriteString("# check if job terminated successfully\n")
	fmt.Fprintf(&s, "if ! grep -q \"%s\" \"%s\"; then\n", successBanner, job.OutFile)
	fmt.Fprintf(&s, "    %s=1\n", calc.ReturnValue)
	s.WriteString("fi\n")

	if len(job.SaveDir) > 0 {
		s.WriteString("\necho\n")
		s.WriteString("echo ------------------------------------------------------\n")
		s.WriteString("echo\n\n")
		fmt.Fprintf(&s, "echo \"Files in $QCSCRATCH/%s:\"\n", job.SaveDir)
		s.WriteString("(\n")
		fmt.Fprintf(&s, "    cd \"$QCSCRATCH/%s\"\n", job.SaveDir)
		s.WriteString("    ls -l | sed 's/^/    /g'\n")
		s.WriteString(")\n")
	}
	return s.String(), nil
}
