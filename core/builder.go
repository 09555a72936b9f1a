package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Hook priorities used by the Q-Chem front-end. Hooks run in ascending
// priority order; ties keep registration order.
const (
	PrioCopyIn  = -1000
	PrioPayload = 0
	PrioCopyOut = 1000
)

// Hook generates one shell section of the job script.
type Hook interface {
	Generate(data *JobData, env *Environment, calc *CalcEnv) (string, error)
}

// DataNotReadyError reports a hook that was asked to generate before
// its required configuration was complete.
type DataNotReadyError struct {
	Reason string
}

func (e *DataNotReadyError) Error() string {
	return "job data not ready: " + e.Reason
}

type hookEntry struct {
	hook Hook
	prio int
}

// Builder assembles a job-script body from ordered hooks. Payload
// hooks make up the main chain; each payload section only runs while
// the return variable is still zero, so a failed copy-in skips the
// payload and a failed payload skips the copy-out. Error hooks run
// when the return variable is nonzero.
type Builder struct {
	Data *JobData
	Env  *Environment
	Calc CalcEnv

	payload  []hookEntry
	errHooks []hookEntry
}

func NewBuilder(data *JobData, env *Environment) *Builder {
	return &Builder{
		Data: data,
		Env:  env,
		Calc: DefaultCalcEnv(),
	}
}

func (b *Builder) AddPayloadHook(h Hook, prio int) {
	b.payload = append(b.payload, hookEntry{hook: h, prio: prio})
}

func (b *Builder) AddErrorHook(h Hook, prio int) {
	b.errHooks = append(b.errHooks, hookEntry{hook: h, prio: prio})
}

func sortHooks(entries []hookEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].prio < entries[j].prio
	})
}

func (b *Builder) generate(entries []hookEntry) ([]string, error) {
	sections := make([]string, 0, len(entries))
	for _, e := range entries {
		s, err := e.hook.Generate(b.Data, b.Env, &b.Calc)
		if err != nil {
			return nil, err
		}
		if len(strings.TrimSpace(s)) == 0 {
			continue
		}
		sections = append(sections, strings.TrimRight(s, "\n"))
	}
	return sections, nil
}

// Build emits the script body: work-directory setup, the payload chain,
// the error chain and the scratch cleanup. The shebang and scheduler
// headers are added later by the submission layer.
func (b *Builder) Build() (string, error) {
	if len(b.payload) == 0 {
		return "", errors.New("builder: no payload hooks registered")
	}
	sortHooks(b.payload)
	sortHooks(b.errHooks)

	payload, err := b.generate(b.payload)
	if err != nil {
		return "", err
	}
	errSections, err := b.generate(b.errHooks)
	if err != nil {
		return "", err
	}

	calc := &b.Calc
	id := uuid.New().String()
	scratchVar := b.Env.ScratchDirVar
	if len(scratchVar) == 0 {
		scratchVar = "TMPDIR"
	}
	submitDir := "$PWD"
	if len(calc.SubmitDirVar) > 0 {
		submitDir = fmt.Sprintf("${%s:-$PWD}", calc.SubmitDirVar)
	}

	var s strings.Builder
	fmt.Fprintf(&s, "# job script generated by qchem-script (id %s)\n\n", id)
	fmt.Fprintf(&s, "%s=\"%s\"\n", calc.SubmitDir, submitDir)
	fmt.Fprintf(&s, "%s=\"${%s:-/tmp}/qchem-script-%s\"\n",
		calc.NodeScratchDir, scratchVar, id)
	fmt.Fprintf(&s, "%s=\"${%s}/work\"\n", calc.WorkDir, calc.NodeScratchDir)
	fmt.Fprintf(&s, "%s=0\n\n", calc.ReturnValue)
	fmt.Fprintf(&s, "mkdir -p \"${%s}\"\n", calc.WorkDir)
	fmt.Fprintf(&s, "cd \"${%s}\" || exit 1\n", calc.WorkDir)

	for _, section := range payload {
		fmt.Fprintf(&s, "\nif [ \"${%s}\" -eq 0 ]; then\n", calc.ReturnValue)
		s.WriteString(indent(section))
		s.WriteString("\nfi\n")
	}

	if len(errSections) > 0 {
		fmt.Fprintf(&s, "\nif [ \"${%s}\" -ne 0 ]; then\n", calc.ReturnValue)
		s.WriteString(indent(strings.Join(errSections, "\n\n")))
		s.WriteString("\nfi\n")
	}

	fmt.Fprintf(&s, "\ncd \"${%s}\"\n", calc.SubmitDir)
	fmt.Fprintf(&s, "rm -rf \"${%s}\"\n", calc.NodeScratchDir)
	fmt.Fprintf(&s, "\nexit \"${%s}\"\n", calc.ReturnValue)
	return s.String(), nil
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if len(line) > 0 {
			lines[i] = "    " + line
		}
	}
	return strings.Join(lines, "\n")
}

// CopyInHook copies the listed files from the submit directory into the
// work directory. A missing file fails the job before the payload runs.
// Relative paths are resolved against the submit directory, absolute
// paths are copied as-is; either way the file lands flat in the work
// directory under its base name.
type CopyInHook struct {
	Files []string
}

func NewCopyInHook(files []string) *CopyInHook {
	return &CopyInHook{Files: files}
}

func (h *CopyInHook) Generate(data *JobData, env *Environment, calc *CalcEnv) (string, error) {
	if len(h.Files) == 0 {
		return "", nil
	}
	var s strings.Builder
	s.WriteString("# copy input files into the work directory\n")
	for _, f := range h.Files {
		src := fmt.Sprintf("${%s}/%s", calc.SubmitDir, f)
		if strings.HasPrefix(f, "/") {
			src = f
		}
		fmt.Fprintf(&s, "if ! cp \"%s\" .; then\n", src)
		fmt.Fprintf(&s, "    echo \"copy-in failed: %s\" >&2\n", f)
		fmt.Fprintf(&s, "    %s=1\n", calc.ReturnValue)
		s.WriteString("fi\n")
	}
	return s.String(), nil
}

// CopyOutHook copies the listed files back to the submit directory.
// Files that were never produced are skipped.
type CopyOutHook struct {
	Files []string
}

func NewCopyOutHook(files []string) *CopyOutHook {
	return &CopyOutHook{Files: files}
}

func (h *CopyOutHook) Generate(data *JobData, env *Environment, calc *CalcEnv) (string, error) {
	if len(h.Files) == 0 {
		return "", nil
	}
	var s strings.Builder
	s.WriteString("# copy result files back to the submit directory\n")
	for _, f := range h.Files {
		fmt.Fprintf(&s, "if [ -e \"%s\" ]; then\n", f)
		fmt.Fprintf(&s, "    cp -r \"%s\" \"${%s}/\"\n", f, calc.SubmitDir)
		s.WriteString("fi\n")
	}
	return s.String(), nil
}
