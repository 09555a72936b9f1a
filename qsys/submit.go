package qsys

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/qsys-tools/qchem-script/logger"
)

// Submit writes the script to a temp file, runs the scheduler's submit
// program on it and returns the scraped job id.
func (def Definition) Submit(script string) (string, error) {
	if len(def.SubmitProgram) == 0 {
		return "", errors.New("qsys: no submit program for " + def.Name)
	}
	tmp, err := os.CreateTemp("", "qchem-script-*.sh")
	if err != nil {
		return "", errors.New("qsys: cannot write job script: " + err.Error())
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(script); err != nil {
		tmp.Close()
		return "", errors.New("qsys: cannot write job script: " + err.Error())
	}
	if err := tmp.Close(); err != nil {
		return "", errors.New("qsys: cannot write job script: " + err.Error())
	}
	os.Chmod(tmp.Name(), 0755)

	logger.DebugPrintf("qsys: %s %s", def.SubmitProgram, filepath.Base(tmp.Name()))
	out, err := exec.Command(def.SubmitProgram, tmp.Name()).Output()
	if err != nil {
		msg := err.Error()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if stderr := strings.TrimSpace(string(exitErr.Stderr)); len(stderr) > 0 {
				msg += ": " + stderr
			}
		}
		return "", errors.New("qsys: " + def.SubmitProgram + " failed: " + msg)
	}
	return def.ParseJobID(string(out))
}
