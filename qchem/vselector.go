package qchem

import (
	"os/exec"
	"strings"

	"github.com/qsys-tools/qchem-script/logger"
)

// qchem-vselector maps a version string to the matching Q-Chem wrapper
// script and prints its path.
const selectorProg = "qchem-vselector"

// PathNotDeterminedError reports that the Q-Chem executable could not
// be resolved through the version selector.
type PathNotDeterminedError struct {
	Version string
	Err     error
}

func (e *PathNotDeterminedError) Error() string {
	msg := selectorProg + ": cannot determine Q-Chem path"
	if len(e.Version) > 0 {
		msg += " for version " + e.Version
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PathNotDeterminedError) Unwrap() error { return e.Err }

// DeterminePath runs the selection script and returns the qchem path.
// version is the readily known version string to pass along; empty
// lets the selector pick.
func DeterminePath(version string) (string, error) {
	var cmd *exec.Cmd
	if len(version) > 0 {
		cmd = exec.Command(selectorProg, "--version", version)
	} else {
		cmd = exec.Command(selectorProg)
	}
	out, err := cmd.Output()
	if err != nil {
		return "", &PathNotDeterminedError{Version: version, Err: err}
	}
	path := strings.TrimSpace(string(out))
	if len(path) == 0 {
		return "", &PathNotDeterminedError{Version: version}
	}
	logger.DebugPrintf("qchem executable: %s", path)
	return path, nil
}
