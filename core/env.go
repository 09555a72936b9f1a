package core

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const (
	ConfigPath      = "/.config/qchem-script/"
	ConfigFilename  = "config.json"
	ConfigFilePerms = 0600
	ConfigEnv       = "QCHEM_SCRIPT_CONFIG"
)

// Environment holds the per-site settings of the machine the scripts
// are generated on.
/*
{
	"scheduler": "slurm",
	"default_queue": "",
	"scratch_dir_var": "TMPDIR",
	"mail_address": ""
}
*/
type Environment struct {
	// Scheduler names the queuing-system definition used for headers
	// and submission (slurm, pbs, sge or a qsys.d entry).
	Scheduler    string `json:"scheduler"`
	DefaultQueue string `json:"default_queue"`
	// ScratchDirVar is the environment variable that points at fast
	// node-local scratch space on the compute nodes.
	ScratchDirVar string `json:"scratch_dir_var"`
	MailAddress   string `json:"mail_address,omitempty"`
}

func DefaultEnvironment() Environment {
	return Environment{
		Scheduler:     "slurm",
		ScratchDirVar: "TMPDIR",
	}
}

// CalcEnv carries the shell variable names the generated script uses to
// communicate between hooks.
type CalcEnv struct {
	// ReturnValue holds the payload exit status.
	ReturnValue string
	// NodeScratchDir names the per-job scratch directory.
	NodeScratchDir string
	// WorkDir names the directory the payload runs in.
	WorkDir string
	// SubmitDir names the directory the job was submitted from.
	SubmitDir string
	// SubmitDirVar is the scheduler-provided variable holding the
	// submit directory at run time; empty falls back to $PWD.
	SubmitDirVar string
}

func DefaultCalcEnv() CalcEnv {
	return CalcEnv{
		ReturnValue:    "RETURN_VALUE",
		NodeScratchDir: "NODE_SCRATCH_DIR",
		WorkDir:        "JOB_WORK_DIR",
		SubmitDir:      "JOB_SUBMIT_DIR",
	}
}

func fileExist(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// Build path for config file.
// Set from environment or use the per-user default.
// Use current directory as last resort.
func getConfigPath() string {
	configPath := os.Getenv(ConfigEnv)
	if len(configPath) > 0 {
		return configPath
	}
	configDir := os.Getenv("HOME") + ConfigPath
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return ConfigFilename
	}
	return configDir + ConfigFilename
}

// ConfigDir returns the directory holding the config file and the
// qsys.d scheduler definitions.
func ConfigDir() string {
	return filepath.Dir(getConfigPath())
}

// ReadEnvironment loads the site configuration. A missing config file
// yields the built-in defaults, not an error.
func ReadEnvironment() (Environment, error) {
	env := DefaultEnvironment()
	filename := getConfigPath()
	if !fileExist(filename) {
		return env, nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return DefaultEnvironment(), errors.New("invalid config file: " + filename)
	}
	return env, nil
}

func WriteEnvironment(env Environment) error {
	filename := getConfigPath()
	data, err := json.MarshalIndent(env, "", "	")
	if err != nil {
		return err
	}
	// Re-assert permissions in case the file predates this run
	os.Chmod(filename, ConfigFilePerms)
	return os.WriteFile(filename, append(data, '\n'), ConfigFilePerms)
}
