package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"runtime/debug"

	"gopkg.in/yaml.v3"
)

// versionConfig holds parsed version command configuration
type versionConfig struct {
	format string
}

// versionInfo is printed by the version command
type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// versionsFile mirrors versions.yaml at the repository root
type versionsFile struct {
	Project struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"project"`
	Git struct {
		Commit string `yaml:"commit"`
		Branch string `yaml:"branch"`
	} `yaml:"git"`
	Build struct {
		Time string `yaml:"time"`
	} `yaml:"build"`
}

// versionsFilePaths are searched in order, relative to the working directory
var versionsFilePaths = []string{"versions.yaml", "../versions.yaml", "../../versions.yaml"}

func runVersion(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseVersionFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFormat, err)
		return ExitCodeUsageError
	}

	info := getVersionInfo()
	if cfg.format == OutputFormatJSON {
		if err := writeJSON(stdout, info); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
			return ExitCodeError
		}
		return ExitCodeSuccess
	}

	fmt.Fprintf(stdout, VersionTextTemplate+FmtNewline,
		info.Version, info.Commit, info.Branch, info.BuildTime, info.GoVersion)
	return ExitCodeSuccess
}

func parseVersionFlags(args []string) (*versionConfig, error) {
	fs := flag.NewFlagSet(CmdNameVersion, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	cfg := &versionConfig{}
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}
	return cfg, nil
}

// getVersionInfo prefers versions.yaml and falls back to the module
// version recorded in the binary.
func getVersionInfo() *versionInfo {
	info := &versionInfo{
		Version:   VersionUnknown,
		Commit:    VersionUnknown,
		Branch:    VersionUnknown,
		BuildTime: VersionUnknown,
		GoVersion: runtime.Version(),
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}

	for _, path := range versionsFilePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var vf versionsFile
		if err := yaml.Unmarshal(data, &vf); err != nil {
			continue
		}
		setIfPresent(&info.Version, vf.Project.Version)
		setIfPresent(&info.Commit, vf.Git.Commit)
		setIfPresent(&info.Branch, vf.Git.Branch)
		setIfPresent(&info.BuildTime, vf.Build.Time)
		break
	}
	return info
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
