package cli

import (
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var (
	versionShort  bool
	versionFormat string
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Modified  bool   `json:"modified,omitempty" yaml:"modified,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version number")
	versionCmd.Flags().StringVar(&versionFormat, "format", formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, _ []string) error {
	if versionShort {
		cmd.Println(version)
		return nil
	}
	if err := validateFormat(versionFormat); err != nil {
		return err
	}

	info := currentBuild()
	switch versionFormat {
	case formatJSON:
		return writeJSON(cmd, info)
	case formatYAML:
		return writeYAML(cmd, info)
	}

	cmd.Printf("overlap version %s\n", info.Version)
	if info.Commit != "" {
		suffix := ""
		if info.Modified {
			suffix = " (modified)"
		}
		cmd.Printf("  commit:   %s%s\n", info.Commit, suffix)
	}
	cmd.Printf("  go:       %s\n", info.GoVersion)
	cmd.Printf("  platform: %s\n", info.Platform)
	return nil
}

// currentBuild reads VCS stamps from the embedded module build info when present.
func currentBuild() buildInfo {
	info := buildInfo{
		Version:   version,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Commit = s.Value
			if len(info.Commit) > 12 {
				info.Commit = info.Commit[:12]
			}
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}
