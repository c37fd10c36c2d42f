package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds flag values shared by all commands
type GlobalFlags struct {
	ConfigFile string
}

// DiffFlags holds the diff flag values of the root command
type DiffFlags struct {
	Depth          int
	Quiet          bool
	CompareContent bool
	NoColor        bool
	Method         string
	Exclude        []string
	Parallel       int
	RateLimit      string
	Output         string
	Report         string
	ReportFormat   string
	NoProgress     bool

	LogFile   string
	LogFormat string
	LogLevel  string
}

var (
	globalFlags GlobalFlags
	diffFlags   DiffFlags
)

// addGlobalFlags registers the flags shared by all commands
func addGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&globalFlags.ConfigFile, "config", "", "config file (default is $HOME/.config/diffnorris/config.yaml)")
}

// addDiffFlags registers the diff flags on the root command
func addDiffFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&diffFlags.Depth, "depth", "d", 0, "maximum traversal depth, 1 lists only immediate children (default: unlimited)")
	cmd.Flags().BoolVarP(&diffFlags.Quiet, "quiet", "q", false, "hide entries present in both trees without a content difference")
	cmd.Flags().BoolVarP(&diffFlags.CompareContent, "compare-content", "c", false, "compare the content of files present in both trees")
	cmd.Flags().BoolVar(&diffFlags.NoColor, "no-color", false, "disable colored output")
	cmd.Flags().StringVar(&diffFlags.Method, "method", "", "content comparison method: binary, hash")
	cmd.Flags().StringSliceVar(&diffFlags.Exclude, "exclude", []string{}, "glob patterns to exclude (e.g. \"*.tmp\", \".git/\")")
	cmd.Flags().IntVarP(&diffFlags.Parallel, "parallel", "p", 0, "number of parallel content comparisons")
	cmd.Flags().StringVar(&diffFlags.RateLimit, "rate-limit", "", "read rate limit in bytes/s (e.g. \"10M\", \"1G\")")
	cmd.Flags().StringVarP(&diffFlags.Output, "output", "o", "", "output format: human, json")
	cmd.Flags().StringVar(&diffFlags.Report, "report", "", "write the diff report to a file")
	cmd.Flags().StringVar(&diffFlags.ReportFormat, "report-format", "human", "report file format: human, json")
	cmd.Flags().BoolVar(&diffFlags.NoProgress, "no-progress", false, "disable the progress display")

	cmd.Flags().StringVar(&diffFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&diffFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.Flags().StringVar(&diffFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}
