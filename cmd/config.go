package cmd

import "github.com/spf13/pflag"

type outputType int

const (
	tableOut outputType = iota
	jsonOut
)

const (
	outputFlag  = "output"
	cpusFlag    = "cpus"
	periodFlag  = "period"
	traceFlag   = "trace"
	verboseFlag = "verbose"
	tagFlag     = "tag"
	assetFlag   = "asset"
	tokenFlag   = "token"
)

type xv6schedOpts struct {
	outType outputType
	verbose bool
}

// CLI flags to initialize: one init() registering every flag up front
// rather than scattering Flags() calls through the run functions.
func init() {
	psCmd.Flags().StringP(outputFlag, "o", "table", "Output type for command [table (default), json].")
	psCmd.Flags().Bool(verboseFlag, false, "Include host OS/kernel details alongside the process table.")
	psTreeCmd.Flags().StringP(outputFlag, "o", "table", "Output type for command [table (default), json].")

	runCmd.Flags().Int(cpusFlag, 1, "Number of simulated CPUs (scheduler loops) to run. Use 0 to size from the real host's CPU count.")
	runCmd.Flags().Duration(periodFlag, defaultTickPeriod, "Simulated timer-interrupt period.")
	runCmd.Flags().String(traceFlag, "", "Name to save this run's trace snapshot under (defaults to the scenario's name).")

	benchCmd.Flags().Int(cpusFlag, 1, "Number of simulated CPUs (scheduler loops) to run.")

	fetchCmd.Flags().String(tagFlag, "", "Release tag to fetch (defaults to the latest release).")
	fetchCmd.Flags().String(assetFlag, "", "Name of the release asset to fetch; required if a release has more than one.")
	workloadCmd.PersistentFlags().String(tokenFlag, "", "GitHub access token, for private scenario-pack repositories.")
}

func newOpts(fs *pflag.FlagSet) xv6schedOpts {
	ot := tableOut
	if s, err := fs.GetString(outputFlag); err == nil && s == "json" {
		ot = jsonOut
	}
	verbose, _ := fs.GetBool(verboseFlag)
	return xv6schedOpts{outType: ot, verbose: verbose}
}
