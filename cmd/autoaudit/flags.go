package main

import (
	"flag"
	"fmt"
	"os"
)

// AppFlags holds the parsed command line arguments.
type AppFlags struct {
	GlobalConfigFile string
	Mode             string

	// add-url / update options
	URL                 string
	ProjectID           int64
	URLType             string
	Platform            string
	CheckFrequencyHours int
	Active              string

	// Remaining positional arguments: action and its operands.
	Args []string
}

const usageText = `Usage: autoaudit [flags] [action [args]]

Actions (oneshot mode):
  list-urls           List monitored URLs
  add-url             Register a URL (requires -url, see flags below)
  update <id>         Update a monitored URL (-frequency, -active)
  rescan <id>         Force a rescan of a monitored URL
  deactivate <id>     Deactivate a monitored URL
  latest-check <id>   Show the latest check for a monitored URL
  checks <id>         Show the backend check history for a monitored URL
  history <id>        Show locally archived checks for a monitored URL
  project <id>        Show project details
  cycles              Show recent automated cycle history

In automated mode (-mode automated) no action is given; the agent runs
rescan cycles until interrupted.
`

// ParseFlags parses command line flags, consolidating aliases.
func ParseFlags() AppFlags {
	globalConfigFile := flag.String("globalconfig", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("gc", "", "Alias for -globalconfig")

	modeFlag := flag.String("mode", "", "Mode to run the agent: oneshot or automated (overrides config file if set)")
	modeFlagAlias := flag.String("m", "", "Alias for -mode")

	urlFlag := flag.String("url", "", "URL to register (add-url action)")
	projectID := flag.Int64("project-id", 0, "Project to attach the URL to (add-url action)")
	urlType := flag.String("url-type", "", "URL type: vdp, homepage or inventory (add-url action)")
	platform := flag.String("platform", "", "Platform label (add-url action)")
	frequency := flag.Int("frequency", 0, "Check frequency in hours (add-url and update actions)")
	active := flag.String("active", "", "Set the URL active flag: true or false (update action)")

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	flags := AppFlags{
		URL:                 *urlFlag,
		ProjectID:           *projectID,
		URLType:             *urlType,
		Platform:            *platform,
		CheckFrequencyHours: *frequency,
		Active:              *active,
		Args:                flag.Args(),
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *modeFlag != "" {
		flags.Mode = *modeFlag
	} else if *modeFlagAlias != "" {
		flags.Mode = *modeFlagAlias
	}

	return flags
}
