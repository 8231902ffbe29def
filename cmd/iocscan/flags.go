package main

import (
	"flag"
)

type AppFlags struct {
	GlobalConfigFile string
	BundleFile       string
	TargetPath       string
	SessionID        string

	// Ad-hoc check inputs. When any is set, the extraction workflow is
	// skipped and only the given candidates are matched.
	CheckURL     string
	CheckProcess string
	CheckEmail   string
	CheckFile    string
}

func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	bundleFile := flag.String("iocs", "", "Path to the STIX2 indicator bundle file (overrides config file if set)")

	targetPath := flag.String("target", "", "Path to the decrypted device filesystem tree to scan (overrides config file if set)")
	targetPathAlias := flag.String("t", "", "Alias for -target")

	sessionID := flag.String("session", "", "Scan session identifier, used to name persisted findings. Defaults to a timestamp.")

	checkURL := flag.String("url", "", "Check a single URL against the domain indicators and exit")
	checkProcess := flag.String("process", "", "Check a single process name against the process indicators and exit")
	checkEmail := flag.String("email", "", "Check a single email address against the email indicators and exit")
	checkFile := flag.String("file", "", "Check a single file name against the file indicators and exit")

	flag.Parse()

	flags := AppFlags{
		BundleFile:   *bundleFile,
		SessionID:    *sessionID,
		CheckURL:     *checkURL,
		CheckProcess: *checkProcess,
		CheckEmail:   *checkEmail,
		CheckFile:    *checkFile,
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *targetPath != "" {
		flags.TargetPath = *targetPath
	} else if *targetPathAlias != "" {
		flags.TargetPath = *targetPathAlias
	}

	return flags
}

func (f AppFlags) hasAdHocCheck() bool {
	return f.CheckURL != "" || f.CheckProcess != "" || f.CheckEmail != "" || f.CheckFile != ""
}
