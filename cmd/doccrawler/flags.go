package main

import (
	"flag"
	"os"
	"strings"
)

type AppFlags struct {
	GlobalConfigFile string
	SeedFile         string
	Seeds            []string
	CheckInput       string
	CheckBase        string
}

// seedList collects repeated -seed flags
type seedList []string

func (s *seedList) String() string { return strings.Join(*s, ",") }

func (s *seedList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func ParseFlags() AppFlags {
	return parseFlags(flag.CommandLine, os.Args[1:])
}

func parseFlags(fs *flag.FlagSet, args []string) AppFlags {
	var seeds seedList

	globalConfigFile := fs.String("global-config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := fs.String("gc", "", "Alias for -global-config")

	seedFile := fs.String("seed-file", "", "Path to a text file containing seed URLs, one per line.")
	seedFileAlias := fs.String("sf", "", "Alias for -seed-file")

	fs.Var(&seeds, "seed", "Seed URL to crawl. May be repeated.")
	fs.Var(&seeds, "s", "Alias for -seed")

	checkInput := fs.String("check", "", "Validate and normalize the URLs in a file ('-' for stdin) instead of crawling.")
	checkBase := fs.String("base", "", "Base URL used to resolve relative URLs in -check mode.")

	_ = fs.Parse(args)

	flags := AppFlags{
		Seeds:      seeds,
		CheckInput: *checkInput,
		CheckBase:  *checkBase,
	}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *seedFile != "" {
		flags.SeedFile = *seedFile
	} else if *seedFileAlias != "" {
		flags.SeedFile = *seedFileAlias
	}

	return flags
}
