package main

import "flag"

// AppFlags holds the parsed command line flags
type AppFlags struct {
	GlobalConfigFile string
	SitemapsFile     string
	EnvFile          string
}

// ParseFlags parses the command line, resolving aliases
func ParseFlags() AppFlags {
	globalConfigFile := flag.String("config", "", "Path to the global YAML/JSON configuration file. If not set, searches default locations.")
	globalConfigFileAlias := flag.String("c", "", "Alias for -config")

	sitemapsFile := flag.String("sitemaps", "", "Path to a text file with one sitemap URL per line. Overrides sites.sitemap_urls.")
	sitemapsFileAlias := flag.String("s", "", "Alias for -sitemaps")

	envFile := flag.String("env", ".env", "Path to a .env file with SMTP credentials. Missing files are ignored.")

	flag.Parse()

	flags := AppFlags{EnvFile: *envFile}

	if *globalConfigFile != "" {
		flags.GlobalConfigFile = *globalConfigFile
	} else if *globalConfigFileAlias != "" {
		flags.GlobalConfigFile = *globalConfigFileAlias
	}

	if *sitemapsFile != "" {
		flags.SitemapsFile = *sitemapsFile
	} else if *sitemapsFileAlias != "" {
		flags.SitemapsFile = *sitemapsFileAlias
	}

	return flags
}
