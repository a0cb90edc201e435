package runner

import (
	"os"

	"github.com/projectdiscovery/gologger"
)

var banner = (`
   ____
  / __/_____ ___
 / /_ / ___// _ \
/ __/(__  )/ / / /
/_/  /____//_/ /_/
`)

var version = "v0.1.0"

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
}

func printVersion() {
	gologger.Info().Msgf("Current version: %s", version)
	os.Exit(0)
}
