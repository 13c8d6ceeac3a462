// Command poleplan runs one electric-pole placement pass over a
// Factorio blueprint: decode, strip existing poles, enumerate candidate
// placements, solve for which to keep, route cables, encode the result.
// Grounded on original_source/src/main.rs's clap-based Args, reduced to
// stdlib flag since no repo in the example pack carries a CLI-flags
// library.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gridwright/poleplan/config"
	"github.com/gridwright/poleplan/driver"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML run configuration file (optional, defaults used otherwise)")
	input := flag.String("input", "", "path to the input blueprint string file (overrides the config file's paths.input_blueprint_file)")
	output := flag.String("output", "", "path to write the output blueprint string file (overrides the config file's paths.output_blueprint_file)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg = config.DefaultConfig()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "poleplan: %v\n", err)
		os.Exit(1)
	}

	if *input != "" {
		cfg.Paths.InputBlueprintFile = *input
	}
	if *output != "" {
		cfg.Paths.OutputBlueprintFile = *output
	}

	result, err := driver.Run(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "poleplan: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("loaded %d entities, tried %d candidates, placed %d poles, routed %d cables\n",
		result.EntitiesLoaded, result.CandidatesTried, result.PolesPlaced, result.CablesPlaced)
}
