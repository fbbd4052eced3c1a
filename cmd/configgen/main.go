package main

import (
	"flag"
	"log"

	"github.com/danmuck/nexrmc/internal/config"
)

const defaultPath = "nexrmc.toml"

func main() {
	output := flag.String("output", defaultPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated config at %s (nex=%s prudp=%d header_rule=%s title=%q)",
			*input, cfg.NEXVersion, cfg.PRUDPVersion, cfg.HeaderRule, cfg.Title)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote config template to %s", *output)
}
