package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "matchday",
		Usage: "administer prediction tournaments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: "config.yaml",
				Usage: "Path to the configuration file",
			},
		},
		Commands: []*cli.Command{
			lockStatusCommand(),
			applyDefaultsCommand(),
			designateBonusCommand(),
			standingsCommand(),
			exportCommand(),
			archiveCommand(),
			tokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
