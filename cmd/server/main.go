package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	// schedule hours are local to a named zone; don't depend on the host's zoneinfo
	_ "time/tzdata"
)

func main() {
	app := &cli.App{
		Name:  "dqdash",
		Usage: "data quality dashboard backend",
		Description: "Serves the DQ dashboard API: catalog, checks, e-mails, schedules " +
			"and the schedule evaluator that decides which of them are active.",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			statusCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
