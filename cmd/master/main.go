package main

import (
	"os"

	"github.com/pyropy/chunkmaster/lib/logger"
	"github.com/urfave/cli/v2"
)

var log, _ = logger.New("master")

func main() {
	app := &cli.App{
		Name:  "master",
		Usage: "split files into chunks and coordinate chunkservers",
		Commands: []*cli.Command{
			ingestCmd,
			serveCmd,
			lookupCmd,
			filesCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalw("startup", "ERROR", err)
	}
}
