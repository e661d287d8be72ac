package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pyropy/chunkmaster/core/client"
	"github.com/pyropy/chunkmaster/core/constants"
	core "github.com/pyropy/chunkmaster/core/master"
	"github.com/urfave/cli/v2"
)

var (
	errNoSourceFile = errors.New("no source file given, use --file or MASTER_SOURCE_PATH")
)

var configFlags = []cli.Flag{
	&cli.StringFlag{
		Name:  "file",
		Usage: "Path of the file to split into chunks",
	},
	&cli.StringFlag{
		Name:  "chunk-size",
		Usage: "Maximum chunk size, e.g. 64MiB",
	},
	&cli.IntFlag{
		Name:  "capacity",
		Usage: "Number of chunks buffered between splitter and dispatcher",
	},
}

// loadConfig reads MASTER_* environment variables and applies flag overrides.
func loadConfig(ctx *cli.Context) (*core.Config, error) {
	cfg, err := core.GetConfig()
	if err != nil {
		return nil, err
	}

	if ctx.IsSet("file") {
		cfg.Source.Path = ctx.String("file")
	}
	if ctx.IsSet("chunk-size") {
		cfg.Chunk.Size = ctx.String("chunk-size")
	}
	if ctx.IsSet("capacity") {
		cfg.Stream.Capacity = ctx.Int("capacity")
	}
	if ctx.IsSet("listen-host") {
		cfg.Server.Host = ctx.String("listen-host")
	}
	if ctx.IsSet("listen-port") {
		cfg.Server.Port = ctx.Int("listen-port")
	}

	return cfg, nil
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// ignoreCancel turns an ingestion interrupted by a shutdown signal into a clean exit.
func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		log.Warnw("shutdown", "status", "ingestion cancelled")
		return nil
	}

	return err
}

var ingestCmd = &cli.Command{
	Name:  "ingest",
	Usage: "Split a file into chunks and print their IDs",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "verify",
			Usage: "Stage chunks in memory and compare them with the source afterwards",
		},
	}, configFlags...),
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		if cfg.Source.Path == "" {
			return errNoSourceFile
		}

		var sink core.Sink = core.NewStdoutSink(os.Stdout)
		staging := core.NewStagingSink()
		if ctx.Bool("verify") {
			sink = core.MultiSink{sink, staging}
		}

		m, err := core.NewMaster(cfg, sink, core.WithLogger(log))
		if err != nil {
			return err
		}

		cctx, cancel := signalContext(ctx.Context)
		defer cancel()

		if err := m.Run(cctx, cfg.Source.Path); err != nil {
			return ignoreCancel(err)
		}

		if ctx.Bool("verify") {
			if err := core.VerifyStaged(cctx, m.Index(), staging, cfg.Source.Path); err != nil {
				return err
			}
			log.Infow("verify", "status", "staged chunks match source", "source", cfg.Source.Path)
		}

		return nil
	},
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "Listen for chunkservers and optionally ingest a file",
	Flags: append([]cli.Flag{
		&cli.StringFlag{
			Name:  "listen-host",
			Usage: "Host to listen on for chunkserver connections",
		},
		&cli.IntFlag{
			Name:  "listen-port",
			Usage: "Port to listen on for chunkserver connections",
		},
	}, configFlags...),
	Action: func(ctx *cli.Context) error {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}

		m, err := core.NewMaster(cfg, core.NewStdoutSink(os.Stdout), core.WithLogger(log))
		if err != nil {
			return err
		}

		server, err := NewRPCServer(NewMasterAPI(m))
		if err != nil {
			return err
		}

		cctx, cancel := signalContext(ctx.Context)
		defer cancel()

		addr, err := m.Listen(cctx, cfg.Addr(), server)
		if err != nil {
			return err
		}

		if cfg.Source.Path != "" {
			if err := m.Run(cctx, cfg.Source.Path); err != nil {
				return ignoreCancel(err)
			}
		}

		<-cctx.Done()
		log.Infow("shutdown", "status", "master stopping", "address", addr.String())

		return nil
	},
}

var masterAddrFlag = &cli.StringFlag{
	Name:  "master-addr",
	Value: net.JoinHostPort(constants.DEFAULT_LISTEN_HOST, strconv.Itoa(constants.DEFAULT_LISTEN_PORT)),
	Usage: "Address of a running master",
}

var lookupCmd = &cli.Command{
	Name:  "lookup",
	Usage: "Print the chunk IDs a running master recorded for a file",
	Flags: []cli.Flag{
		masterAddrFlag,
		&cli.StringFlag{
			Name:     "path",
			Required: true,
			Usage:    "File name as recorded by the master",
		},
	},
	Action: func(ctx *cli.Context) error {
		c, err := client.NewClient(ctx.String("master-addr"))
		if err != nil {
			return err
		}
		defer c.Close()

		chunks, found, err := c.LookupFile(ctx.String("path"))
		if err != nil {
			return err
		}

		if !found {
			return fmt.Errorf("file %q not found", ctx.String("path"))
		}

		for _, id := range chunks {
			fmt.Println(id)
		}

		return nil
	},
}

var filesCmd = &cli.Command{
	Name:  "files",
	Usage: "List all files a running master has indexed",
	Flags: []cli.Flag{
		masterAddrFlag,
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "Only list files whose name starts with this prefix",
		},
	},
	Action: func(ctx *cli.Context) error {
		c, err := client.NewClient(ctx.String("master-addr"))
		if err != nil {
			return err
		}
		defer c.Close()

		files, err := c.ListFiles(ctx.String("prefix"))
		if err != nil {
			return err
		}

		for _, f := range files {
			fmt.Printf("%s\t%d chunks\n", f.Path, len(f.Chunks))
		}

		return nil
	},
}
