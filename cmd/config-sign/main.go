package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/miaadrajabi/security-module-signing/cmd/flags"
	"github.com/miaadrajabi/security-module-signing/integrity"
	"github.com/miaadrajabi/security-module-signing/keys"
	"github.com/miaadrajabi/security-module-signing/sigfile"
)

var flagConfig = &cli.StringFlag{
	Name:     "config",
	Required: true,
	Usage:    "Path to the config file to sign",
}

var flagOut = &cli.StringFlag{
	Name:  "out",
	Usage: "Path to write the signature (hex). If omitted, prints to stdout.",
}

func main() {
	app := &cli.App{
		Name:  "config-sign",
		Usage: "sign a SecurityModule config with HMAC-SHA256 over its raw bytes",
		Flags: append([]cli.Flag{
			flagConfig,
			flagOut,
		}, append(flags.KeySourceFlags, flags.LoggingFlags...)...),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx, "config-sign")

	src, err := flags.KeySourceFromCLI(cCtx)
	if err != nil {
		return err
	}

	key, err := keys.Derive(src)
	if err != nil {
		return err
	}
	defer key.Zero()

	// Configs are signed raw: the content itself is the authenticated
	// message, with no intermediate digest stage.
	configPath := cCtx.String(flagConfig.Name)
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	tag := integrity.ComputeTag(raw, key)

	outPath := cCtx.String(flagOut.Name)
	if outPath == "" {
		fmt.Println(tag)
	} else if err := sigfile.WriteBare(outPath, tag); err != nil {
		return err
	}

	logger.Info("Signed config",
		slog.String("config", configPath),
		slog.Int("size", len(raw)),
		slog.String("keyType", key.KeyType()),
		slog.String("keyPreview", key.Preview()),
		slog.String("out", outPath))
	return nil
}
