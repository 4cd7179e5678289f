// Package flags holds the CLI flags and logger setup shared by the signing
// binaries.
package flags

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/miaadrajabi/security-module-signing/common"
	"github.com/miaadrajabi/security-module-signing/interfaces"
)

var LogJSONFlag = &cli.BoolFlag{
	Name:  "log-json",
	Usage: "log in JSON format",
}

var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Usage: "log debug messages",
}

var LogUIDFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Usage: "attach a unique id to all log messages of this run",
}

// LoggingFlags are appended to every binary's global flags.
var LoggingFlags = []cli.Flag{LogJSONFlag, LogDebugFlag, LogUIDFlag}

// SetupLogger builds the logger for a binary from the logging flags.
func SetupLogger(cCtx *cli.Context, service string) *slog.Logger {
	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   cCtx.Bool(LogDebugFlag.Name),
		JSON:    cCtx.Bool(LogJSONFlag.Name),
		Service: service,
		Version: common.Version,
	})

	if cCtx.Bool(LogUIDFlag.Name) {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

var KeyFlag = &cli.StringFlag{
	Name:  "key",
	Usage: "HMAC key as a literal string",
}

var KeyEnvFlag = &cli.StringFlag{
	Name:  "key-env",
	Usage: "Environment variable name that contains the key",
}

var KeyFileFlag = &cli.StringFlag{
	Name:  "key-file",
	Usage: "Path to a file containing the key",
}

var DeviceIDFlag = &cli.StringFlag{
	Name:  "device-id",
	Usage: "Device id for the device-bound key derivation (simulation)",
}

var PackageFlag = &cli.StringFlag{
	Name:  "package",
	Usage: "Application package name for the device-bound key derivation",
}

// KeySourceFlags are the mutually exclusive key selection flags.
var KeySourceFlags = []cli.Flag{KeyFlag, KeyEnvFlag, KeyFileFlag, DeviceIDFlag, PackageFlag}

// KeySourceFromCLI maps the key flags onto a single KeySource. Exactly one
// source must be selected; the device-bound source counts as one and needs
// both --device-id and --package. This is the boundary that keeps the
// "exactly one" invariant out of the core packages.
func KeySourceFromCLI(cCtx *cli.Context) (interfaces.KeySource, error) {
	var sources []interfaces.KeySource

	if v := cCtx.String(KeyFlag.Name); v != "" {
		sources = append(sources, interfaces.LiteralKey(v))
	}
	if v := cCtx.String(KeyEnvFlag.Name); v != "" {
		sources = append(sources, interfaces.EnvKey(v))
	}
	if v := cCtx.String(KeyFileFlag.Name); v != "" {
		sources = append(sources, interfaces.FileKey(v))
	}

	deviceID := cCtx.String(DeviceIDFlag.Name)
	pkg := cCtx.String(PackageFlag.Name)
	if deviceID != "" || pkg != "" {
		if deviceID == "" || pkg == "" {
			return interfaces.KeySource{}, fmt.Errorf("--%s and --%s must be given together", DeviceIDFlag.Name, PackageFlag.Name)
		}
		sources = append(sources, interfaces.IdentityKey(deviceID, pkg))
	}

	switch len(sources) {
	case 0:
		return interfaces.KeySource{}, fmt.Errorf("one of --%s, --%s, --%s or --%s/--%s is required",
			KeyFlag.Name, KeyEnvFlag.Name, KeyFileFlag.Name, DeviceIDFlag.Name, PackageFlag.Name)
	case 1:
		return sources[0], nil
	default:
		return interfaces.KeySource{}, fmt.Errorf("--%s, --%s, --%s and --%s/--%s are mutually exclusive",
			KeyFlag.Name, KeyEnvFlag.Name, KeyFileFlag.Name, DeviceIDFlag.Name, PackageFlag.Name)
	}
}
