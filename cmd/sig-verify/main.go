package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/miaadrajabi/security-module-signing/cmd/flags"
	"github.com/miaadrajabi/security-module-signing/digest"
	"github.com/miaadrajabi/security-module-signing/integrity"
	"github.com/miaadrajabi/security-module-signing/interfaces"
	"github.com/miaadrajabi/security-module-signing/keys"
	"github.com/miaadrajabi/security-module-signing/sigfile"
)

// keyAlias matches the alias used by apk-sign's keystore mode.
const keyAlias = "HMAC"

var flagAPK = &cli.StringFlag{
	Name:     "apk",
	Required: true,
	Usage:    "Path to the application package to verify",
}

var flagConfig = &cli.StringFlag{
	Name:     "config",
	Required: true,
	Usage:    "Path to the config file to verify",
}

var flagSig = &cli.StringFlag{
	Name:  "sig",
	Usage: "Path to the signature sidecar",
}

var flagKeystore = &cli.StringFlag{
	Name:  "keystore",
	Usage: "Path to the software keystore file used at signing time",
}

func main() {
	app := &cli.App{
		Name:  "sig-verify",
		Usage: "verify HMAC-SHA256 integrity signatures",
		Commands: []*cli.Command{
			{
				Name:  "apk",
				Usage: "verify an application package against its sidecar (tag over the package digest)",
				Flags: append([]cli.Flag{
					flagAPK,
					flagSig,
					flagKeystore,
				}, append(flags.KeySourceFlags, flags.LoggingFlags...)...),
				Action: runAPK,
			},
			{
				Name:  "config",
				Usage: "verify a config file against its sidecar (tag over the raw bytes)",
				Flags: append([]cli.Flag{
					flagConfig,
					flagSig,
				}, append(flags.KeySourceFlags, flags.LoggingFlags...)...),
				Action: runConfig,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runAPK(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx, "sig-verify")

	apkPath := cCtx.String(flagAPK.Name)
	sigPath := cCtx.String(flagSig.Name)
	if sigPath == "" {
		sigPath = sigfile.DefaultSidecarPath(apkPath)
	}

	key, err := resolveKey(cCtx, logger)
	if err != nil {
		return err
	}
	defer key.Zero()

	apkDigest, err := digest.File(apkPath)
	if err != nil {
		return err
	}

	var expected interfaces.IntegrityTag
	if sigfile.IsStructuredPath(sigPath) {
		rec, err := sigfile.ReadRecord(sigPath)
		if err != nil {
			return err
		}
		expected = rec.Tag

		// Recorded digest is informational; the tag comparison below is
		// what decides. A mismatch here already names the cause.
		if apkDigest != rec.Digest {
			logger.Warn("Package digest differs from the recorded digest",
				slog.String("recorded", rec.Digest.String()),
				slog.String("computed", apkDigest.String()))
		}
	} else {
		expected, err = sigfile.ReadBare(sigPath)
		if err != nil {
			return err
		}
	}

	result, err := integrity.VerifyDigest(apkDigest, key, expected)
	if err != nil {
		return err
	}
	return report(logger, result, apkPath, sigPath)
}

func runConfig(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx, "sig-verify")

	src, err := flags.KeySourceFromCLI(cCtx)
	if err != nil {
		return err
	}
	key, err := keys.Derive(src)
	if err != nil {
		return err
	}
	defer key.Zero()

	configPath := cCtx.String(flagConfig.Name)
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	sigPath := cCtx.String(flagSig.Name)
	if sigPath == "" {
		sigPath = sigfile.DefaultSidecarPath(configPath)
	}
	expected, err := sigfile.ReadBare(sigPath)
	if err != nil {
		return err
	}

	result, err := integrity.Verify(raw, key, expected)
	if err != nil {
		return err
	}
	return report(logger, result, configPath, sigPath)
}

func report(logger *slog.Logger, result integrity.Result, artifact, sig string) error {
	if result == integrity.Match {
		logger.Info("Signature verified",
			slog.String("artifact", artifact),
			slog.String("sig", sig))
		return nil
	}

	logger.Error("Tamper detected: artifact does not match its signature",
		slog.String("artifact", artifact),
		slog.String("sig", sig))
	return cli.Exit("integrity verification failed", 1)
}

// resolveKey mirrors apk-sign: explicit key source flags first, then the
// keystore path.
func resolveKey(cCtx *cli.Context, logger *slog.Logger) (interfaces.KeyMaterial, error) {
	hasSourceFlag := cCtx.String(flags.KeyFlag.Name) != "" ||
		cCtx.String(flags.KeyEnvFlag.Name) != "" ||
		cCtx.String(flags.KeyFileFlag.Name) != "" ||
		cCtx.String(flags.DeviceIDFlag.Name) != "" ||
		cCtx.String(flags.PackageFlag.Name) != ""

	if hasSourceFlag {
		src, err := flags.KeySourceFromCLI(cCtx)
		if err != nil {
			return interfaces.KeyMaterial{}, err
		}
		return keys.Derive(src)
	}

	ksPath := cCtx.String(flagKeystore.Name)
	if ksPath == "" {
		ksPath = "apk_signing.key"
	}
	return keys.NewFileKeyStore(ksPath, logger).GetOrCreateKey(keyAlias)
}
