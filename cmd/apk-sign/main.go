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

// keyAlias is the keystore alias under which the APK signing key lives.
const keyAlias = "HMAC"

var flagOut = &cli.StringFlag{
	Name:  "out",
	Usage: "Path to write the signature sidecar. Defaults to <apk>_hmac_signature.txt next to the artifact.",
}

var flagJSON = &cli.BoolFlag{
	Name:  "json",
	Usage: "Write the structured JSON sidecar instead of the bare tag",
}

var flagKeystore = &cli.StringFlag{
	Name:  "keystore",
	Usage: "Path to the software keystore file. Created on first use.",
}

func main() {
	app := &cli.App{
		Name:      "apk-sign",
		Usage:     "generate an HMAC-SHA256 integrity signature for an application package",
		ArgsUsage: "<apk-path>",
		Flags: append([]cli.Flag{
			flagOut,
			flagJSON,
			flagKeystore,
		}, append(flags.KeySourceFlags, flags.LoggingFlags...)...),
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(cCtx *cli.Context) error {
	logger := flags.SetupLogger(cCtx, "apk-sign")

	apkPath := cCtx.Args().First()
	if apkPath == "" {
		return fmt.Errorf("apk file path is required")
	}

	key, err := resolveKey(cCtx, logger)
	if err != nil {
		return err
	}
	defer key.Zero()

	// Package files can be large; the digest is streamed, and the tag
	// authenticates the digest rather than the raw stream.
	apkDigest, err := digest.File(apkPath)
	if err != nil {
		return err
	}
	tag := integrity.TagDigest(apkDigest, key)

	outPath := cCtx.String(flagOut.Name)
	structured := cCtx.Bool(flagJSON.Name) || sigfile.IsStructuredPath(outPath)
	if outPath == "" {
		// The default path must carry the variant: a structured record
		// under the bare .txt default would be rejected on verification.
		if structured {
			outPath = sigfile.DefaultRecordPath(apkPath)
		} else {
			outPath = sigfile.DefaultSidecarPath(apkPath)
		}
	}
	if structured {
		rec := sigfile.NewRecord(apkPath, apkDigest, tag, key.KeyType())
		if err := sigfile.WriteRecord(outPath, rec); err != nil {
			return err
		}
	} else {
		if err := sigfile.WriteBare(outPath, tag); err != nil {
			return err
		}
	}

	logger.Info("Signed application package",
		slog.String("apk", apkPath),
		slog.String("digest", apkDigest.String()),
		slog.String("signature", tag.String()),
		slog.String("keyType", key.KeyType()),
		slog.String("keyPreview", key.Preview()),
		slog.Bool("structured", structured),
		slog.String("out", outPath))
	return nil
}

// resolveKey picks the signing key: an explicit key source flag wins, then
// an explicit keystore path; with neither, a software keystore next to the
// artifact ("apk_signing.key" in the working directory) is used so repeat
// builds sign with a stable key.
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
