package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"aperture/internal/config"
	"aperture/internal/infra/keys/remote"
	"aperture/internal/infra/keys/soft"
	"aperture/pkg/attest"
)

// attestFlags collects the attest command's inputs so values missing from the
// command line can be filled from configuration.
type attestFlags struct {
	keyHex      string
	keyBase64   string
	agentAddr   string
	agentToken  string
	attestation string
	tileSize    int
	signTimeout time.Duration
}

// applyConfig fills values the command line left unset from the loaded
// configuration. Explicit flags always win; key material, the key agent
// endpoint, tile size and sign timeout all fall back to their config fields,
// which Load in turn sources from the config file and APERTURE_* environment.
func (f *attestFlags) applyConfig(cfg config.Config) {
	if f.keyHex == "" {
		f.keyHex = cfg.SignerSeedHex
	}
	if f.keyBase64 == "" {
		f.keyBase64 = cfg.SignerKeyBase64
	}
	if f.agentAddr == "" {
		f.agentAddr = cfg.KeyAgentAddr
	}
	if f.agentToken == "" {
		f.agentToken = cfg.KeyAgentToken
	}
	if f.attestation == "" {
		f.attestation = cfg.KeyAttestation
	}
	if f.tileSize <= 0 {
		f.tileSize = cfg.TileSize
	}
	if f.signTimeout <= 0 {
		f.signTimeout = cfg.SignTimeout
	}
}

func runAttest(args []string) int {
	fs := flag.NewFlagSet("attest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var f attestFlags
	var inPath string
	var configPath string
	var metadataPath string
	var policyPath string
	var outPath string
	fs.StringVar(&inPath, "in", "", "input image path (png or jpeg)")
	fs.StringVar(&configPath, "config", "", "config file path")
	fs.StringVar(&f.keyHex, "key-hex", "", "ed25519 seed hex")
	fs.StringVar(&f.keyBase64, "key-base64", "", "ed25519 key base64")
	fs.StringVar(&f.agentAddr, "key-agent", "", "key agent base URL")
	fs.StringVar(&f.agentToken, "key-agent-token", "", "key agent bearer token")
	fs.IntVar(&f.tileSize, "tile-size", 0, "tile side length in pixels (default 256)")
	fs.DurationVar(&f.signTimeout, "sign-timeout", 0, "signing deadline (default 10s)")
	fs.StringVar(&metadataPath, "metadata", "", "metadata JSON path")
	fs.StringVar(&f.attestation, "attestation", "", "opaque key attestation token")
	fs.StringVar(&policyPath, "policy", "", "rego policy bundle path")
	fs.StringVar(&outPath, "out", "", "output claim JSON path (default stdout)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if inPath == "" {
		fmt.Fprintln(os.Stderr, "attest requires --in")
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 1
	}
	f.applyConfig(cfg)

	var signer attest.Signer
	if f.agentAddr != "" {
		remoteSigner, err := remote.New(context.Background(), f.agentAddr, f.agentToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "connect key agent: %v\n", err)
			return 1
		}
		signer = remoteSigner
	} else {
		softSigner, err := loadSigner(f.keyHex, f.keyBase64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load key: %v\n", err)
			return 1
		}
		if f.attestation != "" {
			softSigner = softSigner.WithAttestation(f.attestation)
		}
		signer = softSigner
	}

	var metadata json.RawMessage
	if metadataPath != "" {
		data, err := os.ReadFile(metadataPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read metadata: %v\n", err)
			return 1
		}
		if !json.Valid(data) {
			fmt.Fprintln(os.Stderr, "metadata must be valid JSON")
			return 1
		}
		metadata = data
	}

	var policyEngine attest.PolicyEngine
	if policyPath != "" {
		engine, err := attest.LoadPolicy(context.Background(), policyPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load policy: %v\n", err)
			return 1
		}
		policyEngine = engine
	}

	img, err := readImage(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read image: %v\n", err)
		return 1
	}

	claim, err := attest.Attest(context.Background(), signer, img, attest.AttestOptions{
		TileSize:    f.tileSize,
		Metadata:    metadata,
		SignTimeout: f.signTimeout,
		Policy:      policyEngine,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "attest: %v\n", err)
		return 1
	}

	if err := writeJSON(outPath, claim); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}

func loadSigner(keyHex, keyBase64 string) (*soft.Signer, error) {
	switch {
	case keyHex != "":
		return soft.NewSignerFromSeedHex(keyHex)
	case keyBase64 != "":
		return soft.NewSignerFromBase64(keyBase64)
	default:
		return nil, fmt.Errorf("a signing key is required: pass --key-hex or --key-base64, or set signer_seed_hex / signer_key_base64 in config")
	}
}

func readImage(path string) (attest.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return attest.Image{}, err
	}
	defer f.Close()
	return attest.DecodeImage(f)
}
