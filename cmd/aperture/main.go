package main

import (
	"fmt"
	"os"
	"path/filepath"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	if len(args) < 2 {
		usage(args)
		return 1
	}

	switch args[1] {
	case "keygen":
		return runKeygen(args[2:])
	case "attest":
		return runAttest(args[2:])
	case "prove":
		return runProve(args[2:])
	case "verify":
		return runVerify(args[2:])
	case "serve":
		return runServe(args[2:])
	}

	usage(args)
	return 1
}

func usage(args []string) {
	name := "aperture"
	if len(args) > 0 && args[0] != "" {
		name = filepath.Base(args[0])
	}
	fmt.Fprintf(os.Stderr, "usage:\n")
	fmt.Fprintf(os.Stderr, "  %s keygen [--out <file>]\n", name)
	fmt.Fprintf(os.Stderr, "  %s attest --in <image> (--key-hex <hex>|--key-base64 <b64>|--key-agent <url>) [--tile-size <n>] [--metadata <file>] [--attestation <token>] [--policy <bundle>] [--out <file>]\n", name)
	fmt.Fprintf(os.Stderr, "  %s prove --in <image> --claim <claim.json> --x <n> --y <n> --width <n> --height <n> [--out <file>]\n", name)
	fmt.Fprintf(os.Stderr, "  %s verify --claim <claim.json> (--in <image>|--bundle <bundle.json>)\n", name)
	fmt.Fprintf(os.Stderr, "  %s serve [--config <file>]\n", name)
}
