package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"aperture/pkg/attest"
)

func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var claimPath string
	var inPath string
	var bundlePath string
	var outPath string
	fs.StringVar(&claimPath, "claim", "", "claim JSON path")
	fs.StringVar(&inPath, "in", "", "full image path")
	fs.StringVar(&bundlePath, "bundle", "", "crop bundle JSON path")
	fs.StringVar(&outPath, "out", "", "output JSON path (default stdout)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if claimPath == "" {
		fmt.Fprintln(os.Stderr, "verify requires --claim")
		return 1
	}
	if (inPath == "") == (bundlePath == "") {
		fmt.Fprintln(os.Stderr, "verify requires exactly one of --in or --bundle")
		return 1
	}

	var claim attest.Claim
	if err := readJSON(claimPath, &claim); err != nil {
		fmt.Fprintf(os.Stderr, "read claim: %v\n", err)
		return 1
	}

	var result attest.VerificationResult
	var err error
	if inPath != "" {
		var img attest.Image
		img, err = readImage(inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read image: %v\n", err)
			return 1
		}
		result, err = attest.VerifyFull(context.Background(), claim, img)
	} else {
		var bundle attest.CropBundle
		if err := readJSON(bundlePath, &bundle); err != nil {
			fmt.Fprintf(os.Stderr, "read bundle: %v\n", err)
			return 1
		}
		result, err = attest.VerifyCrop(context.Background(), claim, bundle)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify: %v\n", err)
		return 1
	}

	if err := writeJSON(outPath, result); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		return 1
	}
	if !result.Valid {
		return 2
	}
	return 0
}
