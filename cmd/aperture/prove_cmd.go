package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"aperture/pkg/attest"
)

func runProve(args []string) int {
	fs := flag.NewFlagSet("prove", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var inPath string
	var claimPath string
	var outPath string
	var crop attest.CropRequest
	fs.StringVar(&inPath, "in", "", "original image path")
	fs.StringVar(&claimPath, "claim", "", "claim JSON path")
	fs.IntVar(&crop.X, "x", 0, "crop left edge in pixels")
	fs.IntVar(&crop.Y, "y", 0, "crop top edge in pixels")
	fs.IntVar(&crop.Width, "width", 0, "crop width in pixels")
	fs.IntVar(&crop.Height, "height", 0, "crop height in pixels")
	fs.StringVar(&outPath, "out", "", "output bundle JSON path (default stdout)")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if inPath == "" || claimPath == "" {
		fmt.Fprintln(os.Stderr, "prove requires --in and --claim")
		return 1
	}

	var claim attest.Claim
	if err := readJSON(claimPath, &claim); err != nil {
		fmt.Fprintf(os.Stderr, "read claim: %v\n", err)
		return 1
	}

	img, err := readImage(inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read image: %v\n", err)
		return 1
	}

	bundle, err := attest.BuildCropBundle(context.Background(), img, claim, crop)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build bundle: %v\n", err)
		return 1
	}

	if err := writeJSON(outPath, bundle); err != nil {
		fmt.Fprintf(os.Stderr, "write output: %v\n", err)
		return 1
	}
	return 0
}
