// Command fxproof runs the pixel pipeline on an image file from the command
// line. Useful for proofing slider values and verifying that output is
// bit-identical across machines.
package main

import (
	"flag"
	"fmt"
	"os"

	sceneimage "scene-studio/internal/image"
)

func main() {
	inPath := flag.String("in", "", "Input image (PNG, JPEG, or TIFF)")
	outPath := flag.String("out", "proof.png", "Output PNG path")
	brightness := flag.Int("brightness", 100, "Brightness (100 = unchanged)")
	contrast := flag.Int("contrast", 100, "Contrast (100 = unchanged)")
	saturation := flag.Int("saturation", 100, "Saturation (100 = unchanged)")
	sharpen := flag.Int("sharpen", 0, "Sharpen amount 0-100")
	vignette := flag.Int("vignette", 0, "Vignette strength 0-100")
	preview := flag.Bool("preview", false, "Downscale to preview resolution before processing")
	flag.Parse()

	if *inPath == "" {
		fmt.Println("Usage: fxproof -in <path> [-out proof.png] [-brightness 100] [-contrast 100] [-saturation 100] [-sharpen 0] [-vignette 0]")
		os.Exit(1)
	}

	buf, err := sceneimage.Load(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %dx%d image\n", buf.Width, buf.Height)

	if *preview {
		buf = sceneimage.Downscale(buf, sceneimage.PreviewMaxSide)
		fmt.Printf("Preview resolution: %dx%d\n", buf.Width, buf.Height)
	}

	edits := sceneimage.Edits{
		Brightness: *brightness,
		Contrast:   *contrast,
		Saturation: *saturation,
		Sharpen:    *sharpen,
		Vignette:   *vignette,
	}
	if edits.IsIdentity() {
		fmt.Println("All values are identity; output will equal the input")
	}

	out, err := sceneimage.Apply(buf, edits)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline failed: %v\n", err)
		os.Exit(1)
	}

	if err := sceneimage.SavePNG(*outPath, out); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *outPath)
}
