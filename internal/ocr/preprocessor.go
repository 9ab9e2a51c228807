package ocr

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Preprocessor handles scan enhancement before OCR
type Preprocessor struct{}

// NewPreprocessor creates a new scan preprocessor
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{}
}

// PreprocessScan applies image enhancement filters
// Uses ImageMagick for: grayscale, contrast, denoise, sharpen
func (p *Preprocessor) PreprocessScan(imageData []byte) ([]byte, error) {
	// Create temp files
	tmpDir := os.TempDir()
	inputFile := filepath.Join(tmpDir, fmt.Sprintf("scan_in_%d.jpg", os.Getpid()))
	outputFile := filepath.Join(tmpDir, fmt.Sprintf("scan_out_%d.jpg", os.Getpid()))

	// Write input image
	if err := os.WriteFile(inputFile, imageData, 0644); err != nil {
		return imageData, nil // Fallback to original
	}
	defer os.Remove(inputFile)
	defer os.Remove(outputFile)

	// Pipeline: resize (if too large) -> grayscale -> contrast -> denoise -> sharpen
	args := []string{
		inputFile,
		// Resize if larger than 2000px (keeps aspect ratio)
		"-resize", "2000x2000>",
		// Convert to grayscale for better text contrast
		"-colorspace", "Gray",
		// Normalize histogram (auto-contrast)
		"-normalize",
		// Increase contrast
		"-contrast-stretch", "2%x1%",
		// Light denoise
		"-despeckle",
		// Sharpen text edges
		"-sharpen", "0x1",
		// Slight unsharp mask for text clarity
		"-unsharp", "0x0.5+0.5+0",
		// High quality output
		"-quality", "95",
		outputFile,
	}

	// Try 'magick' first (ImageMagick 7), fallback to 'convert' (ImageMagick 6)
	var cmd *exec.Cmd
	if _, err := exec.LookPath("magick"); err == nil {
		cmd = exec.Command("magick", args...)
	} else {
		cmd = exec.Command("convert", args...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// If ImageMagick fails, return original image
		fmt.Printf("[Preprocessor] ImageMagick failed: %v - %s\n", err, stderr.String())
		return imageData, nil
	}

	// Read processed image
	processed, err := os.ReadFile(outputFile)
	if err != nil {
		return imageData, nil // Fallback to original
	}

	fmt.Printf("[Preprocessor] Scan enhanced: %d bytes -> %d bytes\n", len(imageData), len(processed))
	return processed, nil
}
