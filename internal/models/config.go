package models

// Config represents the service configuration
type Config struct {
	// Server config
	Port int    `yaml:"port"`
	Host string `yaml:"host"`

	// Name extraction config
	Extraction ExtractionConfig `yaml:"extraction"`

	// OCR config
	OCR OCRConfig `yaml:"ocr"`
}

// ExtractionConfig holds the knobs of the patient name pipeline.
type ExtractionConfig struct {
	// YThreshold is the maximum vertical distance between word centres for
	// two words to land on the same line (normalized page units).
	YThreshold float64 `yaml:"y_threshold"`

	// FeminineTitles extends the medical title lexicon with feminine
	// grammatical forms.
	FeminineTitles bool `yaml:"feminine_titles"`
}

// OCRConfig represents OCR-specific configuration
type OCRConfig struct {
	Engine   string `yaml:"engine"`   // only "tesseract" is supported
	Language string `yaml:"language"` // OCR language (default: "fra")
}

// DefaultConfig returns the configuration used when config.yaml sets no
// value.
func DefaultConfig() Config {
	return Config{
		Host: "0.0.0.0",
		Port: 8080,
		Extraction: ExtractionConfig{
			YThreshold: 0.01,
		},
		OCR: OCRConfig{
			Engine:   "tesseract",
			Language: "fra",
		},
	}
}
