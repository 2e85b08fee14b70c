package model

import (
	"runtime"
	"time"
)

// Config is the complete proctrim configuration.
type Config struct {
	Paths        PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Detect       DetectConfig      `yaml:"detect" mapstructure:"detect"`
	Trim         TrimConfig        `yaml:"trim" mapstructure:"trim"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig       `yaml:"cache" mapstructure:"cache"`
	LLM          LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output       OutputConfig      `yaml:"output" mapstructure:"output"`
}

// PathsConfig locates the data directories and registries.
type PathsConfig struct {
	ReferencesCSV        string `yaml:"references_csv" mapstructure:"references_csv"`
	PDFDir               string `yaml:"pdf_dir" mapstructure:"pdf_dir"`
	TextDir              string `yaml:"text_dir" mapstructure:"text_dir"`
	TrimmedDir           string `yaml:"trimmed_dir" mapstructure:"trimmed_dir"`
	TrimRegistryPath     string `yaml:"trim_registry" mapstructure:"trim_registry"`
	ArtifactRegistryPath string `yaml:"artifact_registry" mapstructure:"artifact_registry"`
}

// DetectConfig holds the proceedings-detection thresholds. The defaults are
// the production values; they are configuration, not law.
type DetectConfig struct {
	MinPages          int `yaml:"min_pages" mapstructure:"min_pages"`
	FrontWindowPages  int `yaml:"front_window_pages" mapstructure:"front_window_pages"`
	MarkerPages       int `yaml:"marker_pages" mapstructure:"marker_pages"`
	MinAbstractStarts int `yaml:"min_abstract_starts" mapstructure:"min_abstract_starts"`
	MinTitleLike      int `yaml:"min_title_like" mapstructure:"min_title_like"`
	MinAuthorLike     int `yaml:"min_author_like" mapstructure:"min_author_like"`
}

// TrimConfig holds the match weights and the auto-trim confidence gate.
// The gate accepts when title_score >= TitleAccept, or when title, author and
// combined scores all clear their floors.
type TrimConfig struct {
	TitleWeight  float64 `yaml:"title_weight" mapstructure:"title_weight"`
	AuthorWeight float64 `yaml:"author_weight" mapstructure:"author_weight"`
	TitleAccept  float64 `yaml:"title_accept" mapstructure:"title_accept"`
	TitleFloor   float64 `yaml:"title_floor" mapstructure:"title_floor"`
	AuthorFloor  float64 `yaml:"author_floor" mapstructure:"author_floor"`
	MatchFloor   float64 `yaml:"match_floor" mapstructure:"match_floor"`
	MaxSurnames  int     `yaml:"max_surnames" mapstructure:"max_surnames"`
}

// ConcurrencyConfig controls batch parallelism.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig paces job dispatch during batch runs. Zero disables pacing.
type RateLimitConfig struct {
	DocsPerSecond float64 `yaml:"docs_per_second" mapstructure:"docs_per_second"`
	BurstSize     int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls the extraction cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// LLMConfig configures the optional section extractor. Disabled unless a
// provider is set; never affects trim decisions.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"`
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls CLI output behaviour.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			ReferencesCSV:        "data/references/references_export.csv",
			PDFDir:               "data/pdf_original",
			TextDir:              "data/extraction_json/text",
			TrimmedDir:           "data/extraction_json/text_trimmed",
			TrimRegistryPath:     "data/references/text_trim_registry.csv",
			ArtifactRegistryPath: "data/references/paper_artifact_registry.csv",
		},
		Detect: DetectConfig{
			MinPages:          40,
			FrontWindowPages:  40,
			MarkerPages:       5,
			MinAbstractStarts: 8,
			MinTitleLike:      20,
			MinAuthorLike:     10,
		},
		Trim: TrimConfig{
			TitleWeight:  0.75,
			AuthorWeight: 0.25,
			TitleAccept:  0.70,
			TitleFloor:   0.55,
			AuthorFloor:  0.25,
			MatchFloor:   0.60,
			MaxSurnames:  6,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		RateLimiting: RateLimitConfig{
			DocsPerSecond: 0,
			BurstSize:     5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "",
			TTL:     7 * 24 * time.Hour,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   60,
			MaxTokens: 2000,
		},
		Output: OutputConfig{
			Verbose: false,
		},
	}
}
