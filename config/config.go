package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel int `yaml:"log_level"`

	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Ollama      OllamaConfig      `yaml:"ollama"`
	Assets      AssetsConfig      `yaml:"assets"`
	Recommender RecommenderConfig `yaml:"recommender"`
	Mashup      MashupConfig      `yaml:"mashup"`
}

type ServerConfig struct {
	Port string `yaml:"port"`
}

type StorageConfig struct {
	// Type of storage: "local" or "gcs"
	Type string `yaml:"type"`

	// Local output directory. For gcs this is the staging directory.
	OutputDir string `yaml:"output_dir"`

	// Files in OutputDir older than FileTTL are removed by the cleanup worker.
	FileTTL time.Duration `yaml:"file_ttl"`

	// GCS options
	Bucket          string `yaml:"bucket"`
	ObjectPrefix    string `yaml:"object_prefix"`
	CredentialsFile string `yaml:"credentials_file"`
	PublicBaseURL   string `yaml:"public_base_url"`
}

type OllamaConfig struct {
	BaseURL          string        `yaml:"base_url"`
	Model            string        `yaml:"model"`
	HealthTimeout    time.Duration `yaml:"health_timeout"`
	RequestTimeout   time.Duration `yaml:"request_timeout"`
	SkipStartupCheck bool          `yaml:"skip_startup_check"`
}

type AssetsConfig struct {
	Dir string `yaml:"dir"`
}

type RecommenderConfig struct {
	DatasetPath string `yaml:"dataset_path"`
	TopN        int    `yaml:"top_n"`
}

type MashupConfig struct {
	Bitrate string `yaml:"bitrate"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config *Config

	// Unmarshal the YAML data into the struct
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	config.SetDefaults()
	return config, nil
}

// SetDefaults fills every unset field with its default value.
func (c *Config) SetDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8001"
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.OutputDir == "" {
		c.Storage.OutputDir = "outputs"
	}
	if c.Storage.FileTTL == 0 {
		c.Storage.FileTTL = 24 * time.Hour
	}

	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = "http://localhost:11434"
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = "mistral"
	}
	if c.Ollama.HealthTimeout == 0 {
		c.Ollama.HealthTimeout = 5 * time.Second
	}
	if c.Ollama.RequestTimeout == 0 {
		c.Ollama.RequestTimeout = 30 * time.Second
	}

	if c.Assets.Dir == "" {
		c.Assets.Dir = "assets"
	}

	if c.Recommender.DatasetPath == "" {
		c.Recommender.DatasetPath = "recommender/tracks.csv"
	}
	if c.Recommender.TopN <= 0 {
		c.Recommender.TopN = 5
	}

	if c.Mashup.Bitrate == "" {
		c.Mashup.Bitrate = "128k"
	}
}
