package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where notabase stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// Embedding configuration
	EmbeddingProvider   string // NOTABASE_EMBEDDING_PROVIDER (default: local)
	EmbeddingModel      string // NOTABASE_EMBEDDING_MODEL (default: text-embedding-3-small)
	EmbeddingDimensions int    // NOTABASE_EMBEDDING_DIMENSIONS (default: 384)
	OpenAIAPIKey        string // NOTABASE_OPENAI_API_KEY
	OpenAIBaseURL       string // NOTABASE_OPENAI_BASE_URL (default: https://api.openai.com/v1)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from NOTABASE_* environment variables.
func (p *Profile) FromEnv() {
	p.EmbeddingProvider = getEnvOrDefault("NOTABASE_EMBEDDING_PROVIDER", "local")
	p.EmbeddingModel = getEnvOrDefault("NOTABASE_EMBEDDING_MODEL", "text-embedding-3-small")
	p.OpenAIAPIKey = os.Getenv("NOTABASE_OPENAI_API_KEY")
	p.OpenAIBaseURL = getEnvOrDefault("NOTABASE_OPENAI_BASE_URL", "https://api.openai.com/v1")

	if dims := os.Getenv("NOTABASE_EMBEDDING_DIMENSIONS"); dims != "" {
		if n, err := strconv.Atoi(dims); err == nil && n > 0 {
			p.EmbeddingDimensions = n
		}
	}
	if p.EmbeddingDimensions == 0 {
		p.EmbeddingDimensions = 384
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

// Validate normalizes the profile and fills driver-dependent defaults.
func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Driver != "sqlite" && p.Driver != "postgres" {
		return errors.Errorf("unknown db driver %q: only 'postgres' and 'sqlite' are supported", p.Driver)
	}

	if p.Data == "" {
		p.Data = "."
	}
	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		return err
	}
	p.Data = dataDir

	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("notabase_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires a DSN")
	}

	return nil
}
