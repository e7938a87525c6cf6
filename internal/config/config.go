package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Supabase  SupabaseConfig
	Bucket    BucketConfig
	Reconcile ReconcileConfig
	Database  DatabaseConfig
	LogLevel  string
}

type SupabaseConfig struct {
	URL string
	Key string
}

type BucketConfig struct {
	Name      string
	Dir       string
	PageLimit int
}

type ReconcileConfig struct {
	CSVPath                string
	FileExtension          string
	TreatZeroByteAsMissing bool
}

type DatabaseConfig struct {
	URL       string
	Table     string
	Column    string
	SourceTag string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("BUCKET", "fictionpress")
		viper.SetDefault("BUCKET_DIR", "contents")
		viper.SetDefault("PAGE_LIMIT", 10000)
		viper.SetDefault("CSV_PATH", "input.csv")
		viper.SetDefault("FILE_EXTENSION", "txt")
		viper.SetDefault("TREAT_ZERO_BYTE_AS_MISSING", true)
		viper.SetDefault("DB_TABLE", "stories")
		viper.SetDefault("DB_COLUMN", "id")
		viper.SetDefault("DB_SOURCE_TAG", "archive_of_our_own")
		viper.SetDefault("LOG_LEVEL", "info")

		// Read from environment variables
		viper.AutomaticEnv()

		instance = &Config{
			Supabase: SupabaseConfig{
				URL: viper.GetString("SUPABASE_URL"),
				Key: viper.GetString("SUPABASE_KEY"),
			},
			Bucket: BucketConfig{
				Name:      viper.GetString("BUCKET"),
				Dir:       viper.GetString("BUCKET_DIR"),
				PageLimit: viper.GetInt("PAGE_LIMIT"),
			},
			Reconcile: ReconcileConfig{
				CSVPath:                viper.GetString("CSV_PATH"),
				FileExtension:          viper.GetString("FILE_EXTENSION"),
				TreatZeroByteAsMissing: viper.GetBool("TREAT_ZERO_BYTE_AS_MISSING"),
			},
			Database: DatabaseConfig{
				URL:       viper.GetString("DATABASE_URL"),
				Table:     viper.GetString("DB_TABLE"),
				Column:    viper.GetString("DB_COLUMN"),
				SourceTag: viper.GetString("DB_SOURCE_TAG"),
			},
			LogLevel: viper.GetString("LOG_LEVEL"),
		}
	})

	return instance
}

// Validate checks the settings that have no usable default. Missing Supabase
// credentials are fatal at startup; everything else can be supplied per run.
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL must be set")
	}
	if c.Supabase.Key == "" {
		return fmt.Errorf("SUPABASE_KEY must be set")
	}
	return nil
}
