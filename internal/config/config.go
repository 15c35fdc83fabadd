package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the field monitoring service.
// It includes the environment, server port, imagery provider settings, the
// capture parameters, worker pool sizing, and database configuration.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - Port: The port for the fieldscope monitoring server.
// - ProviderType: The type of imagery provider to use (sentinelhub, copernicus).
// - APIKey: The API key for accessing the imagery provider.
// - InstanceID: The configured instance for WFS capture-date queries (Sentinel Hub only).
// - Workers: The number of concurrent workers for scanning fields.
// - Interval: The duration between scanning intervals.
// - Resolution: The ground resolution in meters per pixel.
// - MaxCloudCover: The tolerated cloud fraction (0..1) when listing captures.
// - LookbackDays: How many days back capture dates are searched.
// - GridWidth/GridHeight: The pixel grid capture areas are snapped to.
// - DataFolder: Where downloaded captures are stored.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env           string         `yaml:"env"`                     // Env is the current environment: local, dev, prod.
	Port          int            `yaml:"fieldscope.port"`         // Port is the fieldscope monitoring server port.
	ProviderType  string         `yaml:"provider.type"`           // ProviderType specifies which imagery provider to use
	APIKey        string         `yaml:"provider.api_key"`        // The API key for accessing the imagery provider.
	InstanceID    string         `yaml:"provider.instance_id"`    // The WFS instance for capture-date queries.
	Workers       int            `yaml:"fieldscope.workers"`      // The number of concurrent workers for scanning fields.
	Interval      time.Duration  `yaml:"fieldscope.interval"`     // The duration between scanning intervals.
	Resolution    float64        `yaml:"capture.resolution"`      // Ground resolution in meters per pixel.
	MaxCloudCover float64        `yaml:"capture.max_cloud_cover"` // Tolerated cloud fraction, 0..1.
	LookbackDays  int            `yaml:"capture.lookback_days"`   // How many days back captures are searched.
	GridWidth     int            `yaml:"capture.grid_width"`      // Width of the target pixel grid.
	GridHeight    int            `yaml:"capture.grid_height"`     // Height of the target pixel grid.
	DataFolder    string         `yaml:"capture.data_folder"`     // Where downloaded captures are stored. Feeds ImageQuery.DataFolder; the scan loop itself does not download.
	Database      PostgresConfig `yaml:"postgres"`                // Database holds the postgres database configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`                        // Host is the database server address.
	Port     string `yaml:"port"     env-default:"5432"` // Port is the database server port.
	User     string `yaml:"user"`                        // User is the database user.
	Password string `yaml:"password"`                    // Password is the database user's password.
	Name     string `yaml:"db_name"`                     // Name is the name of the database.
}

// MustLoad loads the configuration from the environment and returns a Config struct.
func MustLoad() *Config {
	_ = godotenv.Load()

	interval, err := time.ParseDuration(setDeafultEnv("FIELDSCOPE_INTERVAL", "10m"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	healthPort, err := strconv.Atoi(setDeafultEnv("FIELDSCOPE_HEALTH_PORT", "8080"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	workers, err := strconv.Atoi(setDeafultEnv("FIELDSCOPE_WORKERS", "10"))
	if err != nil {
		panic("failed to parse workers from configuration, must be an integer types")
	}

	resolution, err := strconv.ParseFloat(setDeafultEnv("FIELDSCOPE_RESOLUTION", "10"), 64)
	if err != nil {
		panic("failed to parse resolution from configuration, must be meters per pixel")
	}

	maxCloudCover, err := strconv.ParseFloat(setDeafultEnv("FIELDSCOPE_MAX_CLOUD_COVER", "0.2"), 64)
	if err != nil {
		panic("failed to parse max cloud cover from configuration, must be a fraction")
	}

	lookbackDays, err := strconv.Atoi(setDeafultEnv("FIELDSCOPE_LOOKBACK_DAYS", "30"))
	if err != nil {
		panic("failed to parse lookback days from configuration, must be an integer types")
	}

	gridWidth, err := strconv.Atoi(setDeafultEnv("FIELDSCOPE_GRID_WIDTH", "512"))
	if err != nil {
		panic("failed to parse grid width from configuration, must be an integer types")
	}

	gridHeight, err := strconv.Atoi(setDeafultEnv("FIELDSCOPE_GRID_HEIGHT", "512"))
	if err != nil {
		panic("failed to parse grid height from configuration, must be an integer types")
	}

	return &Config{
		Env:           setDeafultEnv("FIELDSCOPE_ENV", "production"),
		Port:          healthPort,
		ProviderType:  setDeafultEnv("FIELDSCOPE_PROVIDER_TYPE", "sentinelhub"),
		APIKey:        os.Getenv("FIELDSCOPE_PROVIDER_KEY"),
		InstanceID:    os.Getenv("FIELDSCOPE_INSTANCE_ID"),
		Workers:       workers,
		Interval:      interval,
		Resolution:    resolution,
		MaxCloudCover: maxCloudCover,
		LookbackDays:  lookbackDays,
		GridWidth:     gridWidth,
		GridHeight:    gridHeight,
		DataFolder:    setDeafultEnv("FIELDSCOPE_DATA_FOLDER", "./captures"),
		Database: PostgresConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			User:     os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
		},
	}
}

func setDeafultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
