package imagery

import (
	"errors"
	"fmt"
	"log/slog"
)

// ProviderType represents the type of imagery provider.
type ProviderType string

const (
	// ProviderTypeSentinelHub represents the Sentinel Hub imagery provider.
	ProviderTypeSentinelHub ProviderType = "sentinelhub"
	// ProviderTypeCopernicus represents the Copernicus Data Space imagery provider.
	ProviderTypeCopernicus ProviderType = "copernicus"
)

// defaultRateLimit is applied when the configuration leaves the limit unset.
const defaultRateLimit = 5

// ProviderConfig holds configuration for creating an imagery provider.
type ProviderConfig struct {
	Type       ProviderType // Type of provider to create
	APIKey     string       // OAuth token for the imagery API
	InstanceID string       // Configured instance (required by Sentinel Hub WFS queries)
	RateLimit  int          // Rate limit for requests per second
	Logger     *slog.Logger // Logger for the provider
}

// NewProvider creates an imagery provider based on the provided configuration.
// It applies the Factory pattern to decouple provider instantiation from
// business logic.
//
// Supported provider types:
// - "sentinelhub": Sentinel Hub services (requires API key and instance ID)
// - "copernicus": Copernicus Data Space ecosystem (requires API key)
//
// Returns an error if the provider type is unsupported or required
// credentials are missing.
func NewProvider(config ProviderConfig) (Provider, error) {
	if config.RateLimit == 0 {
		config.RateLimit = defaultRateLimit
		config.Logger.Warn("Rate limit for imagery API not set, set a default value", "value", config.RateLimit)
	}

	switch config.Type {
	case ProviderTypeSentinelHub:
		if config.APIKey == "" {
			return nil, errors.New("API key is required for Sentinel Hub provider")
		}
		if config.InstanceID == "" {
			return nil, errors.New("instance ID is required for Sentinel Hub provider")
		}

		return NewSentinelHubProvider(config.APIKey, config.InstanceID, config.RateLimit, config.Logger), nil
	case ProviderTypeCopernicus:
		if config.APIKey == "" {
			return nil, errors.New("API key is required for Copernicus provider")
		}

		return NewCopernicusProvider(config.APIKey, config.RateLimit, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}
