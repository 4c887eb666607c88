package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`

	// Record store
	DatabaseDriver string `envconfig:"DATABASE_DRIVER" default:"postgres"` // postgres or sqlite
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	StoreTimeoutMS uint   `envconfig:"STORE_TIMEOUT_MS" default:"3000"`

	// Archive of distributed donations
	ArchiveBucket string `envconfig:"ARCHIVE_BUCKET"`
	ArchivePrefix string `envconfig:"ARCHIVE_PREFIX" default:"donations"`
}
