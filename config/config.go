package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Document store: "mongo" or "firestore".
	Datastore    string `mapstructure:"DATASTORE"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Firebase project.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseStorageBucket   string `mapstructure:"FIREBASE_STORAGE_BUCKET"`

	// Blob store for profile pictures: "firebase", "cloudinary" or "s3".
	BlobBackend         string `mapstructure:"BLOB_BACKEND"`
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	AWSRegion           string `mapstructure:"AWS_REGION"`
	AWSAccessKeyID      string `mapstructure:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey  string `mapstructure:"AWS_SECRET_ACCESS_KEY"`
	S3Bucket            string `mapstructure:"S3_BUCKET"`

	// Trigger delivery.
	TriggerSecret      string `mapstructure:"TRIGGER_SECRET"`
	QueueConcurrency   int    `mapstructure:"QUEUE_CONCURRENCY"`
	QueueMaxRetry      int    `mapstructure:"QUEUE_MAX_RETRY"`
	WatchChangeStreams bool   `mapstructure:"WATCH_CHANGE_STREAMS"`

	// DisplayTimezone is the IANA zone duty times are rendered in.
	DisplayTimezone string        `mapstructure:"DISPLAY_TIMEZONE"`
	IDTokenCacheTTL time.Duration `mapstructure:"ID_TOKEN_CACHE_TTL"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATASTORE", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "dutynotify")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_AUTH_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_STORAGE_BUCKET", "")
	v.SetDefault("BLOB_BACKEND", "firebase")
	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("TRIGGER_SECRET", "")
	v.SetDefault("QUEUE_CONCURRENCY", 10)
	v.SetDefault("QUEUE_MAX_RETRY", 5)
	v.SetDefault("WATCH_CHANGE_STREAMS", false)
	v.SetDefault("DISPLAY_TIMEZONE", "UTC")
	v.SetDefault("ID_TOKEN_CACHE_TTL", 5*time.Minute)
}

// Load reads configuration from an optional config.yaml, the environment and defaults.
func Load(v *viper.Viper) (Config, error) {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

// DisplayLocation resolves DisplayTimezone, falling back to UTC.
func (c Config) DisplayLocation() *time.Location {
	if c.DisplayTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		log.Printf("unknown DISPLAY_TIMEZONE %q, using UTC", c.DisplayTimezone)
		return time.UTC
	}
	return loc
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
