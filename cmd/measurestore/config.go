package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/measurestore"
	"github.com/hupe1980/measurestore/blobstore"
	miniostore "github.com/hupe1980/measurestore/blobstore/minio"
	s3store "github.com/hupe1980/measurestore/blobstore/s3"
	"github.com/hupe1980/measurestore/codec"
)

const envPrefix = "MEASURESTORE"

// config holds the settings shared by all subcommands.
type config struct {
	Backend     string   `mapstructure:"backend"`
	Root        string   `mapstructure:"root"`
	Bucket      string   `mapstructure:"bucket"`
	Prefix      string   `mapstructure:"prefix"`
	Endpoint    string   `mapstructure:"endpoint"`
	Region      string   `mapstructure:"region"`
	AccessKey   string   `mapstructure:"access-key"`
	SecretKey   string   `mapstructure:"secret-key"`
	UseSSL      bool     `mapstructure:"use-ssl"`
	CacheBytes  int64    `mapstructure:"cache-bytes"`
	Codec       string   `mapstructure:"codec"`
	Measures    []string `mapstructure:"measure"`
	Filters     []string `mapstructure:"filter"`
	LogLevel    string   `mapstructure:"log-level"`
	LogFormat   string   `mapstructure:"log-format"`
	MetricsFile string   `mapstructure:"metrics-file"`
	RateLimit   float64  `mapstructure:"rate-limit"`
}

func addPersistentFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "config file (yaml, json or toml)")
	fs.String("backend", "local", "blob backend: local|s3|minio")
	fs.String("root", ".", "directory of the local backend")
	fs.String("bucket", "", "bucket of the s3 and minio backends")
	fs.String("prefix", "", "key prefix of the s3 and minio backends")
	fs.String("endpoint", "", "endpoint of an S3-compatible service")
	fs.String("region", "", "AWS region (s3 backend)")
	fs.String("access-key", "", "access key (minio backend)")
	fs.String("secret-key", "", "secret key (minio backend)")
	fs.Bool("use-ssl", true, "use TLS (minio backend)")
	fs.Int64("cache-bytes", 0, "cache fetched documents up to this many bytes (0 disables)")
	fs.String("codec", "go-json", "response codec: "+strings.Join(codec.Names, "|"))
	fs.StringSlice("measure", nil, "measure columns; defaults to the measures the response declares")
	fs.StringArray("filter", nil, "exact filter col=value; repeat for more values or columns")
	fs.String("log-level", "warn", "log level: debug|info|warn|error")
	fs.String("log-format", "text", "log format: text|json")
	fs.String("metrics-file", "", "write Prometheus metrics of the run to this file")
	fs.Float64("rate-limit", 0, "maximum document reads per second (0 disables)")
}

// loadConfig merges flags, environment and the optional config file.
func loadConfig(fs *pflag.FlagSet) (*config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *config) logger() (*measurestore.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "json":
		return measurestore.NewJSONLogger(level), nil
	case "text", "":
		return measurestore.NewTextLogger(level), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", c.LogFormat)
	}
}

func (c *config) codec() (codec.Codec, error) {
	cd, ok := codec.ByName(c.Codec)
	if !ok {
		return nil, fmt.Errorf("unknown codec %q", c.Codec)
	}
	return cd, nil
}

// blobStore opens the configured backend.
func (c *config) blobStore(ctx context.Context) (blobstore.BlobStore, error) {
	var (
		store blobstore.BlobStore
		err   error
	)
	switch c.Backend {
	case "local", "":
		store = blobstore.NewLocalStore(c.Root)
	case "s3":
		if c.Bucket == "" {
			return nil, fmt.Errorf("s3 backend requires --bucket")
		}
		opts := []s3store.Option{s3store.WithPrefix(c.Prefix)}
		if c.Region != "" {
			opts = append(opts, s3store.WithRegion(c.Region))
		}
		if c.Endpoint != "" {
			opts = append(opts, s3store.WithEndpoint(c.Endpoint))
		}
		if store, err = s3store.New(ctx, c.Bucket, opts...); err != nil {
			return nil, err
		}
	case "minio":
		if c.Bucket == "" || c.Endpoint == "" {
			return nil, fmt.Errorf("minio backend requires --bucket and --endpoint")
		}
		client, err := minio.New(c.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
			Secure: c.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		store = miniostore.NewStore(client, c.Bucket, c.Prefix)
	default:
		return nil, fmt.Errorf("unknown backend %q", c.Backend)
	}

	if c.CacheBytes > 0 {
		store = blobstore.NewCachingStore(store, c.CacheBytes)
	}
	return store, nil
}
