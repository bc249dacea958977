package blob

import (
	"context"
	"strings"

	"brreg/internal/platform/config"
	perr "brreg/internal/platform/errors"
	"brreg/internal/platform/validate"
)

// Config selects and configures a driver
type Config struct {
	Driver      string `env:"BLOB_DRIVER" validate:"oneof=fs s3 memory"`
	Root        string `env:"TREE_ROOT" validate:"required_if=Driver fs"`
	S3Bucket    string `env:"BLOB_S3_BUCKET" validate:"required_if=Driver s3"`
	S3Region    string `env:"BLOB_S3_REGION"`
	S3Endpoint  string `env:"BLOB_S3_ENDPOINT" validate:"omitempty,url"`
	S3PathStyle bool   `env:"BLOB_S3_PATH_STYLE"`
	S3Prefix    string `env:"BLOB_S3_PREFIX"`
}

// DefaultRoot is the shard tree directory when nothing else is configured
const DefaultRoot = "companies"

// FromConfig reads blob settings from a BRREG_ prefixed view
//
//	TREE_ROOT             directory for the fs driver (default companies)
//	BLOB_DRIVER           fs|s3|memory (default fs)
//	BLOB_S3_BUCKET        required for s3
//	BLOB_S3_REGION        default us-east-1
//	BLOB_S3_ENDPOINT      optional, for MinIO
//	BLOB_S3_PATH_STYLE    true|false
//	BLOB_S3_PREFIX        key prefix (default companies/)
func FromConfig(c config.Conf) Config {
	return Config{
		Driver:      strings.ToLower(c.MayString("BLOB_DRIVER", string(DriverFilesystem))),
		Root:        c.MayString("TREE_ROOT", DefaultRoot),
		S3Bucket:    c.MayString("BLOB_S3_BUCKET", ""),
		S3Region:    c.MayString("BLOB_S3_REGION", "us-east-1"),
		S3Endpoint:  c.MayString("BLOB_S3_ENDPOINT", ""),
		S3PathStyle: c.MayBool("BLOB_S3_PATH_STYLE", false),
		S3Prefix:    c.MayString("BLOB_S3_PREFIX", DefaultRoot+"/"),
	}
}

// Open validates cfg and constructs the selected driver
func Open(ctx context.Context, cfg Config) (Store, error) {
	if cfg.Driver == "" {
		cfg.Driver = string(DriverFilesystem)
	}
	if err := validate.Struct(cfg, perr.ErrorCodeConfig); err != nil {
		return nil, perr.WithOp(err, "blob.open")
	}
	switch Driver(cfg.Driver) {
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			Prefix:    cfg.S3Prefix,
		})
	case DriverMemory:
		return NewMemory(), nil
	default:
		return NewFilesystem(cfg.Root)
	}
}
