package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	// FileName is the per-project configuration file, kept in the project
	// directory next to the files it describes.
	FileName = "s3-project-backup.json"

	globalConfigDirName = "s3-project-backup"

	// DirnameSentinel in s3_path_prefix resolves to the base name of the
	// project directory at load time.
	DirnameSentinel = "DIRNAME"
)

// SyncExcludes are tool artifacts that are never uploaded, downloaded, or
// deleted by a sync.
var SyncExcludes = []string{
	"upload.sh",
	".gitignore",
	FileName,
	"s3-project-backup.py",
	"_DS_Store",
	".DS_Store",
}

var gitignoreBody = "/*\n!.gitignore\n!README.md\n!" + FileName + "\n"

// ErrNotFound indicates that the project has no configuration file yet.
var ErrNotFound = errors.New(FileName + " not found, run `s3-project-backup init` first")

// InvalidError indicates a configuration file that exists but cannot be used,
// either because it does not parse or because required keys are absent.
type InvalidError struct {
	MissingFields []string
	Err           error
}

func (e *InvalidError) Error() string {
	if len(e.MissingFields) > 0 {
		return fmt.Sprintf("invalid %s: missing required fields: %s", FileName, strings.Join(e.MissingFields, ", "))
	}
	return fmt.Sprintf("invalid %s: %v", FileName, e.Err)
}

func (e *InvalidError) Unwrap() error { return e.Err }

// Config is the persisted project configuration. All four keys are required
// for a sync to run.
type Config struct {
	AWSProfile     string `mapstructure:"aws_profile" json:"aws_profile" validate:"required"`
	S3Bucket       string `mapstructure:"s3_bucket" json:"s3_bucket" validate:"required"`
	S3PathPrefix   string `mapstructure:"s3_path_prefix" json:"s3_path_prefix" validate:"required"`
	S3StorageClass string `mapstructure:"s3_storage_class" json:"s3_storage_class" validate:"required"`
}

// S3URL returns the remote side of the sync, s3://bucket/prefix/.
func (c *Config) S3URL() string {
	return fmt.Sprintf("s3://%s/%s/", c.S3Bucket, c.S3PathPrefix)
}

// Merge fills empty fields of c from defaults, leaving set fields alone.
func (c *Config) Merge(defaults *Config) {
	if c.AWSProfile == "" {
		c.AWSProfile = defaults.AWSProfile
	}
	if c.S3Bucket == "" {
		c.S3Bucket = defaults.S3Bucket
	}
	if c.S3PathPrefix == "" {
		c.S3PathPrefix = defaults.S3PathPrefix
	}
	if c.S3StorageClass == "" {
		c.S3StorageClass = defaults.S3StorageClass
	}
}

// Store reads and writes the configuration of a single project directory.
// The directory is explicit; the store never consults the process working
// directory.
type Store struct {
	dir      string
	validate *validator.Validate
}

func NewStore(dir string) *Store {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
	})
	return &Store{dir: dir, validate: v}
}

// Path returns the location of the project configuration file.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Exists reports whether the configuration file is present.
func (s *Store) Exists() (bool, error) {
	_, err := os.Stat(s.Path())
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("error checking %s: %w", s.Path(), err)
}

// Load reads and validates the full configuration. It fails with ErrNotFound
// when the file is absent and with *InvalidError when it is malformed or any
// required key is missing. A DIRNAME prefix is resolved to the directory name.
func (s *Store) Load() (*Config, error) {
	exists, err := s.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	cfg, err := readFile(s.Path())
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			missing := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				missing = append(missing, fe.Field())
			}
			return nil, &InvalidError{MissingFields: missing}
		}
		return nil, &InvalidError{Err: err}
	}

	if cfg.S3PathPrefix == DirnameSentinel {
		abs, err := filepath.Abs(s.dir)
		if err != nil {
			return nil, fmt.Errorf("error resolving project directory: %w", err)
		}
		cfg.S3PathPrefix = filepath.Base(abs)
	}

	return cfg, nil
}

// LoadPartial reads whatever subset of keys is present, for init's ensure
// pass. A missing file yields an empty config rather than an error.
func (s *Store) LoadPartial() (*Config, error) {
	exists, err := s.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return &Config{}, nil
	}
	return readFile(s.Path())
}

// Write persists cfg pretty-printed. It replaces the configuration file and
// nothing else.
func (s *Store) Write(cfg *Config) error {
	v := viper.New()
	v.SetConfigType("json")
	v.Set("aws_profile", cfg.AWSProfile)
	v.Set("s3_bucket", cfg.S3Bucket)
	v.Set("s3_path_prefix", cfg.S3PathPrefix)
	v.Set("s3_storage_class", cfg.S3StorageClass)
	if err := v.WriteConfigAs(s.Path()); err != nil {
		return fmt.Errorf("error writing %s: %w", s.Path(), err)
	}
	return nil
}

func readFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, &InvalidError{Err: err}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &InvalidError{Err: err}
	}
	return &cfg, nil
}

// GlobalPath returns the user-wide defaults file consulted by init.
func GlobalPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting user home directory: %w", err)
	}
	return filepath.Join(home, ".config", globalConfigDirName, FileName), nil
}

// LoadDefaults reads a defaults file from path. A missing file yields an
// empty config.
func LoadDefaults(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return readFile(path)
}

// WriteScaffold lays down the companion files init maintains: a .gitignore
// that hides everything except the tool's own files, and a README.md headed
// by the S3 URL when none exists yet.
func WriteScaffold(dir string, cfg *Config) error {
	gitignorePath := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte(gitignoreBody), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", gitignorePath, err)
	}

	readmePath := filepath.Join(dir, "README.md")
	if _, err := os.Stat(readmePath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("error checking %s: %w", readmePath, err)
	}

	readme := fmt.Sprintf("# s3://%s/%s\n", cfg.S3Bucket, cfg.S3PathPrefix)
	if err := os.WriteFile(readmePath, []byte(readme), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", readmePath, err)
	}
	return nil
}
