// Package config defines the necessary types to configure the application.
// An example config file config.yaml is provided in the repository.
package config

import (
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

// Archive backends.
const (
	ArchiveMemory   = "memory"
	ArchiveValkey   = "valkey"
	ArchivePostgres = "postgres"
)

type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash" yaml:",inline"`

	HTTP HTTPServer `yaml:"http"`

	Database    Database    `yaml:"database"`
	ValKey      ValKey      `yaml:"valkey"`
	Registry    Registry    `yaml:"registry"`
	Archive     Archive     `yaml:"archive"`
	Housekeeper Housekeeper `yaml:"housekeeper"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
}

type Database struct {
	Name     string              `yaml:"name"`
	Port     string              `yaml:"port"`
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Password commoncfg.SourceRef `yaml:"password"`
	// SSLMode is passed through as libpq sslmode when set.
	SSLMode string `yaml:"sslMode"`
}

type ValKey struct {
	Host      commoncfg.SourceRef `yaml:"host"`
	User      commoncfg.SourceRef `yaml:"user"`
	Password  commoncfg.SourceRef `yaml:"password"`
	Prefix    string              `yaml:"prefix" default:"recording-manager"`
	SecretRef commoncfg.SecretRef `yaml:"secretRef"`
}

// Registry bounds the in-process session registry. Zero values fall back to
// the registry defaults; a negative MaxSessions removes the limit.
type Registry struct {
	MaxSessions int `yaml:"maxSessions" default:"1024"`
	IDAttempts  int `yaml:"idAttempts" default:"8"`
}

type Archive struct {
	// Backend is one of memory, valkey or postgres.
	Backend   string        `yaml:"backend" default:"memory"`
	Retention time.Duration `yaml:"retention" default:"168h"`
}

type Housekeeper struct {
	TriggerInterval      time.Duration `yaml:"triggerInterval" default:"1m"`
	MaxRecordingDuration time.Duration `yaml:"maxRecordingDuration" default:"0s"`
}
