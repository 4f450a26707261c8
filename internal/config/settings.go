package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/streakkeeper/streakkeeper/internal/apperr"
)

// EnvPrefix prefixes environment variables that override settings, e.g.
// STREAKKEEPER_ANKI_ROLLOVER=true.
const EnvPrefix = "STREAKKEEPER_"

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Settings are the options shared by every command. Keys match the long flag
// names, in the config file as well as in the environment.
type Settings struct {
	Profile        string `koanf:"collection" validate:"required"`
	CollectionPath string `koanf:"collection-path"`
	Verbose        bool   `koanf:"verbose"`
	Format         string `koanf:"format" validate:"oneof=table json"`

	Simulate     bool   `koanf:"simulate"`
	Limit        int    `koanf:"limit" validate:"gte=0"`
	From         string `koanf:"from"`
	To           string `koanf:"to"`
	Rollover     int    `koanf:"rollover" validate:"gte=0,lte=23"`
	AnkiRollover bool   `koanf:"anki-rollover"`
	Backup       bool   `koanf:"backup"`
	BackupKeep   int    `koanf:"backup-keep" validate:"gte=0"`
}

// CollectionFile returns the collection to operate on: the explicit path if
// one is set, otherwise the profile's collection.
func (s *Settings) CollectionFile() string {
	if s.CollectionPath != "" {
		return s.CollectionPath
	}
	return GetCollectionPath(s.Profile)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load builds Settings from, in increasing priority: flag defaults, the config
// file, STREAKKEEPER_* environment variables and flags set on the command line.
func Load(flags *pflag.FlagSet) (*Settings, error) {
	k := koanf.New(".")

	path := GetConfigFile()
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidOption, err, "cannot read config file %s", path)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.Wrap(apperr.KindInvalidOption, err, "cannot access config file %s", path)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidOption, err, "cannot read environment")
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, apperr.Wrap(apperr.KindInvalidOption, err, "cannot read flags")
		}
	}

	settings := &Settings{Profile: DefaultProfile, Format: FormatTable, Backup: true}
	if err := k.Unmarshal("", settings); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidOption, err, "invalid settings")
	}
	settings.Format = strings.ToLower(settings.Format)

	if err := validate.Struct(settings); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidOption, err, "invalid settings")
	}
	return settings, nil
}

// envKey maps STREAKKEEPER_COLLECTION_PATH to collection-path.
func envKey(s string) string {
	key := strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", "-")
}
