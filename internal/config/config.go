package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const envPrefix = "STUDIO_"

type Application struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	Report   Report   `koanf:"report"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	// Path is the SQLite database file. ":memory:" keeps everything in memory.
	Path          string `koanf:"path"`
	BusyTimeoutMs int    `koanf:"busytimeoutms"`
}

type Report struct {
	CurrencySymbol string `koanf:"currencysymbol"`
}

func Defaults() Application {
	return Application{
		Server: Server{
			Addr: ":8181",
		},
		Database: Database{
			Path:          "data/dance.db",
			BusyTimeoutMs: 5000,
		},
		Report: Report{
			CurrencySymbol: "$",
		},
	}
}

// Load reads configuration from struct defaults, then the YAML file at path, then STUDIO_* environment
// variables. A .env file in the working directory is loaded into the environment first when present.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	if err := godotenv.Load(".env"); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Errorf("error loading .env file: %v", err)
			return Application{}, err
		}
	} else {
		log.Info("Loaded environment from .env")
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}
