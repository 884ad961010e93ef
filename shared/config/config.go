package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	Store      Store `yaml:"store"`
	PageLimit  int   `yaml:"page_limit"`  // default listing page size
	BcryptCost int   `yaml:"bcrypt_cost"` // 0 = bcrypt.DefaultCost
	LogJSON    bool  `yaml:"log_json"`
	LogLevel   string `yaml:"log_level"`
}

type Store struct {
	Path             string `yaml:"path"`
	MinimumFreeSpace int    `yaml:"minimum_free_space"` // in GB; 0 disables the preflight
}

type Private struct {
	HashPepper string `yaml:"hash_pepper"` // HMAC pepper for reset tokens
}

func (s *Config) HashPepper() string {
	return s.private.HashPepper
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
