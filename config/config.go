package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erikh/saturn/pkg/terrors"
	"github.com/erikh/saturn/pkg/utils"

	"github.com/spf13/viper"
)

const (
	EnvPrefix = "SATURN"
	EnvCFG    = "SATURN_CONFIG"
	EnvDB     = "SATURN_DB"
)

var DefaultPath = "~/.saturn"

var configPath string

func ConfigPath() string {
	return configPath
}
func setConfigPath(path string) error {
	path, err := utils.NormalizePath(path)
	if err != nil {
		return err
	}
	configPath = path
	return nil
}

func SelectConfigFile(arg string) error {
	var path string
	env := os.Getenv(EnvCFG)
	if arg != "" {
		path = arg
	} else if env != "" {
		path = env
	} else {
		path = DefaultPath
	}

	return setConfigPath(path)
}

// DBPath resolves the calendar db file: SATURN_DB env, then the
// "db-file" config key, then saturn.yaml's sibling saturn.db.
func DBPath() (string, error) {
	if env := os.Getenv(EnvDB); env != "" {
		return utils.NormalizePath(env)
	}
	if key := viper.GetString("db-file"); key != "" {
		return utils.NormalizePath(key)
	}
	return filepath.Join(ConfigPath(), "saturn.db"), nil
}

func InitViper(arg string) error {
	err := SelectConfigFile(arg)
	if err != nil {
		return err
	}
	path := ConfigPath()
	viper.SetConfigType("yaml")
	viper.SetConfigName("saturn")
	viper.AddConfigPath(path)
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	err = viper.ReadConfig(bytes.NewReader([]byte(DefaultConfig)))
	if err != nil {
		return fmt.Errorf("%w: failed parsing default configurations: %w", terrors.ErrParse, err)
	}
	err = viper.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}
	err = os.MkdirAll(path, 0755)
	if err != nil {
		return err
	}
	err = viper.SafeWriteConfigAs(filepath.Join(path, "saturn.yaml"))
	if _, ok := err.(viper.ConfigFileAlreadyExistsError); ok {
		return nil
	}
	return err
}
