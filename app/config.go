package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const defaultConfig = `# meteofetch

################################## LOGGING ####################################

[logging]

#
# Logging verbosity level.
# Supported values: "DEBUG", "INFO", "WARN", "ERROR", "FATAL" or "PANIC".
#
level = "INFO"

#################################### API ######################################

[api]

#
# Base URL of the Meteomatics API.
#
base_url = "https://api.meteomatics.com"

#
# API credentials. When left empty they are resolved from the
# METEOMATICS_USERNAME and METEOMATICS_PASSWORD environment variables.
# The --username and --password flags take precedence over both.
#
username = ""
password = ""

#
# Client-side timeout of the request, in seconds.
#
timeout = 30

################################### OUTPUT ####################################

[output]

#
# Directory where response artifacts are saved when --out is not given.
#
directory = "data"
`

type Config struct {
	v *viper.Viper

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`

	API struct {
		BaseURL  string `mapstructure:"base_url"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Timeout  int    `mapstructure:"timeout"`
	} `mapstructure:"api"`

	Output struct {
		Directory string `mapstructure:"directory"`
	} `mapstructure:"output"`
}

func (c Config) Validate() error {
	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be a positive number of seconds")
	}
	return nil
}

func (c Config) String() string {
	tmpfile, err := os.CreateTemp("", "config.*.toml")
	if err != nil {
		return err.Error()
	}
	defer os.Remove(tmpfile.Name())
	err = c.v.WriteConfigAs(tmpfile.Name())
	if err != nil {
		return err.Error()
	}
	blob, err := os.ReadFile(tmpfile.Name())
	if err != nil {
		return err.Error()
	}
	return string(blob)
}

func loadConfig(c *Config) error {
	// Pick up a .env file when the working directory carries one.
	_ = godotenv.Load()

	v := viper.New()

	v.SetEnvPrefix("METEOMATICS")
	v.AutomaticEnv()
	_ = v.BindEnv("api.username", "METEOMATICS_USERNAME")
	_ = v.BindEnv("api.password", "METEOMATICS_PASSWORD")

	v.SetConfigName("meteofetch")
	v.SetConfigType("toml")
	v.AddConfigPath("$HOME/.config/")
	v.AddConfigPath("/etc/meteofetch/")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read our default configuration.
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		panic(err) // Not in the user path.
	}

	// Include configuration file provided by the user.
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return errors.Wrap(err, "configuration unmarshaling failed")
	}

	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "config did not pass validation")
	}

	c.v = v

	return nil
}
