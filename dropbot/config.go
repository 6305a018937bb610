package dropbot

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"github.com/dropcards/dropbot/dropbot/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log    LogConfig         `toml:"log"`
	Bot    BotConfig         `toml:"bot"`
	DB     database.DBConfig `toml:"db"`
	Spaces SpacesConfig      `toml:"spaces"`
}

type BotConfig struct {
	DevGuilds []snowflake.ID `toml:"dev_guilds"`
	Token     string         `toml:"token"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// SpacesConfig points at the DigitalOcean Spaces bucket holding the content
// tables and card art. LocalDir is the fallback when the bucket is down or
// unset.
type SpacesConfig struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	Root     string `toml:"root"`
	LocalDir string `toml:"local_dir"`
}
