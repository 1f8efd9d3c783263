package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// Config holds the CLI's server connection and caller identity. It
// implements httpclient.Configurator so it can be handed straight to the
// session client.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// ServerURL is the URL and port of the MentorHub server
	ServerURL string `yaml:"server_url"`
	// UserID is the caller's user id, sent with every request
	UserID string `yaml:"user_id"`
	// DisplayName is shown to other participants in the live room
	DisplayName string `yaml:"display_name"`
	// Timezone is the preferred display timezone for slot listings
	Timezone string `yaml:"timezone"`
	// CurrentToken is a cached meeting token, if one was issued
	CurrentToken string `yaml:"current_token"`
	// TokenExpiry is when the cached meeting token expires
	TokenExpiry string `yaml:"token_expiry"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// (e.g., ~/.config/mentorhub/config.yaml on Linux).
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "mentorhub", DefaultConfigFile), nil
}

// LoadConfig loads the configuration from the specified file
// If no file is specified, it uses the default config location
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return fmt.Errorf("unable to parse config file: %w", err)
	}

	if c.ServerURL == "" {
		return errors.New("server:port is required")
	}
	if c.UserID == "" {
		return errors.New("user_id is required; set it with \"mentorhub config --user <id>\"")
	}

	c.ServerURL = MorphServer(c.ServerURL)

	config = &c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the current configuration to the specified file
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), os.ModePerm)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// MorphServer ensures the server URL is properly formatted
// Adds http:// prefix if missing and removes trailing slashes
func MorphServer(server string) string {
	if server == "" {
		return server
	}

	server = strings.TrimRight(server, "/")

	if !strings.HasPrefix(server, "http://") && !strings.HasPrefix(server, "https://") {
		server = "https://" + server
	}

	return server
}

// GetServerURL returns the properly formatted server URL
func (cfg *Config) GetServerURL() string {
	return MorphServer(cfg.ServerURL)
}

// GetUserID returns the caller's user id
func (cfg *Config) GetUserID() string {
	return cfg.UserID
}

// GetToken returns the cached meeting token from the configuration
func (cfg *Config) GetToken() string {
	return cfg.CurrentToken
}

// GetTokenExpiry returns the cached token's expiry time
func (cfg *Config) GetTokenExpiry() time.Time {
	if cfg.TokenExpiry == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, cfg.TokenExpiry)
	if err != nil {
		return time.Time{}
	}
	return t
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long:  `Manage CLI configuration settings like server connection and caller identity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		serverFlag, _ := cmd.Flags().GetString("server")
		userFlag, _ := cmd.Flags().GetString("user")
		nameFlag, _ := cmd.Flags().GetString("name")
		tzFlag, _ := cmd.Flags().GetString("tz")
		if serverFlag == "" && userFlag == "" && nameFlag == "" && tzFlag == "" {
			cmd.Help()
			return nil
		}
		return updateConfig(serverFlag, userFlag, nameFlag, tzFlag)
	},
}

func init() {
	configCmd.Flags().String("server", "", "Set the server URL and port (e.g., hub.example.com:8080)")
	configCmd.Flags().String("user", "", "Set the caller's user id")
	configCmd.Flags().String("name", "", "Set the display name shown in the live room")
	configCmd.Flags().String("tz", "", "Set the preferred display timezone (IANA name)")

	rootCmd.AddCommand(configCmd)
}

// updateConfig applies the given settings on top of the existing config
// file, creating it when absent.
func updateConfig(server, user, name, tz string) error {
	configPath := configFile
	if configPath == "" {
		var err error
		configPath, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	cfg := &Config{Version: "0.1.0"}
	if yamlStr, err := os.ReadFile(configPath); err == nil {
		_ = yaml.Unmarshal(yamlStr, cfg)
	}

	if server != "" {
		if !strings.Contains(server, ":") {
			return errors.New("server must include port number (e.g., hub.example.com:8080)")
		}
		cfg.ServerURL = MorphServer(server)
		// a new server invalidates any cached token
		cfg.CurrentToken = ""
		cfg.TokenExpiry = ""
	}
	if user != "" {
		cfg.UserID = user
	}
	if name != "" {
		cfg.DisplayName = name
	}
	if tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("unknown timezone %q", tz)
		}
		cfg.Timezone = tz
	}

	if err := cfg.WriteConfig(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]string{
			"server":      cfg.ServerURL,
			"user":        cfg.UserID,
			"config_file": configPath,
		})
	} else {
		fmt.Printf("Server: %s\n", cfg.ServerURL)
		fmt.Printf("User: %s\n", cfg.UserID)
		fmt.Printf("Config file: %s\n", configPath)
	}

	return nil
}
