package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"reeldl/pkg/config"
	"reeldl/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage reeldl configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (REELDL_*)
  - .env file
  - Configuration file (.reeldl.yaml)
  - Default values (lowest priority)`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.reeldl.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the effective configuration merged from all sources.

Sensitive values like session credentials are masked.`,
	Run: runConfigShow,
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Value types and ranges
  - Output and log directory accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".reeldl.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# reeldl configuration file
#
# Every option here can also be set through environment variables
# prefixed with REELDL_, for example REELDL_OUTPUT_DIR or
# REELDL_SESSION_ID.

# Instagram credentials (optional; public profiles work without them)
instagram:
  # Session ID from the sessionid cookie
  session_id: ""

  # CSRF token from the csrftoken cookie
  csrf_token: ""

  # User agent string (leave empty for default)
  user_agent: ""

# Download configuration
download:
  # Output directory for downloaded reels
  output_dir: "videos"

  # Pause between downloaded items
  item_delay: 2s

  # Per-request download timeout
  download_timeout: 30s

  # Maximum number of video posts to process (0 = unlimited)
  max_items: 0

  # Write a captions.json sidecar into the output directory
  write_captions: false

# Rate limiting for API calls
rate_limit:
  requests_per_minute: 60
  max_retries: 3
  retry_delay: 5s

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (empty = console only)
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0644); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Adjust the configuration as needed")
	fmt.Println("2. Run 'reeldl config validate' to check it")
	fmt.Println("3. Start downloading with 'reeldl download <username>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	displayCfg := *cfg
	displayCfg.Instagram.SessionID = maskSecret(displayCfg.Instagram.SessionID)
	displayCfg.Instagram.CSRFToken = maskSecret(displayCfg.Instagram.CSRFToken)

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (REELDL_*)")
	fmt.Println("3. .env file")
	if configFile != "" {
		fmt.Printf("4. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("4. Configuration file: (auto-discovered)")
	}
	fmt.Println("5. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			".reeldl.yaml",
			".reeldl.yml",
			filepath.Join(os.Getenv("HOME"), ".reeldl.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "reeldl", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	var warnings []string
	var errors []string

	if !cfg.HasCredentials() {
		warnings = append(warnings, "no Instagram credentials configured (public profiles only)")
	}

	if cfg.Download.OutputDir != "" {
		if err := os.MkdirAll(cfg.Download.OutputDir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create output directory: %v", err))
		}
	}

	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Output directory: %s\n", cfg.Download.OutputDir)
	fmt.Printf("  Item delay: %s\n", cfg.Download.ItemDelay)
	fmt.Printf("  Max items: %d\n", cfg.Download.MaxItems)
	fmt.Printf("  Rate limit: %d requests/minute\n", cfg.RateLimit.RequestsPerMinute)
	fmt.Printf("  Max retries: %d\n", cfg.RateLimit.MaxRetries)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}

// maskSecret masks all but the edges of a secret for display
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
