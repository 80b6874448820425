package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"reeldl/pkg/auth"
	"reeldl/pkg/config"
	"reeldl/pkg/downloader"
	errs "reeldl/pkg/errors"
	"reeldl/pkg/instagram"
	"reeldl/pkg/logger"
	"reeldl/pkg/ui"
)

var (
	// Download command flags
	outputDir       string
	itemDelay       time.Duration
	maxItems        int
	accountName     string
	writeCaptions   bool
	noLogin         bool
	downloadTimeout time.Duration
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download <username>",
	Short: "Download all reels from an Instagram profile",
	Long: `Download all video posts (reels) from an Instagram user's profile.

Files are written to the output directory (default: videos/), named
from the first line of each post's caption, or the post shortcode when
the caption is empty. Posts whose file already exists on disk are
skipped without touching the network, so re-running against the same
profile is cheap and idempotent.

Credentials are optional. Public profiles download without login; for
profiles that require a follow relationship, store credentials with
'reeldl auth login' or set REELDL_SESSION_ID and REELDL_CSRF_TOKEN.`,
	Example: `  # Download reels using default settings
  reeldl download natgeo

  # Download to a specific directory with a longer pause between items
  reeldl download natgeo --output ./reels --delay 5s

  # Only the 20 most recent items, with a captions.json sidecar
  reeldl download natgeo --max-items 20 --captions

  # Use a specific stored account
  reeldl download someprivateuser --account myaccount

  # Force anonymous access even when credentials are stored
  reeldl download natgeo --no-login`,
	Args: cobra.ExactArgs(1),
	Run:  runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for downloads (default: videos)")
	downloadCmd.Flags().DurationVar(&itemDelay, "delay", 2*time.Second, "pause between downloaded items")
	downloadCmd.Flags().IntVar(&maxItems, "max-items", 0, "maximum number of video posts to process (0 = unlimited)")
	downloadCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	downloadCmd.Flags().BoolVar(&writeCaptions, "captions", false, "write a captions.json sidecar into the output directory")
	downloadCmd.Flags().BoolVar(&noLogin, "no-login", false, "skip stored credentials and access anonymously")
	downloadCmd.Flags().DurationVar(&downloadTimeout, "download-timeout", 30*time.Second, "per-request download timeout")

	// Same flags on the root command so 'reeldl <username>' works too
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for downloads (default: videos)")
	rootCmd.Flags().DurationVar(&itemDelay, "delay", 2*time.Second, "pause between downloaded items")
	rootCmd.Flags().IntVar(&maxItems, "max-items", 0, "maximum number of video posts to process (0 = unlimited)")
	rootCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	rootCmd.Flags().BoolVar(&writeCaptions, "captions", false, "write a captions.json sidecar into the output directory")
	rootCmd.Flags().BoolVar(&noLogin, "no-login", false, "skip stored credentials and access anonymously")
	rootCmd.Flags().DurationVar(&downloadTimeout, "download-timeout", 30*time.Second, "per-request download timeout")
}

// Make download the default command so 'reeldl <username>' works
func init() {
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 && !isKnownCommand(args[0]) {
			runDownload(downloadCmd, args)
			return nil
		}
		return cmd.Help()
	}
	rootCmd.Args = cobra.ArbitraryArgs
}

func isKnownCommand(arg string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == arg || cmd.HasAlias(arg) {
			return true
		}
	}
	return false
}

func runDownload(cmd *cobra.Command, args []string) {
	username := instagram.SanitizeUsername(args[0])
	if !instagram.IsValidUsername(username) {
		ui.PrintError("Invalid username", args[0])
		os.Exit(1)
	}

	ui.PrintInfo("Target Profile", username)

	// Build flags map from command line
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if itemDelay != 2*time.Second {
		flags["delay"] = itemDelay
	}
	if maxItems > 0 {
		flags["max-items"] = maxItems
	}
	if writeCaptions {
		flags["captions"] = writeCaptions
	}
	if downloadTimeout != 30*time.Second {
		flags["download-timeout"] = downloadTimeout
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}
	logger.WithField("version", version).Info("reeldl starting")

	if noLogin {
		cfg.Instagram.SessionID = ""
		cfg.Instagram.CSRFToken = ""
	} else {
		resolveCredentials(cfg)
	}

	d, err := downloader.New(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize downloader")
		ui.PrintError("Failed to initialize downloader", err.Error())
		os.Exit(1)
	}

	result, err := d.Run(username)
	if err != nil {
		reportFatal(username, err)
		os.Exit(1)
	}

	logger.WithField("username", username).Info("Download run completed")
	ui.PrintSummary(result.Downloaded, result.Skipped, result.Failed, result.Bytes, result.OutputDir, result.Duration)
}

// resolveCredentials fills session credentials into the config when
// available. Login is optional, so a missing account is only fatal
// when the operator asked for one by name.
func resolveCredentials(cfg *config.Config) {
	if cfg.HasCredentials() {
		logger.Info("Using credentials from configuration")
		return
	}

	credManager, err := auth.NewManager()
	if err != nil {
		logger.WithError(err).Warn("Credential manager unavailable, continuing anonymously")
		return
	}

	var account *auth.Account
	if accountName != "" {
		account, err = credManager.Retrieve(accountName)
		if err != nil {
			ui.PrintError("Account not found", accountName)
			ui.PrintInfo("Available accounts", "Use 'reeldl auth list' to see stored accounts")
			os.Exit(1)
		}
	} else {
		// Best effort: anonymous access is fine for public profiles
		account, _ = credManager.RetrieveDefault()
	}

	if account != nil {
		cfg.Instagram.SessionID = account.SessionID
		cfg.Instagram.CSRFToken = account.CSRFToken
		if account.UserAgent != "" {
			cfg.Instagram.UserAgent = account.UserAgent
		}
		logger.WithField("account", account.Username).Info("Using stored credentials")
		ui.PrintInfo("Using account", account.Username)
	}
}

// reportFatal prints a cause-specific message for a fatal run error
func reportFatal(username string, err error) {
	logger.WithError(err).WithField("username", username).Error("Download run failed")

	switch {
	case errs.IsType(err, errs.ErrorTypeNotFound):
		ui.PrintError("Profile not found", fmt.Sprintf("no profile named %q exists or it is not accessible", username))
	case errs.IsType(err, errs.ErrorTypeAuth):
		ui.PrintError("Authentication required", "this profile needs login; run 'reeldl auth login' and retry")
	case errs.IsType(err, errs.ErrorTypeRateLimit):
		ui.PrintError("Rate limited by Instagram", "wait a while before retrying")
	case errs.IsType(err, errs.ErrorTypeNetwork):
		ui.PrintError("Network failure", err.Error())
	default:
		ui.PrintError("Download failed", err.Error())
	}
}
