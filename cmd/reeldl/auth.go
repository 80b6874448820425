package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"reeldl/pkg/auth"
	"reeldl/pkg/ui"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Instagram credentials",
	Long: `Manage stored Instagram credentials securely.

Credentials are stored using:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - Environment variables (REELDL_SESSION_ID, REELDL_CSRF_TOKEN)

Login is optional: public profiles download without credentials.
Never share your credentials or config files!`,
}

// loginCmd represents the auth login command
var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Store Instagram credentials securely",
	Long: `Store Instagram session credentials in the system keychain or an
encrypted file.

You will be prompted for:
  - Instagram username (if not provided)
  - Session ID (from the sessionid cookie)
  - CSRF token (from the csrftoken cookie)
  - User agent (optional, press Enter for default)

To get these values:
1. Log into Instagram in your browser
2. Open Developer Tools (F12)
3. Go to Application/Storage > Cookies
4. Copy the sessionid and csrftoken values`,
	Example: `  # Interactive login
  reeldl auth login

  # Login with username
  reeldl auth login myusername`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogin,
}

// logoutCmd represents the auth logout command
var logoutCmd = &cobra.Command{
	Use:   "logout [username]",
	Short: "Remove stored credentials",
	Long: `Remove stored Instagram credentials.

If no username is provided, you will be shown the stored accounts to
choose from.`,
	Example: `  # Interactive logout
  reeldl auth logout

  # Logout specific account
  reeldl auth logout myusername`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLogout,
}

// authListCmd represents the auth list command
var authListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored accounts",
	Long:  `List all stored Instagram accounts with sanitized credential information.`,
	Run:   runAuthList,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(authListCmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	var username string
	if len(args) > 0 {
		username = args[0]
	}

	reader := bufio.NewReader(os.Stdin)

	if username == "" {
		fmt.Print("Instagram username: ")
		input, err := reader.ReadString('\n')
		if err != nil {
			ui.PrintError("Failed to read username", err.Error())
			os.Exit(1)
		}
		username = strings.TrimSpace(input)
	}

	if username == "" {
		ui.PrintError("Username is required")
		os.Exit(1)
	}

	if existing, _ := manager.Retrieve(username); existing != nil {
		fmt.Printf("Account '%s' already exists. Update credentials? (y/N): ", username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\nEnter your cookie values (they will be hidden as you type):")

	fmt.Print("sessionid cookie value: ")
	sessionID, err := readPassword()
	if err != nil {
		ui.PrintError("Failed to read session ID", err.Error())
		os.Exit(1)
	}
	if sessionID == "" {
		ui.PrintError("Session ID is required")
		os.Exit(1)
	}

	fmt.Print("csrftoken cookie value: ")
	csrfToken, err := readPassword()
	if err != nil {
		ui.PrintError("Failed to read CSRF token", err.Error())
		os.Exit(1)
	}
	if csrfToken == "" {
		ui.PrintError("CSRF token is required")
		os.Exit(1)
	}

	fmt.Print("User agent (press Enter for default): ")
	userAgent, _ := reader.ReadString('\n')
	userAgent = strings.TrimSpace(userAgent)

	account := &auth.Account{
		Username:     username,
		SessionID:    sessionID,
		CSRFToken:    csrfToken,
		UserAgent:    userAgent,
		LastModified: time.Now(),
	}

	if err := manager.Store(account); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess(fmt.Sprintf("Account saved: %s", username))
	fmt.Println("\nDownload reels from a profile that requires a follow:")
	fmt.Printf("  reeldl download <instagram_username> --account %s\n", username)
}

func runLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	if len(args) > 0 {
		username := args[0]
		if err := manager.Delete(username); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + username)
		return
	}

	accounts, err := manager.List()
	if err != nil || len(accounts) == 0 {
		ui.PrintError("No stored accounts found")
		return
	}

	reader := bufio.NewReader(os.Stdin)

	if len(accounts) == 1 {
		account := accounts[0]
		fmt.Printf("Remove account '%s'? (y/N): ", account.Username)
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}

		if err := manager.Delete(account.Username); err != nil {
			ui.PrintError("Failed to remove account", err.Error())
			os.Exit(1)
		}
		ui.PrintSuccess("Account removed: " + account.Username)
		return
	}

	fmt.Println("Select account to remove:")
	for i, account := range accounts {
		fmt.Printf("  %d. %s\n", i+1, account.Username)
	}
	fmt.Printf("  0. Cancel\n\n")

	fmt.Print("Choice: ")
	input, _ := reader.ReadString('\n')

	var choice int
	fmt.Sscanf(strings.TrimSpace(input), "%d", &choice)

	if choice < 1 || choice > len(accounts) {
		return
	}

	account := accounts[choice-1]
	if err := manager.Delete(account.Username); err != nil {
		ui.PrintError("Failed to remove account", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Account removed: " + account.Username)
}

func runAuthList(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	accounts, err := manager.List()
	if err != nil {
		ui.PrintError("Failed to list accounts", err.Error())
		os.Exit(1)
	}

	if len(accounts) == 0 {
		ui.PrintInfo("No stored accounts", "Use 'reeldl auth login' to add an account")
		return
	}

	ui.PrintHighlight("Stored Accounts")
	fmt.Println()

	for i, account := range accounts {
		sanitized := auth.SanitizeAccount(account)
		fmt.Printf("%d. Username: %s\n", i+1, sanitized.Username)
		fmt.Printf("   Session ID: %s\n", sanitized.SessionID)
		fmt.Printf("   CSRF Token: %s\n", sanitized.CSRFToken)
		if sanitized.UserAgent != "" {
			fmt.Printf("   User Agent: %s\n", sanitized.UserAgent)
		}
		fmt.Printf("   Last Modified: %s\n", sanitized.LastModified.Format("2006-01-02 15:04:05"))
		fmt.Println()
	}
}

// readPassword reads a password from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
	}

	// Fallback to regular input when stdin is not a terminal
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
