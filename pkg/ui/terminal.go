package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"reeldl/pkg/instagram"
)

// ASCII logo for the application
const ASCIILogo = `
  ██████╗ ███████╗███████╗██╗     ██████╗ ██╗
  ██╔══██╗██╔════╝██╔════╝██║     ██╔══██╗██║
  ██████╔╝█████╗  █████╗  ██║     ██║  ██║██║
  ██╔══██╗██╔══╝  ██╔══╝  ██║     ██║  ██║██║
  ██║  ██║███████╗███████╗███████╗██████╔╝███████╗
  ╚═╝  ╚═╝╚══════╝╚══════╝╚══════╝╚═════╝ ╚══════╝
            INSTAGRAM REEL DOWNLOADER
`

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

var quietMode bool

// SetQuietMode suppresses all output except errors
func SetQuietMode(quiet bool) {
	quietMode = quiet
}

// IsQuietMode returns whether quiet mode is active
func IsQuietMode() bool {
	return quietMode
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if quietMode {
		return
	}
	fmt.Print(Cyan(ASCIILogo))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Red(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quietMode {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints an info message in cyan
func PrintInfo(label string, value string) {
	if quietMode {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(Yellow(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	if quietMode {
		return
	}
	fmt.Println(Magenta(msg))
}

// PrintProfile prints the resolved profile header
func PrintProfile(p *instagram.Profile) {
	if quietMode {
		return
	}
	name := p.FullName
	if name == "" {
		name = p.Username
	}
	PrintInfo("Account", fmt.Sprintf("%s (@%s)", name, p.Username))
	PrintInfo("Followers", humanize.Comma(int64(p.Followers)))
	PrintInfo("Posts", humanize.Comma(int64(p.MediaCount)))
	if p.IsPrivate {
		PrintWarning("Profile is private; reels require a follow relationship")
	}
}

// PrintDownloading prints the start of a single reel download
func PrintDownloading(filename string) {
	if quietMode {
		return
	}
	fmt.Printf("%s %s\n", Cyan("[DOWNLOADING]"), filename)
}

// PrintDownloaded prints a completed reel download
func PrintDownloaded(filename string, size int64) {
	if quietMode {
		return
	}
	fmt.Printf("%s %s %s\n", Green("[DONE]"), filename, Dim(humanize.Bytes(uint64(size))))
}

// PrintSkipped prints a skipped (already present) reel
func PrintSkipped(filename string) {
	if quietMode {
		return
	}
	fmt.Printf("%s %s\n", Yellow("[SKIPPED]"), filename)
}
