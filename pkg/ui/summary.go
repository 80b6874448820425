package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// PrintSummary prints the final downloaded/skipped totals block.
// It is printed on every normal completion and never on fatal abort.
func PrintSummary(downloaded, skipped, failed int, size int64, outputDir string, elapsed time.Duration) {
	if quietMode {
		return
	}

	rule := strings.Repeat("=", 60)

	fmt.Println()
	fmt.Println(Dim(rule))
	PrintSuccess("Download complete")
	PrintInfo("Downloaded", fmt.Sprintf("%d reels (%s)", downloaded, humanize.Bytes(uint64(size))))
	PrintInfo("Skipped", fmt.Sprintf("%d (already exist)", skipped))
	if failed > 0 {
		PrintWarning(fmt.Sprintf("Failed: %d (see log for details)", failed))
	}
	PrintInfo("Location", outputDir)
	PrintInfo("Elapsed", elapsed.Round(time.Second).String())
	fmt.Println(Dim(rule))
}
