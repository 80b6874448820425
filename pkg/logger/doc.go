// Package logger provides a structured logging interface for the reel downloader.
//
// It wraps the zerolog library to provide a clean, easy-to-use API with support for:
// - Multiple log levels (Debug, Info, Warn, Error, Fatal)
// - Structured logging with fields
// - Pretty console output with colors
// - Optional file output
// - Global logger instance for easy access
//
// Basic Usage:
//
//	import "reeldl/pkg/logger"
//
//	// Initialize the global logger
//	cfg := &config.LoggingConfig{
//	    Level: "info",
//	}
//	err := logger.Initialize(cfg)
//
//	// Use the global logger
//	logger.Info("Application started")
//	logger.WithField("username", "natgeo").Info("Fetching profile")
//	logger.WithError(err).Error("Failed to download reel")
//
// Logs go to stderr so that progress output on stdout stays clean.
package logger
