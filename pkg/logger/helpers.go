package logger

// LogDownload logs per-reel download outcomes
func LogDownload(username, shortcode, filename string, success bool, err error) {
	fields := map[string]interface{}{
		"username":  username,
		"shortcode": shortcode,
		"filename":  filename,
		"success":   success,
	}

	l := GetLogger().WithFields(fields)

	if err != nil {
		l.WithError(err).Error("Download failed")
	} else if success {
		l.Info("Download completed")
	} else {
		l.Info("Download skipped")
	}
}

// LogRateLimit logs upstream rate limiting events
func LogRateLimit(endpoint string, statusCode int) {
	GetLogger().WithFields(map[string]interface{}{
		"endpoint": endpoint,
		"status":   statusCode,
		"action":   "rate_limited",
	}).Warn("Rate limit reached, backing off")
}
