package youtube

import (
	"fmt"

	"github.com/chanscribe/chanscribe/internal/core/domain"
)

// Browsers yt-dlp can extract cookies from.
var supportedBrowsers = map[string]bool{
	"brave": true, "chrome": true, "chromium": true, "edge": true,
	"firefox": true, "opera": true, "safari": true, "vivaldi": true,
}

// Config holds connector configuration.
type Config struct {
	// Binary is the yt-dlp executable. Defaults to "yt-dlp" on PATH.
	Binary string

	// CookiesFile is a cookies file exported from a browser.
	// Mutually exclusive with BrowserCookies.
	CookiesFile string

	// BrowserCookies names a browser profile to extract cookies from.
	// Mutually exclusive with CookiesFile.
	BrowserCookies string
}

// Validate checks the mutually exclusive auth options.
func (c *Config) Validate() error {
	if c.CookiesFile != "" && c.BrowserCookies != "" {
		return fmt.Errorf("%w: cookies file and browser cookies are mutually exclusive", domain.ErrInvalidInput)
	}
	if c.BrowserCookies != "" && !supportedBrowsers[c.BrowserCookies] {
		return fmt.Errorf("%w: unsupported browser %q", domain.ErrInvalidInput, c.BrowserCookies)
	}
	return nil
}

// binary returns the executable to invoke.
func (c *Config) binary() string {
	if c.Binary != "" {
		return c.Binary
	}
	return "yt-dlp"
}

// cookieArgs returns the auth arguments for a yt-dlp invocation.
func (c *Config) cookieArgs() []string {
	switch {
	case c.CookiesFile != "":
		return []string{"--cookies", c.CookiesFile}
	case c.BrowserCookies != "":
		return []string{"--cookies-from-browser", c.BrowserCookies}
	default:
		return nil
	}
}
