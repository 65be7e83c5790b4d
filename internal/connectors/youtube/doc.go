// Package youtube implements the source catalog and audio fetcher on top
// of the yt-dlp command-line tool. All network access goes through the
// tool; this package shells out, parses its JSON output and watches its
// exit codes. Rate limiting is the caller's responsibility.
package youtube
