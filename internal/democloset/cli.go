package democloset

import (
	"fmt"
	"io"
	"os"

	"github.com/vrodas/ropero/pkg/logger"
)

// SetupLogging initialises the logger and, when configured, mirrors log
// output to a file. The caller owns the returned file handle.
func SetupLogging(cfg *Config) (*os.File, error) {
	var f *os.File
	if cfg.LogFile != "" {
		var err error
		f, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LogFilePermissions)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, f)); err != nil {
			f.Close()
			return nil, fmt.Errorf("init logger: %w", err)
		}
	} else if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if cfg.Verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return f, fmt.Errorf("set log level: %w", err)
		}
	}
	return f, nil
}

// ShowHelp prints the command usage.
func ShowHelp() {
	fmt.Println(`Ropero Demo Closet Tool

Generates a synthetic closet, submits it to a running ropero instance,
then reads back the versatility ranking and verifies it against a local
recomputation.

Usage:
  demo-closet [flags]

Flags:
  -url string      Base URL of the ropero service (default "http://localhost:9080")
  -garments int    Number of garments to generate (default 50)
  -top int         Ranking size to request (default 10)
  -workers int     Concurrent submission workers (default 4)
  -timeout dur     Overall run timeout (default 5m)
  -output string   File to save the generated garments as JSON (optional)
  -log string      File to append log output to (optional)
  -capsule         Also store a demo capsule and fetch its summary (default true)
  -verbose         Enable debug logging
  -help            Show this help

Examples:
  demo-closet -garments 200 -workers 8
  demo-closet -url http://wardrobe:9080 -top 20 -output closet.json`)
}
