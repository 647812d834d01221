package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sociials/logs/frontend/internal/apiclient"
	"github.com/sociials/logs/frontend/internal/markdown"
	"github.com/sociials/logs/frontend/internal/tui"
	"github.com/sociials/logs/shared/config"
	"github.com/sociials/logs/shared/domain"
	"github.com/sociials/logs/shared/logger"
)

func main() {
	var configFolder, tab, logFile, backendURL string
	flag.StringVar(&configFolder, "config_folder", "config", "path to folder with configs")
	flag.StringVar(&tab, "tab", "announcements", "feed to open: announcements or status")
	flag.StringVar(&logFile, "log_file", "", "write logs to this file (default: discard)")
	flag.StringVar(&backendURL, "backend_url", "", "override frontend.backend_url")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	frontendCfg := cfg.Public.Frontend
	if backendURL != "" {
		frontendCfg.BackendURL = backendURL
	}

	// the screen belongs to the program, so logs go elsewhere
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "can't open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger.InitializeWriter(logOut, cfg.Public.Log.Level, cfg.Public.Log.JSON)

	err := tui.Run(tui.Options{
		Client:   apiclient.New(frontendCfg.BackendURL, frontendCfg.RequestTimeout),
		Text:     markdown.New(frontendCfg.TimestampLayout, frontendCfg.Location()),
		Tab:      domain.ParseChannelType(tab),
		Interval: frontendCfg.RefreshInterval,
		Timeout:  frontendCfg.RequestTimeout,
		Location: frontendCfg.Location(),
	})
	if err != nil {
		logger.Log.Error("terminal client failed", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
