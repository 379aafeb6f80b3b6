package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/ngmaloney/tokyo-weekend/internal/api"
	"github.com/ngmaloney/tokyo-weekend/internal/config"
	"github.com/ngmaloney/tokyo-weekend/internal/credentials"
	"github.com/ngmaloney/tokyo-weekend/internal/database"
	"github.com/ngmaloney/tokyo-weekend/internal/export"
	"github.com/ngmaloney/tokyo-weekend/internal/logging"
	"github.com/ngmaloney/tokyo-weekend/internal/models"
	"github.com/ngmaloney/tokyo-weekend/internal/ui"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the YAML config file (optional)")
	exportPath := flag.String("export-ics", "", "Write the logged-in user's schedule to this .ics file and exit (- for stdout)")
	remind := flag.Duration("remind", 0, "With -export-ics, add a reminder this long before each event (e.g. 1h)")
	logout := flag.Bool("logout", false, "Forget the stored credential and exit")
	flag.Parse()

	if err := run(*configPath, *exportPath, *remind, *logout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, exportPath string, remind time.Duration, logout bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	models.SetWireLocation(loc)

	// The TUI owns the terminal, so it only logs to a file
	interactive := exportPath == "" && !logout
	var logOut io.Writer = os.Stderr
	if interactive {
		f, err := logging.OpenFile(cfg.Log.File)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: logOut,
	})

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	client := api.NewClient(
		api.WithBaseURL(cfg.APIURL),
		api.WithTimeout(cfg.Timeout),
		api.WithStore(credentials.NewSQLiteStore(db)),
		api.WithLogger(logger),
	)
	dropExpiredSession(client, logger)

	switch {
	case logout:
		client.Logout()
		logger.Info().Msg("stored credential removed")
		return nil
	case exportPath != "":
		return exportSchedule(client, exportPath, remind, logger)
	}

	p := tea.NewProgram(ui.NewModel(client, cfg.Origin), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}

// dropExpiredSession forgets a stored JWT whose exp has passed. Opaque tokens
// are kept and left for the server to judge.
func dropExpiredSession(client *api.Client, logger zerolog.Logger) {
	s, ok := client.Session()
	if !ok {
		return
	}
	if s.Expired(time.Now()) {
		logger.Info().Time("expired_at", s.ExpiresAt).Msg("stored session expired, logging out")
		client.Logout()
		return
	}
	logger.Debug().Str("subject", s.Subject).Time("expires_at", s.ExpiresAt).Msg("stored session")
}

func exportSchedule(client *api.Client, path string, remind time.Duration, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	events, err := client.FetchSchedule(ctx)
	if err != nil {
		return fmt.Errorf("fetching schedule: %w", err)
	}

	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		defer f.Close()
		w = f
	}

	if err := export.WriteSchedule(w, events, export.Options{Alarm: remind}); err != nil {
		return err
	}
	logger.Info().Int("events", len(events)).Str("path", path).Msg("schedule exported")
	return nil
}
