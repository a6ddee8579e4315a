package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/DawnFalls/getSuitedV1/internal/api"
	"github.com/DawnFalls/getSuitedV1/internal/config"
	"github.com/DawnFalls/getSuitedV1/internal/evaluations"
	"github.com/DawnFalls/getSuitedV1/internal/models"
	"github.com/DawnFalls/getSuitedV1/internal/profile"
	"github.com/DawnFalls/getSuitedV1/internal/session"
	"github.com/DawnFalls/getSuitedV1/internal/ui"
	"github.com/DawnFalls/getSuitedV1/pkg/logger"
	"github.com/DawnFalls/getSuitedV1/pkg/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Client.LogLevel)
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)

	store, logDir, err := buildStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open session store: %v\n", err)
		os.Exit(1)
	}

	// keep log lines off the rendered screen
	if logDir != "" {
		if f, err := os.OpenFile(filepath.Join(logDir, "getsuited.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600); err == nil {
			defer f.Close()
			logger.SetOutput(f)
		}
	}

	sessions := session.NewManager(store)
	client := api.NewClient(cfg.Client.APIBaseURL, cfg.Client.RequestTimeout, func() string {
		_, token, _ := sessions.Current()
		return token
	})
	ctrl := profile.NewController(client, sessions)
	loader := evaluations.NewLoader(client)

	p := tea.NewProgram(ui.NewModel(sessions, ctrl, loader, client), tea.WithAltScreen())

	// every session write re-renders both surfaces with the new identity
	sessions.Subscribe(func(u *models.User) {
		p.Send(ui.IdentityChangedMsg{User: u})
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// buildStore picks the session backend: Redis when configured, local disk
// otherwise. Returns the directory usable for log files when on disk.
func buildStore(cfg *config.Config) (session.Store, string, error) {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return session.NewRedisStore(client, cfg.Redis.Namespace), os.TempDir(), nil
	}
	fs, err := session.NewFileStore(cfg.Client.StateDir)
	if err != nil {
		return nil, "", err
	}
	return fs, fs.Dir(), nil
}
