package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kaman1990/field-service-sub001/internal/client/attachments"
	"github.com/kaman1990/field-service-sub001/internal/client/client"
	"github.com/kaman1990/field-service-sub001/internal/client/config"
	"github.com/kaman1990/field-service-sub001/internal/client/repositories/inventory"
	"github.com/kaman1990/field-service-sub001/internal/client/services"
	"github.com/kaman1990/field-service-sub001/internal/client/store"
	"github.com/kaman1990/field-service-sub001/internal/logging"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

// uploadEngine is the slice of the attachment queue the app drives directly:
// the background worker loop and the wake-up used on reconnect.
type uploadEngine interface {
	RunWorker(ctx context.Context)
	Nudge()
}

type App struct {
	config       *config.Config
	authService  services.AuthService
	syncService  services.SyncService
	imageService services.ImageService
	status       *services.StatusReporter
	inventory    inventory.Repository
	engine       uploadEngine
	userName     string
	Mode         Mode
	reader       *bufio.Reader
}

func NewApp(c *config.Config, logger logging.Logger) (*App, error) {

	ctx := context.Background()

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	apiClient := client.NewHTTPClient(c.ServerEndpointAddr)
	notifier := store.NewNotifier()

	queue := attachments.NewQueue(repos.DB, apiClient, notifier, logger, attachments.Config{
		DataDir:      c.DataDir,
		PollInterval: c.UploadPollInterval,
		ArchiveAfter: c.ArchiveAfter,
	})

	return &App{
		config:       c,
		authService:  services.NewAuthService(apiClient, repos.DB),
		syncService:  services.NewSyncService(apiClient, repos.DB, queue, notifier, logger),
		imageService: services.NewImageService(queue, repos.Images, logger, c.EnqueueDelay),
		status:       services.NewStatusReporter(queue, notifier, logger, c.StatusRefreshInterval),
		inventory:    repos.Inventory,
		engine:       queue,
		reader:       bufio.NewReader(os.Stdin),
	}, nil
}

// setMode records a connectivity transition. Going online wakes the upload
// worker so queued records do not wait for the next poll tick.
func (a *App) setMode(mode Mode) {
	if a.Mode == mode {
		return
	}
	a.Mode = mode
	log.Printf("Switched to %s mode\n", mode)
	if mode == ModeOnline && a.engine != nil {
		a.engine.Nudge()
	}
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run starts the background engines and the REPL, blocking until the user
// exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.authService.Close(ctx)

	go a.engine.RunWorker(ctx)
	go a.status.Run(ctx)

	printlnFn("Field inventory CLI (type 'help' for commands)")

	a.Login(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// StartOnlineStatusWatcher pings the server on the given interval and flips
// the app between online and offline accordingly. A disabled app (both login
// paths failed) is left alone until the user logs in again.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if a.Mode == ModeDisabled {
				continue
			}

			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				if a.Mode == ModeOnline {
					a.setMode(ModeOffline)
				}
			} else {
				if a.Mode != ModeOnline {
					a.setMode(ModeOnline)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
