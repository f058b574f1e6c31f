package bootstrap

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	journalinadapter "journal/internal/modules/journal/adapter/in"
	journaloutadapter "journal/internal/modules/journal/adapter/out"
	journalservice "journal/internal/modules/journal/service"
	journalusecase "journal/internal/modules/journal/usecase"
	scheduleinadapter "journal/internal/modules/schedule/adapter/in"
	scheduledomain "journal/internal/modules/schedule/domain"
	scheduleusecase "journal/internal/modules/schedule/usecase"
	"journal/internal/platform/clock"
	"journal/internal/platform/config"
	"journal/internal/platform/id"
	"journal/internal/platform/logging"
	"journal/internal/platform/tx"
	uiapp "journal/internal/ui/app"
	"journal/internal/web"
)

type App struct {
	Config      config.Config
	Logger      *zap.Logger
	JournalCLI  journalinadapter.CLIHandler
	ScheduleCLI scheduleinadapter.CLIHandler

	index *journaloutadapter.SQLiteIndex
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)
	clk := clock.SystemClock{}
	ids := id.TimeOrdered{}

	index, err := journaloutadapter.NewSQLiteIndex(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("new search index: %w", err)
	}
	journalSvc := journalservice.NewJournalService(journalservice.Deps{
		Clock:     clk,
		IDs:       ids,
		Notes:     journaloutadapter.NewJSONNoteStore(cfg.NotesPath, clk),
		Resources: journaloutadapter.NewJSONResourceStore(cfg.ResourcesPath, clk),
		Index:     index,
		Exporter:  journaloutadapter.NewMarkdownExporter(),
		Watcher:   journaloutadapter.NewFSWatcher(logger, cfg.NotesPath, cfg.ResourcesPath),
		Tx:        tx.NewFileLock(cfg.LockPath),
		Logger:    logger.Named("journal"),
	})

	schedule, err := scheduledomain.Default()
	if err != nil {
		_ = index.Close()
		return nil, err
	}

	return &App{
		Config:      cfg,
		Logger:      logger,
		JournalCLI:  journalinadapter.NewCLIHandler(journalusecase.NewInteractor(journalSvc)),
		ScheduleCLI: scheduleinadapter.NewCLIHandler(scheduleusecase.NewInteractor(clk, schedule)),
		index:       index,
	}, nil
}

func (a *App) Close() error {
	_ = a.Logger.Sync()
	return a.index.Close()
}

func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	model := uiapp.NewModel(ctx, app.JournalCLI, app.ScheduleCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func Serve(ctx context.Context, app *App, addr string) error {
	srv, err := web.NewServer(app.JournalCLI, app.ScheduleCLI, app.Logger.Named("web"), web.Options{
		CORSOrigins: app.Config.CORSOrigins,
	})
	if err != nil {
		return err
	}
	if addr == "" {
		addr = app.Config.ListenAddr
	}
	return srv.ListenAndServe(ctx, addr)
}
