package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/mazesense/internal/config"
	"github.com/zeusync/mazesense/internal/core/invariant"
	"github.com/zeusync/mazesense/internal/core/maze"
	"github.com/zeusync/mazesense/internal/core/mouse"
	"github.com/zeusync/mazesense/internal/core/observability/log"
	"github.com/zeusync/mazesense/internal/telemetry"
)

// ConfigPath is the location of the run configuration file.
type ConfigPath string

// App is everything a simulation run needs.
type App struct {
	Config *config.Config
	Logger *log.Logger
	Maze   *maze.Maze
	Mouse  *mouse.Mouse
	Hub    *telemetry.Hub
}

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	ProvideMaze,
	ProvideMouse,
	ProvideHub,
	wire.Struct(new(App), "*"),
)

func ProvideConfig(path ConfigPath) (*config.Config, error) {
	return config.LoadFile(string(path))
}

// ProvideLogger builds the process logger and routes invariant reports to it.
func ProvideLogger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(log.Options{
		Level:    log.ParseLevel(cfg.Log.Level),
		Encoding: cfg.Log.Encoding,
	})
	invariant.SetLogger(logger)
	return logger
}

func ProvideMaze(cfg *config.Config, logger *log.Logger) (*maze.Maze, error) {
	m, err := cfg.LoadMaze()
	if err != nil {
		return nil, err
	}
	logger.Info("maze loaded",
		log.Int("width", m.Width()),
		log.Int("height", m.Height()),
		log.Int("walls", m.WallCount()),
	)
	return m, nil
}

func ProvideMouse(cfg *config.Config, m *maze.Maze, logger *log.Logger) (*mouse.Mouse, error) {
	return mouse.New(cfg.MouseConfig(), cfg.WallGeometry(), m, logger)
}

func ProvideHub(logger *log.Logger) *telemetry.Hub {
	return telemetry.NewHub(logger)
}
