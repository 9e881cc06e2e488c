package providers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"tad/internal/structures"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypeRun
)

var logFileNames = map[TypeEnum]string{
	TypeApp:  "app.log",
	TypeGet:  "http.log",
	TypePost: "http.log",
	TypeRun:  "run.log",
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == http.MethodPost {
		return TypePost
	}
	return TypeGet
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

type LogProvider struct {
	files   map[string]*os.File
	loggers map[TypeEnum]zerolog.Logger
}

func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	lp := &LogProvider{
		files:   make(map[string]*os.File),
		loggers: make(map[TypeEnum]zerolog.Logger),
	}

	for t, name := range logFileNames {
		path := filepath.Join(conf.Logger.Dir, name)
		file, ok := lp.files[path]
		if !ok {
			file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
			if err != nil {
				lp.Close()
				return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
			}
			lp.files[path] = file
		}

		var w zerolog.LevelWriter = zerolog.MultiLevelWriter(file)
		if conf.Debug {
			w = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		lp.loggers[t] = zerolog.New(w).Level(level).With().Timestamp().Logger()
	}

	return lp, nil
}

func (lp *LogProvider) logf(level zerolog.Level, t TypeEnum, format string, args ...interface{}) {
	logger, ok := lp.loggers[t]
	if !ok {
		logger = lp.loggers[TypeApp]
	}
	logger.WithLevel(level).Msgf(format, args...)
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.logf(zerolog.ErrorLevel, t, format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.logf(zerolog.WarnLevel, t, format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.logf(zerolog.InfoLevel, t, format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.logf(zerolog.DebugLevel, t, format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.logf(zerolog.FatalLevel, t, format, args...)
	os.Exit(1)
}

func (lp *LogProvider) Close() {
	for _, f := range lp.files {
		_ = f.Close()
	}
}
