package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	echoapi "github.com/sisyaclass/analytics-console/apps/console/echo"
	"github.com/sisyaclass/analytics-console/core"
	"github.com/sisyaclass/analytics-console/core/session"
	logsvc "github.com/sisyaclass/analytics-console/services/logger"
	"github.com/sisyaclass/analytics-console/storage/state"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stderr, conf.AppName+" ", log.LstdFlags|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)

	// console snapshots survive restarts when a state dir is configured
	var states echoapi.StateFactory
	if conf.StateDir != "" {
		states = func(sessionID string) session.StateStore {
			store, err := state.NewFileStore(filepath.Join(conf.StateDir, sessionID))
			if err != nil {
				logger.Warn("falling back to in-memory state", err)
				return state.NewMemoryStore()
			}
			return store
		}
	}

	app := echoapi.NewServer(
		&echoapi.Options{
			Address: fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
			Conf:    conf,
			Logger:  logger,
			States:  states,
		},
	)
	app.Start()
}
