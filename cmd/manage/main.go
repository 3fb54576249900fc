package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/cli"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
)

func main() {
	open := func() (*gorm.DB, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		log.Logger = logging.New(logging.Config{Level: cfg.LogLevel, Console: true})
		return database.Open(cfg)
	}

	if err := cli.NewRootCmd(open).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
