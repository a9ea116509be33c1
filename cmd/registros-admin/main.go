package main

import (
	"fmt"
	"os"

	"github.com/panaderia/registros/backend/internal/app"
	"github.com/panaderia/registros/backend/internal/backup"
	"github.com/panaderia/registros/backend/internal/config"
	"github.com/panaderia/registros/backend/internal/registro/repository"
	"github.com/panaderia/registros/backend/internal/storage"
	"github.com/panaderia/registros/backend/pkg/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := cli.App{
		Name:  "registros-admin",
		Usage: "maintenance tasks for the registros store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				EnvVars: []string{"LOG_LEVEL"},
				Value:   "info",
			},
		},
		Before: func(cmd *cli.Context) error {
			logger.Init(cmd.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "count",
				Usage:  "print how many registros are stored",
				Action: runCount,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "desde", Usage: "first fecha included (YYYY-MM-DD)"},
					&cli.StringFlag{Name: "hasta", Usage: "last fecha included (YYYY-MM-DD)"},
				},
			},
			{
				Name:   "backup",
				Usage:  "upload a JSON snapshot of every registro to MinIO",
				Action: runBackup,
			},
			{
				Name:   "restore",
				Usage:  "recreate registros from a MinIO snapshot",
				Action: runRestore,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Usage: "snapshot key; defaults to the newest one"},
					&cli.BoolFlag{Name: "drop", Usage: "delete existing registros first"},
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func openStore(cmd *cli.Context) (*config.Config, *app.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := app.OpenStore(cmd.Context, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func openBackup(cmd *cli.Context) (*backup.Service, func(), error) {
	cfg, st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	objects, err := storage.NewMinIOStorage(cmd.Context, cfg.MinIO)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return backup.NewService(st.Repo, objects), st.Close, nil
}

var runCount = func(cmd *cli.Context) error {
	_, st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	n, err := st.Repo.Count(cmd.Context, repository.ListOptions{
		Desde: cmd.String("desde"),
		Hasta: cmd.String("hasta"),
	})
	if err != nil {
		return err
	}
	fmt.Println(n)
	return nil
}

var runBackup = func(cmd *cli.Context) error {
	svc, closeStore, err := openBackup(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	key, n, err := svc.Backup(cmd.Context)
	if err != nil {
		return err
	}
	logger.Infof("backed up %d registros to %s", n, key)
	return nil
}

var runRestore = func(cmd *cli.Context) error {
	svc, closeStore, err := openBackup(cmd)
	if err != nil {
		return err
	}
	defer closeStore()

	key := cmd.String("key")
	if key == "" {
		if key, err = svc.Latest(cmd.Context); err != nil {
			return err
		}
		if key == "" {
			return fmt.Errorf("no snapshots under %s", backup.KeyPrefix)
		}
	}
	n, err := svc.Restore(cmd.Context, key, cmd.Bool("drop"))
	if err != nil {
		return err
	}
	logger.Infof("restored %d registros from %s", n, key)
	return nil
}
