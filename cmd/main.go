package main

import (
	"fmt"
	"log"
	"os"

	"sitetrack/backend/foundation/web"
	"sitetrack/backend/internal/auth"
	"sitetrack/backend/internal/commands"
	"sitetrack/backend/internal/pkg/config"
	"sitetrack/backend/internal/pkg/repository/postgresql"
	"sitetrack/backend/internal/router"

	"github.com/ardanlabs/conf"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type appConfig struct {
	conf.Version
	Args     conf.Args
	Web      struct {
		Port     string `conf:"default::8080"`
		MediaDir string `conf:"default:./media"`
	}
	Origins []string `conf:"default:http://localhost:3000"`
}

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Println("error:", err)
		}
		os.Exit(1)
	}
}

func run() error {
	var app appConfig
	app.Version.SVN = "1.0"
	app.Version.Desc = "geofenced field attendance service"

	if err := conf.Parse(os.Args[1:], "SITETRACK", &app); err != nil {
		switch {
		case errors.Is(err, conf.ErrHelpWanted):
			usage, err := conf.Usage("SITETRACK", &app)
			if err != nil {
				return errors.Wrap(err, "generating config usage")
			}
			fmt.Println(usage)
			return commands.ErrHelp
		case errors.Is(err, conf.ErrVersionWanted):
			version, err := conf.VersionString("SITETRACK", &app)
			if err != nil {
				return errors.Wrap(err, "generating config version")
			}
			fmt.Println(version)
			return commands.ErrHelp
		}
		return errors.Wrap(err, "parsing config")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return errors.Wrap(err, "loading config.yaml")
	}

	postgresDB := postgresql.NewDatabase(
		cfg.DBUsername,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DisableTLS,
	)
	defer postgresDB.Close()

	switch app.Args.Num(0) {
	case "migrate":
		commands.MigrateUP(postgresDB)
		return nil
	}

	redisDB := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	defer redisDB.Close()

	r := router.NewRouter(
		web.NewApp(),
		postgresDB,
		redisDB,
		app.Web.Port,
		auth.NewAuth(cfg.JWTKey),
		cfg.Policy,
		app.Web.MediaDir,
		app.Origins,
	)

	return r.Init()
}
