package main

import (
	"github.com/adanyl0v/tasks-api/internal/app"
	"github.com/adanyl0v/tasks-api/internal/config"
)

func main() {
	app.InitDefaultLogger()
	app.MustReadConfig()
	app.MustInitApplicationLogger()

	if config.Global().Migrations.OnStartup {
		app.MustMigratePostgres(app.MigrateUp)
	}

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.MustListenAndServeHTTP()
}
