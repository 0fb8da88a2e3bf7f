package main

import (
	"flag"

	"github.com/adanyl0v/tasks-api/internal/app"
)

func main() {
	direction := flag.String("direction", app.MigrateUp, "up, down (one step) or version")
	flag.Parse()

	app.InitDefaultLogger()
	app.MustReadConfig()
	app.MustInitApplicationLogger()

	app.MustMigratePostgres(*direction)
}
