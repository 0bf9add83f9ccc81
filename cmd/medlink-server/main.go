package main

import (
	"flag"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/medlink/medlink-tui/server"
)

func main() {
	addr := flag.String("addr", ":8000", "Listen address")
	dsn := flag.String("db", "medlink.db", "SQLite database path (\":memory:\" for ephemeral)")
	flag.Parse()

	store, err := server.NewStore(*dsn)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer store.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	srv := server.New(store, server.NewTranslatorFromEnv())
	srv.Register(e)

	if err := e.Start(*addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
