package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"webspider/internal/storage"
	"webspider/internal/websearch"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address for the search page")
	flag.Parse()

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	store, err := storage.Open(context.Background(), dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	srv := websearch.NewServer(store)
	log.Println("search service listening on", *addr)
	log.Fatal(srv.Start(*addr))
}
