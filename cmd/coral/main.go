package main

import (
	"os"

	"github.com/dshills/coral/internal/cli"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()
	os.Exit(cli.Run())
}
