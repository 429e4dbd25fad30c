package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"jramos/stmt2sheet/cmd/batch"
	"jramos/stmt2sheet/cmd/convert"
	"jramos/stmt2sheet/cmd/root"
	"jramos/stmt2sheet/cmd/w2"
)

func init() {
	// Load environment variables silently before any logging is configured.
	loadEnvSilently()

	root.Init()

	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(w2.Cmd)
}

// loadEnvSilently loads a .env file without logging anything
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}

	_ = godotenv.Load(envFile)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
