package main

import (
	"fmt"
	"os"

	"fabstore/app"
	"fabstore/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := app.New(cfg).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "fabstore stopped: %v\n", err)
		os.Exit(1)
	}
}
