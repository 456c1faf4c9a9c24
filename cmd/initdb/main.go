// Command initdb drops and recreates the schema. Existing data is lost.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rmehta/blogr/internal/config"
	"github.com/rmehta/blogr/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "initdb:", err)
		os.Exit(1)
	}
	fmt.Println("Initialized the database.")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()

	st, err := store.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer st.Close()

	return st.Reset(ctx)
}
