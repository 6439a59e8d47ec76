// Package main imports ingredient fixtures into the database.
package main

import (
	"context"
	"flag"
	"os"

	ingredientscmd "github.com/foodgram-app/foodgram/internal/cmd/ingredientsimport"
	"github.com/foodgram-app/foodgram/internal/platform/config"
)

func main() {
	cfg, err := ingredientscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := ingredientscmd.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
