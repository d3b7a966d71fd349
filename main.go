package main

import (
	"fmt"
	"os"

	"github.com/autostream-assistant/server/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(".env").Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
