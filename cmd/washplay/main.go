package main

import (
	"fmt"
	"os"

	"github.com/hitoshi/washplay/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	// .envがあれば読み込む。本番は環境変数で注入するため、なくてもエラーにしない。
	_ = godotenv.Load()

	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
