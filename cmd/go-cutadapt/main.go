package main

import (
	"os"

	"github.com/seqwork/go-cutadapt/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:], os.Stdout, os.Stderr))
}
