package main

import (
	"os"

	"github.com/GoAbsensi/GoAbsensi/app"
)

func main() {
	if err := app.Execute(); err != nil {
		os.Exit(1)
	}
}
