package main

import "github.com/insightdelivered/mca-underwriting-engine/internal/cli"

func main() {
	cli.Execute()
}
