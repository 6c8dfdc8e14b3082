package main

import "orthanc-health/internal/cli"

func main() {
	cli.Execute()
}
