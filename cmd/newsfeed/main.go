package main

import "os"

func main() {
	err := rootCmd.Execute()
	teardown()
	if err != nil {
		os.Exit(1)
	}
}
