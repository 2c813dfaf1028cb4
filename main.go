package main

import "country-catalog/cmd"

func main() {
	cmd.Execute()
}
