package main

import "github.com/frahmantamala/mvd-portal/cmd"

func main() {
	cmd.Execute()
}
