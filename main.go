package main

import "github.com/Sena-ops/sinkguard/cmd"

func main() {
	cmd.Execute()
}
