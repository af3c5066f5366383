package main

import "github.com/josephlewis42/tiks/cmd"

func main() {
	cmd.Execute()
}
