package main

import "github.com/ckbaskerville/proper-job-sub000/cmd/properjob/commands"

func main() {
	commands.Execute()
}
