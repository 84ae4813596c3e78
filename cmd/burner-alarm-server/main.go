package main

import "github.com/oshokin/burner-alarm/cmd/burner-alarm-server/cmd"

func main() {
	cmd.Execute()
}
