package main

import "github.com/oshokin/burner-alarm/cmd/burner-alarm-replay/cmd"

func main() {
	cmd.Execute()
}
