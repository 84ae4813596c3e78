package main

import "github.com/oshokin/burner-alarm/cmd/burner-alarm-ctl/cmd"

func main() {
	cmd.Execute()
}
