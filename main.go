package main

import "github.com/jerer/cythonwrapper/cmd"

func main() {
	cmd.Execute()
}
