// file:arbor/main.go
package main

import "github.com/rskv-p/arbor/cmd"

func main() {
	cmd.Execute()
}
