// main.go

package main

import "dishtalgia-backend/internal/cmd"

func main() {
	cmd.Execute()
}
