package main

import (
	"os"
)

func main() {
	a := &app{}
	err := newRootCmd(a).Execute()
	_ = a.close()
	if err != nil {
		os.Exit(1)
	}
}
