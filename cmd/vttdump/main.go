// Command vttdump prints the plain-text projection of a VTT caption file.
// Reads from the file given as the first argument, or stdin when absent.
package main

import (
	"fmt"
	"io"
	"os"

	"ytsummary.app/backend/internal/vtt"
)

func main() {
	var (
		raw []byte
		err error
	)
	if len(os.Args) > 1 {
		raw, err = os.ReadFile(os.Args[1])
	} else {
		raw, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "vttdump: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(vtt.PlainText(string(raw)))
}
