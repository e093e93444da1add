// fake-editor stands in for the real editor when hacking on lspdev
// itself. It re-executes itself as a fake language server child, prints
// both PIDs, and idles until killed, so `lspdev run` has real processes
// to discover and terminate. Point the config at it with:
//
//	editor: fake-editor
//	editor_args: []
//	server_pattern: fake-editor -server
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"time"
)

func main() {
	server := flag.Bool("server", false, "Run as the fake language server child")
	lifetime := flag.Duration("lifetime", 5*time.Minute, "How long to idle before exiting on its own")
	flag.Parse()

	if *server {
		if os.Getenv("DEBUG_GDB") == "ON" {
			fmt.Fprintln(os.Stderr, "fake server would now busy-wait for a debugger")
		}
		fmt.Fprintln(os.Stderr, "fake server up, pid", os.Getpid())
		time.Sleep(*lifetime)
		return
	}

	self, err := os.Executable()
	if err != nil {
		fmt.Fprintln(os.Stderr, "cannot resolve own binary:", err)
		os.Exit(1)
	}

	child := exec.Command(self, "-server", "-lifetime", lifetime.String())
	child.Stderr = os.Stderr
	if err := child.Start(); err != nil {
		fmt.Fprintln(os.Stderr, "cannot start fake server:", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "fake editor up, pid", os.Getpid(), "target", flag.Arg(0))

	child.Wait()
}
