// Command termdebug runs a command on a pseudo-terminal and logs the bytes
// passing in each direction, with the input decoded into the keys ghostline
// sees. It is useful for discovering the sequences a terminal sends for a key
// and for inspecting what a render writes.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"github.com/petermattis/ghostline"
	"golang.org/x/term"
)

// tee copies src to dst, logging every chunk read. If decode is set the chunk
// is also decoded into keys.
func tee(dst io.Writer, src io.Reader, logger *log.Logger, name string, decode bool) {
	buf := make([]byte, 4096)
	var partial []byte
	for {
		nr, errR := src.Read(buf)
		if nr > 0 {
			logger.Printf("%s: %q", name, buf[:nr])
			if decode {
				var keys []ghostline.Key
				keys, partial = ghostline.DecodeKeys(append(partial, buf[:nr]...))
				names := make([]string, len(keys))
				for i, k := range keys {
					names[i] = k.String()
				}
				logger.Printf("%s: keys [%s]", name, strings.Join(names, " "))
			}
			nw, errW := dst.Write(buf[:nr])
			if errW != nil {
				logger.Printf("%s: write error: %+v", name, errW)
				return
			}
			if nr != nw {
				logger.Printf("%s: short write (nr=%d, nw=%d)", name, nr, nw)
				return
			}
		}
		if errR != nil {
			if errR != io.EOF {
				logger.Printf("%s: read error: %+v", name, errR)
			}
			return
		}
	}
}

func main() {
	output := flag.String("o", "termdebug.log", "file to log to")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-o <file>] <command> [<args>]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	logger := log.New(f, "", log.Lmicroseconds)

	c := exec.Command(flag.Arg(0), flag.Args()[1:]...)
	ptmx, err := pty.Start(c)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = ptmx.Close() }()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, syscall.SIGWINCH)
	go func() {
		for range winch {
			if err := pty.InheritSize(os.Stdin, ptmx); err != nil {
				logger.Printf("resize: %v", err)
			}
		}
	}()
	winch <- syscall.SIGWINCH
	defer func() { signal.Stop(winch); close(winch) }()

	saved, err := term.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = term.Restore(int(os.Stdin.Fd()), saved) }()

	// The input goroutine blocks until the next keystroke after the command exits.
	go tee(ptmx, os.Stdin, logger, "input", true)
	tee(os.Stdout, ptmx, logger, "output", false)
}
