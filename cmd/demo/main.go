// Command demo reads documents from the terminal with inline suggestions from
// a suggestion service, printing each finished document.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/petermattis/ghostline"
	"github.com/petermattis/ghostline/suggest"
)

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// watchBindings reloads the bindings file into t whenever it changes. The
// directory is watched rather than the file because editors commonly replace
// a file instead of writing it in place.
func watchBindings(path string, t *ghostline.Terminal) (func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != filepath.Clean(path) ||
					!ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				data, err := os.ReadFile(path)
				if err != nil {
					log.Printf("[bindings] %v", err)
					continue
				}
				if err := t.Rebind(string(data)); err != nil {
					log.Printf("[bindings] %s: %v", path, err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("[bindings] watch error: %v", err)
			}
		}
	}()
	return func() { _ = w.Close() }, nil
}

func main() {
	url := flag.String("url", envOr("GHOSTLINE_URL", "http://127.0.0.1:5000"), "suggestion service `URL`")
	bindings := flag.String("bindings", "", "`file` of key bindings, reloaded when it changes")
	timeout := flag.Duration("timeout", 5*time.Second, "suggestion request timeout")
	flag.Parse()

	client := suggest.NewClient(*url)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	if placeholder, err := client.FirstPrompt(ctx); err != nil {
		log.Printf("suggestion service unavailable: %v", err)
	} else {
		fmt.Println(placeholder)
	}
	cancel()

	opts := []ghostline.Option{
		ghostline.WithSuggester(client),
		ghostline.WithRequestTimeout(*timeout),
	}
	if *bindings != "" {
		data, err := os.ReadFile(*bindings)
		if err != nil {
			log.Fatal(err)
		}
		opts = append(opts, ghostline.WithBindings(string(data)))
	}

	t, err := ghostline.NewTerminal(opts...)
	if err != nil {
		log.Fatal(err)
	}
	defer t.Close()

	if *bindings != "" {
		stop, err := watchBindings(*bindings, t)
		if err != nil {
			log.Fatal(err)
		}
		defer stop()
	}

	for {
		text, err := t.ReadDocument("> ")
		switch {
		case errors.Is(err, ghostline.ErrCanceled):
			continue
		case errors.Is(err, io.EOF):
			return
		case err != nil:
			log.Fatal(err)
		}
		fmt.Printf("%q\n", text)
	}
}
