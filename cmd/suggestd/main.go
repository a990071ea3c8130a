// Command suggestd serves line completions generated by a Claude model. The
// API key is read from ANTHROPIC_API_KEY.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/hashicorp/go-multierror"
	"github.com/petermattis/ghostline/suggest"
)

func main() {
	addr := flag.String("addr", "127.0.0.1:5000", "listen `address`")
	model := flag.String("model", "", "Claude model to generate with (default: the generator's default)")
	count := flag.Int("n", suggest.DefaultCount, "number of suggestions per request")
	cachePath := flag.String("cache", "", "SQLite `file` caching generated suggestions (disabled if empty)")
	cacheTTL := flag.Duration("cache-ttl", 24*time.Hour, "age after which cached suggestions are regenerated")
	flag.Parse()

	client := anthropic.NewClient()
	gen := suggest.NewAnthropicGenerator(&client)
	if *model != "" {
		gen.SetModel(*model)
	}

	logger := log.New(os.Stderr, "[suggestd] ", log.LstdFlags)
	var generator suggest.Generator = gen
	var cache *suggest.Cache
	if *cachePath != "" {
		var err error
		cache, err = suggest.OpenCache(*cachePath, *cacheTTL)
		if err != nil {
			log.Fatal(err)
		}
		generator = suggest.NewCachingGenerator(gen, cache, suggest.WithCacheLogger(logger))
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           suggest.NewServer(generator, suggest.WithCount(*count), suggest.WithLogger(logger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", *addr)
		serveErr <- srv.ListenAndServe()
	}()

	var result error
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			result = multierror.Append(result, err)
		}
	case <-ctx.Done():
		log.Printf("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			result = multierror.Append(result, err)
		}
		cancel()
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if result != nil {
		log.Fatal(result)
	}
}
