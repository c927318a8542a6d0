package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"github.com/tombowditch/pastebin/internal/config"
	"github.com/tombowditch/pastebin/internal/logging"
	"github.com/tombowditch/pastebin/pastebin"
)

func main() {
	var (
		file       = flag.String("f", "", "paste file (default stdin)")
		name       = flag.String("name", "", "paste title")
		visibility = flag.String("visibility", "", "public|unlisted (or 0|1)")
		expire     = flag.String("expire", "", "N|10M|1H|1D|1W|2W|1M|6M|1Y")
		format     = flag.String("format", "", "syntax highlighting, e.g. go")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("could not load config")
	}
	logging.Init(cfg.LogLevel, cfg.LogDev)
	if err := cfg.ValidateClient(); err != nil {
		logging.Fatal().Err(err).Msg("invalid config")
	}

	opts, err := pasteOptions(*name, *visibility, *expire, *format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	content, err := readContent(*file, os.Stdin)
	if err != nil {
		logging.Fatal().Err(err).Msg("could not read paste content")
	}

	client := pastebin.New(
		pastebin.WithAPIURL(cfg.APIURL),
		pastebin.WithBaseURL(cfg.BaseURL),
		pastebin.WithErrorPrefix(cfg.ErrorPrefix),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	url, err := client.Upload(ctx, cfg.APIKey.Value(), content, opts...)
	if err != nil {
		logging.Error().Err(err).Stringer("code", pastebin.CodeOf(err)).Msg("paste failed")
		stop()
		os.Exit(1)
	}
	fmt.Println(url)
}

// pasteOptions turns flag values into paste options. Empty flags are
// left unset; unparseable visibility or expiration values are errors.
func pasteOptions(name, visibility, expire, format string) ([]pastebin.PasteOption, error) {
	var opts []pastebin.PasteOption
	if name != "" {
		opts = append(opts, pastebin.WithName(name))
	}
	if visibility != "" {
		v, ok := pastebin.ParseVisibility(visibility)
		if !ok {
			return nil, errors.Errorf("unknown visibility %q", visibility)
		}
		opts = append(opts, pastebin.WithVisibility(v))
	}
	if expire != "" {
		e, ok := pastebin.ParseExpiration(expire)
		if !ok {
			return nil, errors.Errorf("unknown expiration %q", expire)
		}
		opts = append(opts, pastebin.WithExpiration(e))
	}
	if format != "" {
		opts = append(opts, pastebin.WithFormat(format))
	}
	return opts, nil
}

func readContent(path string, stdin io.Reader) (string, error) {
	if path == "" {
		b, err := io.ReadAll(stdin)
		return string(b), errors.Wrap(err, "reading stdin")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(b), nil
}
