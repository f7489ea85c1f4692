package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/job-connect/listings/internal/config"
	"github.com/job-connect/listings/internal/database"
	"github.com/job-connect/listings/internal/debounce"
	"github.com/job-connect/listings/internal/listing"
	"github.com/job-connect/listings/internal/search"
	"github.com/job-connect/listings/internal/supabase"
	"github.com/rs/zerolog"
)

const usage = `commands:
  q <text>              set the search query
  set <filter> <value>  set a filter, an empty value clears it
  tab jobs|internships  switch tab and reset the filters
  show                  print the visible listings
  local                 print the listings matched in memory
  flush                 run the pending search now
  quit`

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("unable to load config")
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var src listing.Source
	if cfg.DataSource == config.DataSourceSupabase {
		src = supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, log)
	} else {
		conn, err := database.GetDbConn(cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName, cfg.DatabaseSSLMode)
		if err != nil {
			log.Fatal().Err(err).Msg("unable to connect to postgres")
		}
		defer database.CloseDbConn(conn)
		src = listing.NewRepository(conn, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	session := search.NewSession(search.NewFetcher(src), debounce.New(cfg.SearchDebounce, debounce.RealClock{}), log)
	session.OnChange(func() { show(os.Stdout, session) })
	session.Load(ctx)
	fmt.Println(usage)
	show(os.Stdout, session)
	run(ctx, os.Stdin, os.Stdout, session)
}

// run reads commands from in until quit, EOF or ctx is done.
func run(ctx context.Context, in io.Reader, out io.Writer, s *search.Session) {
	scanner := bufio.NewScanner(in)
	for ctx.Err() == nil && scanner.Scan() {
		cmd, arg := split(scanner.Text())
		switch cmd {
		case "":
		case "q":
			s.SetQuery(ctx, arg)
		case "set":
			name, value := split(arg)
			if err := s.SetFilter(ctx, name, value); err != nil {
				fmt.Fprintln(out, err)
			}
		case "tab":
			kind, ok := listing.ParseKind(arg)
			if !ok {
				fmt.Fprintf(out, "unknown tab %q\n", arg)
				continue
			}
			s.SwitchTab(kind)
			show(out, s)
		case "show":
			show(out, s)
		case "local":
			printListings(out, s.Tab(), s.LocalVisible())
		case "flush":
			s.Flush()
		case "quit", "exit":
			return
		default:
			fmt.Fprintln(out, usage)
		}
	}
}

func split(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func show(out io.Writer, s *search.Session) {
	if msg := s.Err(); msg != "" {
		fmt.Fprintf(out, "error: %s\n", msg)
	}
	printListings(out, s.Tab(), s.Visible())
}

func printListings(out io.Writer, tab listing.Kind, items []listing.Listing) {
	fmt.Fprintf(out, "%d %s\n", len(items), tab.Plural())
	for _, l := range items {
		line := fmt.Sprintf("  %s", l.Title)
		if name := l.CompanyName(); name != "" {
			line += " @ " + name
		}
		if city := l.City(); city != "" {
			line += " (" + city + ")"
		}
		if pay := l.Compensation.String(); pay != "" {
			line += " " + pay
		}
		fmt.Fprintln(out, line)
	}
}
