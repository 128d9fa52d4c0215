// Command screenbot drives the automation library from the command line:
// list windows, capture screenshots, and search for or click on template
// images inside a chosen window.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"screenbot/internal/bot"
	"screenbot/internal/config"
	"screenbot/internal/cv"
	"screenbot/internal/journal"
	"screenbot/internal/platform"
	"screenbot/pkg/templates"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "list":
		err = runList(args)
	case "screenshot":
		err = runScreenshot(args)
	case "find":
		err = runFind(args)
	case "click":
		err = runClick(args)
	case "history":
		err = runHistory(args)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("screenbot %s: %v", cmd, err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: screenbot <command> [flags]

Commands:
  list        List on-screen windows
  screenshot  Capture a window to a grayscale PNG
  find        Search a window for a template image
  click       Find a template in a window and click its center
  history     Show recent searches from the journal`)
}

func newBot(configPath string) (*bot.Bot, bot.Config, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, bot.Config{}, err
	}

	desktop := platform.NewDesktop()
	b, err := bot.NewBot(cfg, desktop, desktop, desktop)
	if err != nil {
		return nil, bot.Config{}, err
	}

	if cfg.JournalPath != "" {
		j, err := journal.Open(cfg.JournalPath)
		if err != nil {
			return nil, bot.Config{}, err
		}
		if err := j.Migrate(); err != nil {
			return nil, bot.Config{}, err
		}
		b.WithJournal(j)
	}

	if cfg.TemplateDir != "" {
		reg := templates.NewRegistry(cfg.TemplateDir)
		if err := reg.LoadFromDirectory(cfg.TemplateDir); err != nil {
			return nil, bot.Config{}, fmt.Errorf("failed to load template registry: %w", err)
		}
		b.WithRegistry(reg)
	}

	return b, cfg, nil
}

func bindWindow(b *bot.Bot, name, pattern string, id int64) error {
	switch {
	case id != 0:
		return b.BindWindowByID(id)
	case pattern != "":
		return b.BindWindowByRegex(pattern)
	case name != "":
		return b.BindWindowByName(name)
	default:
		return fmt.Errorf("one of -window, -regex, or -id is required")
	}
}

func runList(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", "screenbot.ini", "Config file path")
	fs.Parse(args)

	b, _, err := newBot(*configPath)
	if err != nil {
		return err
	}

	list, err := b.ListWindows()
	if err != nil {
		return err
	}

	fmt.Print(list.Prettify())
	return nil
}

func runScreenshot(args []string) error {
	fs := flag.NewFlagSet("screenshot", flag.ExitOnError)
	configPath := fs.String("config", "screenbot.ini", "Config file path")
	name := fs.String("window", "", "Exact window name")
	pattern := fs.String("regex", "", "Window name pattern")
	id := fs.Int64("id", 0, "Window id")
	out := fs.String("out", "screenshot.png", "Output PNG path")
	fs.Parse(args)

	b, _, err := newBot(*configPath)
	if err != nil {
		return err
	}
	if err := bindWindow(b, *name, *pattern, *id); err != nil {
		return err
	}

	if err := b.Screenshot(*out); err != nil {
		return err
	}

	fmt.Printf("Saved %s\n", *out)
	return nil
}

func runFind(args []string) error {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	configPath := fs.String("config", "screenbot.ini", "Config file path")
	name := fs.String("window", "", "Exact window name")
	pattern := fs.String("regex", "", "Window name pattern")
	id := fs.Int64("id", 0, "Window id")
	template := fs.String("template", "", "Template image path")
	timeout := fs.Duration("timeout", 10*time.Second, "Search deadline (0 waits forever)")
	fs.Parse(args)

	if *template == "" {
		return fmt.Errorf("-template is required")
	}

	b, _, err := newBot(*configPath)
	if err != nil {
		return err
	}
	if err := bindWindow(b, *name, *pattern, *id); err != nil {
		return err
	}

	loc, err := b.FindWithTimeout(*template, *timeout)
	var notFound *cv.NotFoundError
	if errors.As(err, &notFound) {
		fmt.Printf("Not found after %s\n", notFound.Elapsed.Round(time.Millisecond))
		os.Exit(1)
	}
	if err != nil {
		return err
	}

	cx, cy := loc.Center()
	fmt.Printf("Found at (%d, %d), size %dx%d, center (%d, %d)\n",
		loc.X, loc.Y, loc.Width, loc.Height, cx, cy)
	return nil
}

func runClick(args []string) error {
	fs := flag.NewFlagSet("click", flag.ExitOnError)
	configPath := fs.String("config", "screenbot.ini", "Config file path")
	name := fs.String("window", "", "Exact window name")
	pattern := fs.String("regex", "", "Window name pattern")
	id := fs.Int64("id", 0, "Window id")
	template := fs.String("template", "", "Template image path")
	timeout := fs.Duration("timeout", 10*time.Second, "Search deadline (0 waits forever)")
	activate := fs.Bool("activate", false, "Activate the window before clicking")
	fs.Parse(args)

	if *template == "" {
		return fmt.Errorf("-template is required")
	}

	b, _, err := newBot(*configPath)
	if err != nil {
		return err
	}
	if err := bindWindow(b, *name, *pattern, *id); err != nil {
		return err
	}

	if *activate {
		if err := b.ActivateWindow(); err != nil {
			return err
		}
	}

	cx, cy, err := b.ClickOnImage(*template, *timeout)
	if err != nil {
		return err
	}

	fmt.Printf("Clicked at pixel (%d, %d)\n", cx, cy)
	return nil
}

func runHistory(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	configPath := fs.String("config", "screenbot.ini", "Config file path")
	limit := fs.Int("limit", 20, "Number of entries to show")
	fs.Parse(args)

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		return err
	}
	if cfg.JournalPath == "" {
		return fmt.Errorf("no journal_path configured")
	}

	j, err := journal.Open(cfg.JournalPath)
	if err != nil {
		return err
	}
	defer j.Close()
	if err := j.Migrate(); err != nil {
		return err
	}

	records, err := j.RecentSearches(*limit)
	if err != nil {
		return err
	}

	for _, r := range records {
		fmt.Printf("%s  %-8s %6dms  win=%d  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Status, r.DurationMS, r.WindowID, r.Template)
	}

	stats, err := j.SearchStats()
	if err != nil {
		return err
	}
	fmt.Printf("\nTotals: found=%d timeout=%d error=%d\n",
		stats[journal.StatusFound], stats[journal.StatusTimeout], stats[journal.StatusError])
	return nil
}
