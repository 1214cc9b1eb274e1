// Command durak plays Durak against bots in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"durak/internal/app"
	"durak/internal/bot"
	"durak/internal/config"
	"durak/internal/domain"
	"durak/internal/ports"
	"durak/internal/ports/memory"
	"durak/internal/ports/redis"
)

var log = logrus.New()

// Environment keys read by the terminal host only.
const (
	envRedisAddr     = "DURAK_REDIS_ADDR"
	envRedisPassword = "DURAK_REDIS_PASSWORD"
	envRedisDB       = "DURAK_REDIS_DB"
	envProfile       = "DURAK_PROFILE"
)

var errQuit = errors.New("quit")

func main() {
	logLevel := flag.String("loglevel", "info", "Set logging level (debug, info, warn, error)")
	configPath := flag.String("config", "data/game_config.json", "Path to the game config")
	envFile := flag.String("env", ".env", "Optional env file with DURAK_* overrides")
	fast := flag.Bool("fast", false, "Skip bot and resolve delays")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, ForceColors: true})

	cfg, env := loadConfig(*configPath, *envFile)
	if *fast {
		cfg.BotDelayMs, cfg.ResolveDelayMs, cfg.TossPassDelayMs = 0, 0, 0
	}
	if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
		log.Warnf("Using default bot identities: %v", err)
	}

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, env)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer closeStore()

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	profile := app.NewProfile(store)
	c := &cli{
		line:    line,
		out:     os.Stdout,
		profile: profile,
		session: app.NewSession(app.NewService(nil, cfg), profile, cfg),
	}
	if err := c.menu(ctx); err != nil && !errors.Is(err, errQuit) {
		log.Fatalf("%v", err)
	}
}

// loadConfig reads the config file and applies overrides from the process
// environment and the env file, in that order of precedence.
func loadConfig(path, envFile string) (config.GameConfig, map[string]string) {
	if err := config.LoadGameConfig(path); err != nil {
		log.Warnf("Using default game config: %v", err)
	}
	cfg := config.GetGameConfig()

	env, err := godotenv.Read(envFile)
	if err != nil {
		log.Debugf("No env file %s: %v", envFile, err)
		env = map[string]string{}
	}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, "DURAK_") {
			env[k] = v
		}
	}
	if err := cfg.ApplyEnv(env); err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}
	return cfg, env
}

// openStore connects to Redis when an address is configured and falls back to
// an in-memory store otherwise.
func openStore(ctx context.Context, env map[string]string) (ports.KeyValueStore, func(), error) {
	addr := env[envRedisAddr]
	if addr == "" {
		log.Info("No Redis configured, progress is kept for this run only.")
		return memory.NewStore(), func() {}, nil
	}
	db := 0
	if v := env[envRedisDB]; v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid %s: %w", envRedisDB, err)
		}
		db = n
	}
	client, err := redis.Dial(ctx, addr, env[envRedisPassword], db)
	if err != nil {
		return nil, nil, err
	}
	prefix := "durak:" + env[envProfile]
	if env[envProfile] == "" {
		prefix = "durak:default"
	}
	log.Infof("Using Redis at %s (%s).", addr, prefix)
	return redis.NewStore(client, prefix), func() { _ = client.Close() }, nil
}

type cli struct {
	line    *liner.State
	out     io.Writer
	profile *app.Profile
	session *app.Session
}

func (c *cli) prompt(p string) (string, error) {
	input, err := c.line.Prompt(p)
	if err != nil {
		if err == liner.ErrPromptAborted || err == io.EOF {
			return "", errQuit
		}
		return "", fmt.Errorf("error reading line: %w", err)
	}
	input = strings.TrimSpace(input)
	if input != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

func (c *cli) confirm(question string) (bool, error) {
	answer, err := c.prompt(question + " [y/N] ")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

func (c *cli) menu(ctx context.Context) error {
	for {
		stats, err := c.profile.LoadStats(ctx)
		if err != nil {
			return err
		}
		saved, err := c.profile.HasSavedGame(ctx)
		if err != nil {
			return err
		}
		printMenu(c.out, stats, saved)

		input, err := c.prompt("durak> ")
		if err != nil {
			return err
		}
		switch fields := strings.Fields(strings.ToLower(input)); {
		case len(fields) == 0:
			continue
		case fields[0] == "new" || fields[0] == "n":
			if saved {
				ok, err := c.confirm("Abandon the saved game?")
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
			}
			settings, err := c.profile.LoadSettings(ctx)
			if err != nil {
				log.Warnf("Using default settings: %v", err)
			}
			events, err := c.session.Start(ctx, settings, time.Now())
			if err := c.play(ctx, events, err); err != nil {
				return err
			}
		case fields[0] == "continue" || fields[0] == "c":
			events, err := c.session.Resume(ctx, time.Now())
			if errors.Is(err, app.ErrNoSavedGame) {
				fmt.Fprintln(c.out, styles.warn.Sprint("Nothing to continue."))
				continue
			}
			if err := c.play(ctx, events, err); err != nil {
				return err
			}
		case fields[0] == "settings" || fields[0] == "s":
			if err := c.settings(ctx, fields[1:]); err != nil {
				return err
			}
		case fields[0] == "quit" || fields[0] == "q":
			return errQuit
		default:
			fmt.Fprintln(c.out, styles.warn.Sprintf("Unknown command %q.", input))
		}
	}
}

// settings shows the settings, or updates one: "settings bots 2".
func (c *cli) settings(ctx context.Context, args []string) error {
	s, err := c.profile.LoadSettings(ctx)
	if err != nil {
		log.Warnf("Using default settings: %v", err)
	}
	if len(args) == 2 {
		switch args[0] {
		case "bots":
			n, err := strconv.Atoi(args[1])
			if err != nil {
				fmt.Fprintln(c.out, styles.warn.Sprint("Bots must be a number."))
				return nil
			}
			s.BotCount = n
		case "mode":
			s.Mode = domain.Mode(args[1])
		case "difficulty":
			s.Difficulty = domain.Difficulty(args[1])
		case "sound":
			s.Sound = args[1] == "on"
		default:
			fmt.Fprintln(c.out, styles.warn.Sprintf("Unknown setting %q.", args[0]))
			return nil
		}
		if err := c.profile.SaveSettings(ctx, s); err != nil {
			if errors.Is(err, app.ErrInvalidSettings) {
				fmt.Fprintln(c.out, styles.warn.Sprint(err.Error()))
				return nil
			}
			return err
		}
	}
	printSettings(c.out, s)
	return nil
}

// play runs the session until the game ends or the human leaves.
func (c *cli) play(ctx context.Context, events []app.Event, err error) error {
	printEvents(c.out, c.session.Game(), events)
	if err != nil {
		return err
	}
	for {
		switch c.session.Status() {
		case app.StatusFinished, app.StatusStopped:
			return nil
		case app.StatusAwaitingHuman:
			events, err := c.turn(ctx)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				return err
			}
			printEvents(c.out, c.session.Game(), events)
		default:
			due, ok := c.session.NextDue()
			if !ok {
				return fmt.Errorf("session %s has no pending step", c.session.Status())
			}
			time.Sleep(time.Until(due))
			events, err := c.session.Advance(ctx, time.Now())
			printEvents(c.out, c.session.Game(), events)
			if err != nil {
				return err
			}
		}
	}
}

// turn reads commands until one changes the game.
func (c *cli) turn(ctx context.Context) ([]app.Event, error) {
	for {
		view, _ := c.session.View()
		printView(c.out, view)

		input, err := c.prompt(promptFor(view))
		if err != nil {
			return nil, c.leave(ctx)
		}
		fields := strings.Fields(strings.ToLower(input))
		if len(fields) == 0 {
			return c.session.Main(ctx, time.Now())
		}
		if n, err := strconv.Atoi(fields[0]); err == nil {
			return c.session.Play(ctx, n-1, time.Now())
		}
		switch fields[0] {
		case "s", "select":
			if len(fields) < 2 {
				break
			}
			if n, err := strconv.Atoi(fields[1]); err == nil && c.session.Select(n-1) {
				continue
			}
		case "m", "main":
			return c.session.Main(ctx, time.Now())
		case "t", "take", "p", "pass", "b", "beaten", "d", "done":
			return c.session.Secondary(ctx, time.Now())
		case "q", "quit", "exit":
			if err := c.leave(ctx); err != nil {
				return nil, err
			}
			if c.session.Status() == app.StatusStopped {
				return nil, errQuit
			}
			continue
		case "h", "help":
			printHelp(c.out)
			continue
		}
		fmt.Fprintln(c.out, styles.warn.Sprintf("Unknown command %q, try help.", input))
	}
}

// leave asks before abandoning a running game.
func (c *cli) leave(ctx context.Context) error {
	ok, err := c.confirm("Leave and abandon this game?")
	if err != nil && !errors.Is(err, errQuit) {
		return err
	}
	if !ok && err == nil {
		return nil
	}
	return c.session.Exit(ctx)
}
