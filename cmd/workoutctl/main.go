package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/claude/workouttracker/internal/client"
	wtmcp "github.com/claude/workouttracker/internal/mcp"
	"github.com/claude/workouttracker/internal/report"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: workoutctl [-server URL] [-session-dir DIR] <command> [args]

Commands:
  signup -name N -surname S -email E -password P
  login -email E -password P
  logout
  exercises
  plans
  sessions
  report <plan_id>
  mcp              serve MCP over stdio using the stored login
`

func main() {
	serverURL := flag.String("server", envOr("WORKOUTCTL_SERVER", "http://localhost:8080"), "workouttracker server URL")
	sessionDir := flag.String("session-dir", "", "directory holding session.db (default ~/.workoutctl)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *version {
		fmt.Println("workoutctl", Version)
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	dir := *sessionDir
	if dir == "" {
		var err error
		dir, err = client.DefaultSessionDir()
		if err != nil {
			log.Error("resolving session dir", "error", err)
			os.Exit(1)
		}
	}
	store, err := client.OpenSessionStore(dir)
	if err != nil {
		log.Error("failed to open session store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := &cli{api: client.New(*serverURL), store: store, log: log}
	if err := app.run(ctx, flag.Arg(0), flag.Args()[1:]); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Fprintln(os.Stderr, "error:", apiErr.Message)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type cli struct {
	api   *client.Client
	store *client.SessionStore
	log   *slog.Logger
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signup":
		return c.signup(ctx, args)
	case "login":
		return c.login(ctx, args)
	case "logout":
		return c.logout(ctx)
	}

	if err := c.authenticate(); err != nil {
		return err
	}

	switch cmd {
	case "exercises":
		exercises, err := c.api.ListExercises(ctx)
		if err != nil {
			return err
		}
		printExercises(os.Stdout, exercises)
	case "plans":
		plans, err := c.api.ListWorkoutPlans(ctx)
		if err != nil {
			return err
		}
		printPlans(os.Stdout, plans)
	case "sessions":
		sessions, err := c.api.ListWorkoutSessions(ctx)
		if err != nil {
			return err
		}
		printSessions(os.Stdout, sessions)
	case "report":
		return c.report(ctx, args)
	case "mcp":
		c.log.Info("serving MCP over stdio", "version", Version)
		return mcpserver.ServeStdio(wtmcp.New(wtmcp.NewHTTPClient(c.api), Version, c.log))
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}

// authenticate loads the stored token into the API client.
func (c *cli) authenticate() error {
	sess, err := c.store.Load()
	if errors.Is(err, client.ErrNoSession) {
		return errors.New("not logged in, run: workoutctl login -email E -password P")
	}
	if err != nil {
		return err
	}
	c.api.SetToken(sess.Token)
	return nil
}

func (c *cli) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	name := fs.String("name", "", "first name")
	surname := fs.String("surname", "", "surname")
	email := fs.String("email", "", "email address")
	password := fs.String("password", os.Getenv("WORKOUTCTL_PASSWORD"), "password (or WORKOUTCTL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.api.Signup(ctx, *name, *surname, *email, *password); err != nil {
		return err
	}
	fmt.Println("Registered. Log in with: workoutctl login -email", *email)
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", os.Getenv("WORKOUTCTL_PASSWORD"), "password (or WORKOUTCTL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := c.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	if err := c.store.Save(client.Session{Token: res.Token, Email: *email, ExpiresAt: res.ExpiresAt}); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s until %s\n", *email, res.ExpiresAt.Local().Format(time.DateTime))
	return nil
}

func (c *cli) logout(ctx context.Context) error {
	if err := c.api.Logout(ctx); err != nil {
		c.log.Warn("server logout failed", "error", err)
	}
	if err := c.store.Clear(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func (c *cli) report(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: workoutctl report <plan_id>")
	}
	planID, err := strconv.Atoi(args[0])
	if err != nil || planID <= 0 {
		return fmt.Errorf("invalid plan id %q", args[0])
	}

	rep, err := c.api.GetReport(ctx, planID)
	if err != nil {
		return err
	}
	printReport(os.Stdout, *rep, report.Build(*rep))
	return nil
}
