// Command-line interface for MegaNote operators
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"meganote/meganote/config"
	"meganote/meganote/controllers"
	"meganote/meganote/services/security"
	"meganote/meganote/sources/psql"
	"meganote/meganote/sources/psql/dao"
	"meganote/meganote/utils/logging"

	"go.uber.org/zap"
	"golang.org/x/term"
)

const usage = `MegaNote CLI usage:
  meganote migrate            # Create or update the database schema
  meganote adduser <username> # Register a user, password read from the terminal or stdin
`

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if err := logging.InitLogger(cfg.LogDir); err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err)
		os.Exit(1)
	}
	defer logging.Sync()

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Print(usage)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		fmt.Fprintln(os.Stderr, "database connection error:", err)
		os.Exit(1)
	}
	defer db.Close()

	app := &cli{
		db:       db,
		hasher:   security.NewBcryptHasher(cfg.BcryptCost),
		in:       os.Stdin,
		out:      os.Stdout,
		password: readPassword,
	}
	if err := app.run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type cli struct {
	db       *psql.Database
	hasher   security.PasswordHasher
	in       io.Reader
	out      io.Writer
	password func(in io.Reader, out io.Writer) (string, error)
}

func (c *cli) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "migrate":
		if err := c.db.Migrate(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "schema is up to date")
		return nil
	case "adduser":
		if len(args) != 2 {
			return errors.New("usage: meganote adduser <username>")
		}
		return c.addUser(ctx, args[1])
	default:
		fmt.Fprint(c.out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func (c *cli) addUser(ctx context.Context, username string) error {
	password, err := c.password(c.in, c.out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	// tokens are never issued from the CLI
	auth := controllers.NewAuthController(dao.NewUserDAO(c.db.DB), c.hasher, nil)
	user, err := auth.Register(ctx, username, password)
	if err != nil {
		return err
	}
	logging.AppLogger.Info("user created from CLI", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	fmt.Fprintf(c.out, "created user %q (id %d)\n", user.Username, user.ID)
	return nil
}

// readPassword prompts without echo on a terminal and reads one line otherwise.
func readPassword(in io.Reader, out io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(out, "Password: ")
		pw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
