// Package cli implements the inspector command-line client: account signup
// and login, profile management and a read-only inspection listing.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/marinesurvey/inspector/internal/client/client"
	"github.com/marinesurvey/inspector/internal/client/config"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errUsage = errors.New("usage")

const usage = `Usage: inspector [-a URL] [-t TOKEN] [-w SECONDS] [-c FILE] <command> [args]

Commands:
  signup                     create an account
  login                      log in and print a bearer token
  profile                    show the profile (needs -t)
  profile set key=value ...  update profile fields (needs -t)
  profile delete             delete the account (needs -t)
  inspections                list inspections
`

type App struct {
	config *config.Config
	client client.Client
	reader *bufio.Reader
	out    io.Writer
}

func NewApp(cfg *config.Config, c client.Client, in io.Reader, out io.Writer) *App {
	return &App{config: cfg, client: c, reader: bufio.NewReader(in), out: out}
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return errUsage
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "signup", "register":
		return a.signup(ctx)
	case "login":
		return a.login(ctx)
	case "profile":
		return a.profile(ctx, rest)
	case "inspections":
		return a.inspections(ctx)
	case "help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprint(a.out, usage)
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// Positional returns the arguments that are neither flags nor flag values.
// withValue lists the flags that consume the following argument.
func Positional(args, withValue []string) []string {
	takes := make(map[string]bool, len(withValue))
	for _, f := range withValue {
		takes[f] = true
	}

	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			out = append(out, arg)
			continue
		}
		if takes[arg] && i+1 < len(args) {
			i++
		}
	}
	return out
}
