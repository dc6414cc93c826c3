package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/trezcool/academia/apiclient"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/auth"
	"github.com/trezcool/academia/core/route"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/storage/database"
	"github.com/trezcool/academia/storage/session/sqlstore"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	openDBFunc       = database.Open     // mockable
	migrateFunc      = database.Migrate  // mockable

	errHelp        = errors.New("help provided")
	errNotLoggedIn = errors.New("not logged in")
)

type commandLine struct {
	conf     *core.Config
	logger   core.Logger
	api      *apiclient.Client
	sessions session.Backend
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME [-profile NAME] - sign in; the password is prompted next")
	fmt.Fprintln(cli.out, "  logout [-profile NAME]                   - forget the profile's session")
	fmt.Fprintln(cli.out, "  whoami [-profile NAME]                   - show the signed in user")
	fmt.Fprintln(cli.out, "  open [-profile NAME] PATH                - open a console page, e.g. /admin/students")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                   - run SQL session backend migrations")
	fmt.Fprintln(cli.out, "  purge                                    - delete expired sessions from the SQL session backend")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginUname := loginCmd.String("username", "", "The username. The password will be prompted next.")
	loginProfile := cli.profileFlag(loginCmd)

	logoutCmd := flag.NewFlagSet("logout", flag.ContinueOnError)
	logoutProfile := cli.profileFlag(logoutCmd)

	whoamiCmd := flag.NewFlagSet("whoami", flag.ContinueOnError)
	whoamiProfile := cli.profileFlag(whoamiCmd)

	openCmd := flag.NewFlagSet("open", flag.ContinueOnError)
	openProfile := cli.profileFlag(openCmd)

	for _, fs := range []*flag.FlagSet{loginCmd, logoutCmd, whoamiCmd, openCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginProfile, *loginUname, string(pwd))

	case "logout":
		if err := logoutCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.logout(*logoutProfile)

	case "whoami":
		if err := whoamiCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.whoami(*whoamiProfile)

	case "open":
		if err := openCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if openCmd.NArg() != 1 {
			openCmd.Usage()
			return errHelp
		}
		return cli.open(*openProfile, openCmd.Arg(0))

	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "purge":
		if len(args) > 2 {
			cli.printUsage()
			return errHelp
		}
		return cli.purge()

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) profileFlag(fs *flag.FlagSet) *string {
	return fs.String("profile", cli.conf.Session.Profile, "The session profile.")
}

// navigator drives the profile's session the same way a console tab does.
func (cli *commandLine) navigator(profile string) *route.Navigator {
	store := session.Bind(cli.sessions, profile)
	client := cli.api.WithTokens(store)
	authn := auth.NewAuthenticator(client, cli.logger)
	return route.NewNavigator(store, authn, route.Guards(client, cli.logger), cli.logger)
}

func (cli *commandLine) login(profile, uname, pwd string) error {
	nav := cli.navigator(profile)
	view, err := nav.Login(context.Background(), auth.Credentials{Username: core.CleanString(uname), Password: pwd})
	if err != nil {
		return err
	}
	switch {
	case view.State.Shell():
		fmt.Fprintf(cli.out, "Logged in as %s (%s)\n", view.Profile.FullName, view.Path)
		return nil
	case view.Denied != "":
		printView(cli.out, view)
		return nil
	}
	// accounts landing on /teacher have no pages here
	fmt.Fprintf(cli.out, "Logged in; this account has no console pages (%s)\n", view.Path)
	return nil
}

func (cli *commandLine) logout(profile string) error {
	nav := cli.navigator(profile)
	view, err := nav.Logout(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Logged out (%s)\n", view.Path)
	return nil
}

func (cli *commandLine) whoami(profile string) error {
	ctx := context.Background()
	store := session.Bind(cli.sessions, profile)
	sess, err := store.Get(ctx)
	if err != nil {
		return err
	}
	if sess.Token == "" {
		return errNotLoggedIn
	}
	p, err := cli.api.WithTokens(store).Profile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s (%s)\n", p.FullName, p.Username)
	fmt.Fprintf(cli.out, "roles: %s\n", strings.Join(p.Roles, ", "))
	return nil
}

func (cli *commandLine) open(profile, path string) error {
	nav := cli.navigator(profile)
	view, err := nav.Navigate(context.Background(), path)
	if err != nil {
		return err
	}
	printView(cli.out, view)
	return nil
}

func printView(w io.Writer, v route.View) {
	if v.Denied != "" {
		fmt.Fprintf(w, "redirected to %s: %s\n", v.Path, v.Denied)
		return
	}
	fmt.Fprintf(w, "%s %s (%s)\n", v.State, v.Page, v.Path)
	if v.Profile.FullName != "" {
		fmt.Fprintf(w, "user: %s\n", v.Profile.FullName)
	}
}

func (cli *commandLine) migrate(args []string) error {
	ctx := context.Background()
	db, err := openDBFunc(ctx, cli.conf.Session.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	return migrateFunc(ctx, db, args[0], args[1:]...)
}

func (cli *commandLine) purge() error {
	ctx := context.Background()
	db, err := openDBFunc(ctx, cli.conf.Session.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := sqlstore.New(db, cli.conf.Server.SessionTTL).Purge(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Purged %d expired sessions\n", n)
	return nil
}
