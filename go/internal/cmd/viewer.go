package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/auctionfeed/go/clients"
	"github.com/mcdev12/auctionfeed/go/internal/auction/actions"
	"github.com/mcdev12/auctionfeed/go/internal/auction/session"
	"github.com/mcdev12/auctionfeed/go/internal/auth"
	"github.com/mcdev12/auctionfeed/go/internal/models"
	"github.com/mcdev12/auctionfeed/go/internal/render"
)

const helpText = `commands:
  login <username> <password>   log in
  logout                        log out and forget the session
  show                          print the full view
  teams                         team budgets
  squad [team-id]               a team's squad, your own by default
  analytics                     your team's spending
  search [text]                 filter unsold players by name (manager)
  role [role|all]               filter unsold players by role (manager)
  unsold                        list unsold players (manager)
  advance <player-id>           put a player up for auction (manager)
  sell <team-id> <amount>       sell the current player (manager)
  quit                          exit
`

// viewer is the line-oriented terminal front end over one auction session
type viewer struct {
	services *Services

	outMu sync.Mutex
	out   io.Writer

	mu      sync.Mutex
	session *session.Session
	stop    context.CancelFunc
	done    chan struct{}
}

func newViewer(services *Services, out io.Writer) *viewer {
	return &viewer{services: services, out: out}
}

func (v *viewer) printf(format string, args ...any) {
	v.outMu.Lock()
	defer v.outMu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}

// run reads commands until quit, EOF or ctx ends
func (v *viewer) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
		close(lines)
	}()

	if v.current() == nil {
		v.printf("not logged in; try: login <username> <password>\n")
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if quit := v.exec(ctx, line); quit {
				return nil
			}
		}
	}
}

// exec runs one command line and reports whether the viewer should exit
func (v *viewer) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true
	case "help":
		v.printf("%s", helpText)
	case "login":
		v.login(ctx, args)
	case "logout":
		v.logout(ctx)
	default:
		sess := v.current()
		if sess == nil {
			v.printf("not logged in\n")
			return false
		}
		v.sessionCommand(ctx, sess, cmd, args, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0])))
	}
	return false
}

func (v *viewer) sessionCommand(ctx context.Context, sess *session.Session, cmd string, args []string, rest string) {
	manager := sess.User().Role == models.UserRoleManager
	switch cmd {
	case "show":
		v.show(sess)
	case "teams":
		v.printf("%s", render.Teams(sess.Store().Snapshot().State.TeamSummaries))
	case "squad":
		v.squad(ctx, sess, args)
	case "analytics":
		a, ok := sess.Portal().Analytics()
		if !ok {
			v.printf("no analytics loaded\n")
			return
		}
		v.printf("%s", render.Analytics(a))
	case "search", "role", "unsold", "advance", "sell":
		if !manager {
			v.printf("only the auction manager can %s\n", cmd)
			return
		}
		v.managerCommand(ctx, sess, cmd, args, rest)
	default:
		v.printf("unknown command %q; try help\n", cmd)
	}
}

func (v *viewer) managerCommand(ctx context.Context, sess *session.Session, cmd string, args []string, rest string) {
	switch cmd {
	case "search":
		f := sess.Loop().Filter()
		f.Search = rest
		sess.Loop().SetFilter(f)
	case "role":
		f := sess.Loop().Filter()
		f.Role = rest
		sess.Loop().SetFilter(f)
	case "unsold":
		v.printf("%s", render.UnsoldTable(sess.Store().Snapshot().Unsold))
	case "advance":
		if len(args) != 1 {
			v.printf("usage: advance <player-id>\n")
			return
		}
		notice, _ := sess.Actions().AdvanceAuction(ctx, args[0])
		v.notice(notice)
	case "sell":
		in := actions.SaleInput{}
		if len(args) > 0 {
			in.TeamID = args[0]
		}
		if len(args) > 1 {
			in.Amount = args[1]
		}
		notice, _ := sess.Actions().RecordSale(ctx, in)
		v.notice(notice)
	}
}

func (v *viewer) squad(ctx context.Context, sess *session.Session, args []string) {
	if len(args) == 0 {
		squad, ok := sess.Portal().MySquad()
		if !ok {
			v.printf("usage: squad <team-id>\n")
			return
		}
		v.printf("%s", render.Squad(squad))
		return
	}
	squad, err := sess.Portal().SelectTeam(ctx, args[0])
	if err != nil {
		v.printf("failed to load squad: %v\n", err)
		return
	}
	v.printf("%s", render.Squad(squad))
}

func (v *viewer) login(ctx context.Context, args []string) {
	var username, password string
	if len(args) > 0 {
		username = args[0]
	}
	if len(args) > 1 {
		password = args[1]
	}

	v.endSession()
	user, err := v.services.Auth.Login(ctx, username, password)
	if err != nil {
		v.printf("login failed: %s\n", loginMessage(err))
		return
	}
	v.beginSession(ctx, user)
}

func loginMessage(err error) string {
	if errors.Is(err, auth.ErrMissingCredentials) {
		return "Please enter username and password"
	}
	var apiErr *clients.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}

func (v *viewer) logout(ctx context.Context) {
	v.endSession()
	if err := v.services.Auth.Logout(ctx); err != nil {
		log.Warn().Err(err).Msg("logout failed")
	}
	v.printf("logged out\n")
}

// beginSession starts the live view for user and prints updates as they arrive
func (v *viewer) beginSession(ctx context.Context, user models.User) {
	sess := v.services.NewSession(user)
	if err := sess.Start(ctx); err != nil {
		v.printf("failed to start session: %v\n", err)
		sess.Close()
		return
	}

	watchCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})

	v.mu.Lock()
	v.session, v.stop, v.done = sess, stop, done
	v.mu.Unlock()

	v.printf("logged in as %s (%s view)\n", user.Username, auth.Route(user))
	v.show(sess)
	go v.watch(watchCtx, sess, done)
}

// endSession tears down the current live view, if any
func (v *viewer) endSession() {
	v.mu.Lock()
	sess, stop, done := v.session, v.stop, v.done
	v.session, v.stop, v.done = nil, nil, nil
	v.mu.Unlock()

	if sess == nil {
		return
	}
	stop()
	<-done
	sess.Close()
}

func (v *viewer) current() *session.Session {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.session
}

// watch prints the headline whenever the read model changes
func (v *viewer) watch(ctx context.Context, sess *session.Session, done chan struct{}) {
	defer close(done)
	changes := sess.Store().Changes()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			v.headline(sess)
		}
	}
}

func (v *viewer) headline(sess *session.Session) {
	state := sess.Store().Snapshot().State
	line := "no active auction"
	if p := state.CurrentPlayer; p != nil {
		line = fmt.Sprintf("on the block: %s (%s, base %s)", p.Name, p.Role, render.Crore(p.BasePrice))
	}
	if ticker := render.Ticker(state.RecentTransactions); ticker != "" {
		line += " | " + ticker
	}
	v.printf("%s\n", line)
}

func (v *viewer) show(sess *session.Session) {
	view := sess.Store().Snapshot()
	var b strings.Builder
	if sess.User().Role == models.UserRoleManager {
		b.WriteString(render.Totals(view.State.TeamSummaries))
	}
	b.WriteString(render.CurrentPlayer(view.State.CurrentPlayer))
	b.WriteString(render.HighestBuys(view.State.HighestBuys))
	b.WriteString(render.Teams(view.State.TeamSummaries))
	if ticker := render.Ticker(view.State.RecentTransactions); ticker != "" {
		b.WriteString("LATEST SALES  " + ticker + "\n")
	}
	b.WriteString(render.RecentActivity(view.State.RecentTransactions, v.services.Clock.Now()))
	if sess.User().Role == models.UserRoleManager {
		b.WriteString(render.UnsoldTable(view.Unsold))
	}
	v.printf("%s", b.String())
}

func (v *viewer) notice(n actions.Notice) {
	v.printf("[%s] %s\n", n.Kind, n.Text)
}
