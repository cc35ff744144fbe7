package render

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// Ticker joins the newest sales into one line. It is empty when there are no sales.
func Ticker(txns []models.Transaction) string {
	if len(txns) > MaxTickerItems {
		txns = txns[:MaxTickerItems]
	}
	items := make([]string, 0, len(txns))
	for _, t := range txns {
		items = append(items, fmt.Sprintf("%s sold to %s for %s", t.Player.Name, t.Team.Name, Crore(t.Amount)))
	}
	return strings.Join(items, tickerSeparator)
}

// CurrentPlayer renders the player on the block, or the idle notice when p is nil
func CurrentPlayer(p *models.Player) string {
	if p == nil {
		return "No Active Auction\nWaiting for the next player to be put up for auction\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "LIVE  %s\n", p.Name)
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Role\t%s\tAge\t%d\n", orNone(string(p.Role)), p.Age)
	fmt.Fprintf(w, "Base Price\t%s\tMatches\t%d\n", Crore(p.BasePrice), p.Matches)
	fmt.Fprintf(w, "Runs\t%d\t50s/100s\t%d/%d\n", p.Runs, p.Fifties, p.Hundreds)
	fmt.Fprintf(w, "SR\t%s\tWickets\t%d\n", fixed(p.StrikeRate, 2), p.Wickets)
	fmt.Fprintf(w, "Economy\t%s\t\t\n", fixed(p.Economy, 2))
	w.Flush()
	return b.String()
}

// HighestBuys ranks sold players by price, keeping the top five. Equal prices keep
// their delivered order.
func HighestBuys(players []models.Player) string {
	ranked := make([]models.Player, 0, len(players))
	for _, p := range players {
		if p.SoldPrice != nil {
			ranked = append(ranked, p)
		}
	}
	if len(ranked) == 0 {
		return "No sales yet\n"
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].SoldPrice > *ranked[j].SoldPrice
	})
	if len(ranked) > MaxHighestBuys {
		ranked = ranked[:MaxHighestBuys]
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for i, p := range ranked {
		team := ""
		if p.SoldToTeam != nil {
			team = p.SoldToTeam.Name
		}
		fmt.Fprintf(w, "%d.\t%s\t%s\t%s\n", i+1, p.Name, orNone(team), Crore(*p.SoldPrice))
	}
	w.Flush()
	return b.String()
}

// Summary is the manager dashboard headline
type Summary struct {
	PlayersSold int
	TotalSpent  float64
	TeamCount   int
}

// Summarize sums players sold and money spent across all teams
func Summarize(teams []models.Team) Summary {
	t := Summary{TeamCount: len(teams)}
	for _, team := range teams {
		t.PlayersSold += team.PlayersCount
		t.TotalSpent += team.Spent
	}
	return t
}

// Totals formats the dashboard headline for teams
func Totals(teams []models.Team) string {
	t := Summarize(teams)
	return fmt.Sprintf("Players sold: %d  Total spent: %s  Teams: %d\n", t.PlayersSold, CroreFixed(t.TotalSpent, 1), t.TeamCount)
}

// Teams lists each team's budget position in delivered order
func Teams(teams []models.Team) string {
	if len(teams) == 0 {
		return "No teams\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TEAM\tPLAYERS\tREMAINING\tSPENT")
	for _, t := range teams {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", t.Name, t.PlayersCount, CroreFixed(t.RemainingBudget, 1), CroreFixed(t.Spent, 1))
	}
	w.Flush()
	return b.String()
}

// RecentActivity lists the newest sales with their age relative to now
func RecentActivity(txns []models.Transaction, now time.Time) string {
	if len(txns) == 0 {
		return "No transactions yet\n"
	}
	if len(txns) > models.MaxRecentTransactions {
		txns = txns[:models.MaxRecentTransactions]
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, t := range txns {
		when := noneLabel
		if !t.Timestamp.IsZero() {
			when = humanize.RelTime(t.Timestamp, now, "ago", "from now")
		}
		fmt.Fprintf(w, "%s\tSold to %s\t%s\t%s\n", t.Player.Name, t.Team.Name, Crore(t.Amount), when)
	}
	w.Flush()
	return b.String()
}

// UnsoldTable lists the unsold pool for the manager
func UnsoldTable(players []models.Player) string {
	if len(players) == 0 {
		return "No unsold players\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tROLE\tAGE\tBASE\tSTATS")
	for _, p := range players {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%dR, %dW, SR: %s\n",
			p.ID, p.Name, orNone(string(p.Role)), p.Age, Crore(p.BasePrice), p.Runs, p.Wickets, fixed(p.StrikeRate, 1))
	}
	w.Flush()
	return b.String()
}
