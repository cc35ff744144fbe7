package render

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

// Squad renders a team's roster and budget
func Squad(s models.Squad) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", s.Name)
	fmt.Fprintf(&b, "Players: %d  Spent: %s  Remaining: %s\n",
		s.PlayersCount, CroreFixed(s.TotalSpent, 1), CroreFixed(s.RemainingBudget, 1))

	if len(s.Players) == 0 {
		b.WriteString("No players yet\n")
		return b.String()
	}

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tROLE\tPRICE\tRUNS\tWKTS\tSR")
	for _, p := range s.Players {
		price := noneLabel
		if p.SoldPrice != nil {
			price = Crore(*p.SoldPrice)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", p.Name, orNone(string(p.Role)), price, p.Runs, p.Wickets, fixed(p.StrikeRate, 1))
	}
	w.Flush()
	return b.String()
}

// Analytics renders a team's spending breakdown. Roles are listed alphabetically.
func Analytics(a models.Analytics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Highest buy: %s\n", buyLine(a.HighestBuy))
	fmt.Fprintf(&b, "Lowest buy: %s\n", buyLine(a.LowestBuy))
	fmt.Fprintf(&b, "Average spend: %s\n", CroreFixed(a.AverageSpend, 2))

	roles := make(map[string]struct{}, len(a.RoleDistribution)+len(a.SpendByRole))
	for r := range a.RoleDistribution {
		roles[r] = struct{}{}
	}
	for r := range a.SpendByRole {
		roles[r] = struct{}{}
	}
	if len(roles) == 0 {
		return b.String()
	}
	names := make([]string, 0, len(roles))
	for r := range roles {
		names = append(names, r)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROLE\tPLAYERS\tSPEND")
	for _, r := range names {
		fmt.Fprintf(w, "%s\t%d\t%s\n", r, a.RoleDistribution[r], CroreFixed(a.SpendByRole[r], 1))
	}
	w.Flush()
	return b.String()
}

func buyLine(p *models.Player) string {
	if p == nil {
		return noneLabel
	}
	if p.SoldPrice == nil {
		return p.Name
	}
	return fmt.Sprintf("%s %s", p.Name, Crore(*p.SoldPrice))
}
