package prosumer

import (
	"context"
	"fmt"
	"strings"

	"github.com/voltmesh/solarbot/internal/session"
)

// AutoTrade runs one scheduled trading evaluation for sess. It returns a
// notification for the user and true when a trade was executed. Outside
// the configured trading hours, or when the evaluation decides no action,
// it returns ("", false) and leaves the session untouched apart from the
// trading history entry the evaluation records.
func (f *Flow) AutoTrade(ctx context.Context, sess *session.Session) (string, bool) {
	settings := sess.TradeSettings()
	if !settings.WithinTradingHours(f.now()) {
		return "", false
	}

	outcome := f.EvaluateAutoTrade(ctx, sess)
	if outcome.Result == nil {
		return "", false
	}
	return sweepNotification(outcome), true
}

// sweepNotification renders the push message for an executed scheduled
// trade, in the same voice as the simulation screen.
func sweepNotification(outcome TradeOutcome) string {
	res := outcome.Result

	var b strings.Builder
	b.WriteString("🤖 **Auto-Trading Update**\n\n")
	fmt.Fprintf(&b, "**Action:** %s\n\n", titleWords(res.Type))

	if res.Total > 0 {
		fmt.Fprintf(&b, "Amount: %s kWh\n", fnum(res.AmountKWh))
		fmt.Fprintf(&b, "Price: $%s/kWh\n", fnum(res.PricePerKWh))
		fmt.Fprintf(&b, "Total: $%s\n", fnum(res.Total))
	} else {
		fmt.Fprintf(&b, "Energy stored: %s kWh\n", fnum(res.AmountKWh))
	}
	if res.Recipient != "" {
		fmt.Fprintf(&b, "Recipient: %s\n", res.Recipient)
	}
	if res.CommunityScore > 0 {
		fmt.Fprintf(&b, "Community contribution: +%s points\n", fnum(res.Contribution))
	}

	b.WriteString("\n")
	b.WriteString(outcome.Explanation)
	return b.String()
}
