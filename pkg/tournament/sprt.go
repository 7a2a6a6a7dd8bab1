package tournament

import "github.com/cuteataxx/arbiter/pkg/stats"

// SprtMonitor watches a ResultsAggregator's running pentanomial counts
// against a pair of Elo hypotheses and reports once the sequential
// probability ratio test has a verdict.
type SprtMonitor struct {
	Elo0, Elo1  float64
	Alpha, Beta float64
}

// Verdict is the outcome of one SprtMonitor.Check call.
type Verdict int

const (
	VerdictContinue Verdict = iota
	VerdictAcceptH0         // elo0 (the null hypothesis) is favored: stop, no improvement found
	VerdictAcceptH1         // elo1 is favored: stop, improvement found
)

// Check folds every pair's pentanomial counts in snap and compares the
// resulting log-likelihood ratio against the monitor's stopping bounds.
func (m SprtMonitor) Check(snap Snapshot) (Verdict, float64) {
	var ww, wd, dd, dl, ll int
	for _, pair := range snap.Pairs {
		ww += pair.WinWin
		wd += pair.WinDraw
		dd += pair.DrawDraw
		dl += pair.DrawLoss
		ll += pair.LossLoss
	}

	llr := stats.PentaSPRT(ll, dl, dd, wd, ww, m.Elo0, m.Elo1)
	lower, upper := stats.StoppingBounds(m.Alpha, m.Beta)

	switch {
	case llr <= lower:
		return VerdictAcceptH0, llr
	case llr >= upper:
		return VerdictAcceptH1, llr
	default:
		return VerdictContinue, llr
	}
}
