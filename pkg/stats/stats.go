// Package stats estimates Elo and runs a sequential probability ratio
// test (SPRT) over accumulated game results, in both the trinomial
// (win/draw/loss) and pentanomial (paired-game) forms.
package stats

import "math"

// StoppingBounds converts the desired type-I/type-II error rates into
// the lower/upper log-likelihood-ratio bounds an SPRT stops at.
func StoppingBounds(alpha, beta float64) (lower, upper float64) {
	lower = math.Log(beta / (1 - alpha))
	upper = math.Log((1 - beta) / alpha)
	return
}

// SPRT computes the log-likelihood ratio for whether elo1 is more
// likely than elo0 to be the true strength difference, given ws/ds/ls
// observed wins/draws/losses. A Dirichlet([0.5, 0.5, 0.5]) prior keeps
// the ratio well-defined before any games of a given result type have
// been seen.
func SPRT(ws, ds, ls int, elo0, elo1 float64) (llr float64) {
	w := float64(ws) + 0.5
	d := float64(ds) + 0.5
	l := float64(ls) + 0.5

	n := w + d + l
	_, dlo := wdlToElo(w/n, d/n, l/n)

	w0, d0, l0 := eloToWDL(elo0, dlo)
	w1, d1, l1 := eloToWDL(elo1, dlo)

	return w*math.Log(w1/w0) + d*math.Log(d1/d0) + l*math.Log(l1/l0)
}

// PentaSPRT is the pentanomial analogue of SPRT: instead of one
// win/draw/loss per game, lls..wws count game-pairs that landed in each
// of the five loss-loss/loss-draw/win-loss-or-draw-draw/win-draw/
// win-win buckets (see ResultsAggregator.foldPenta).
func PentaSPRT(lls, lds, wldds, wds, wws int, elo0, elo1 float64) (llr float64) {
	n := float64(lls + lds + wldds + wds + wws)
	if n == 0 {
		return 0
	}

	ll := float64(lls) / n
	ld := float64(lds) / n
	wldd := float64(wldds) / n
	wd := float64(wds) / n
	ww := float64(wws) / n

	mu := ww + 0.75*wd + 0.5*wldd + 0.25*ld
	r := math.Sqrt(ww*sq(1-mu) + wd*sq(0.75-mu) + wldd*sq(0.5-mu) + ld*sq(0.25-mu) + ll*sq(0-mu))
	if r == 0 {
		return 0
	}

	mu0 := neloToScore(elo0, r)
	mu1 := neloToScore(elo1, r)

	r0 := math.Sqrt(ww*sq(1-mu0) + wd*sq(0.75-mu0) + wldd*sq(0.5-mu0) + ld*sq(0.25-mu0) + ll*sq(0-mu0))
	r1 := math.Sqrt(ww*sq(1-mu1) + wd*sq(0.75-mu1) + wldd*sq(0.5-mu1) + ld*sq(0.25-mu1) + ll*sq(0-mu1))
	if r0 == 0 || r1 == 0 {
		return 0
	}

	// A simplified but accurate approximation of the exact multinomial
	// llr; see http://hardy.uhasselt.be/Fishtest/support_MLE_multinomial.pdf
	return 0.5 * n * math.Log(r0/r1)
}

// Elo returns the estimated Elo difference mu together with its 95%
// confidence interval [muMin, muMax].
func Elo(ws, ds, ls int) (muMin, mu, muMax float64) {
	n := float64(ws + ds + ls)
	if n == 0 {
		return 0, 0, 0
	}

	w := float64(ws) / n
	d := float64(ds) / n
	l := float64(ls) / n

	mu = w + d/2
	sigma := math.Sqrt(w*sq(1-mu)+d*sq(0.5-mu)+l*sq(0-mu)) / math.Sqrt(n)

	muMax = mu + phiInv(0.975)*sigma
	muMin = mu + phiInv(0.025)*sigma
	return clampElo(muMin), clampElo(mu), clampElo(muMax)
}

// PentaElo is the pentanomial analogue of Elo.
func PentaElo(lls, lds, wldds, wds, wws int) (muMin, mu, muMax float64) {
	n := float64(lls + lds + wldds + wds + wws)
	if n == 0 {
		return 0, 0, 0
	}

	ll := float64(lls) / n
	ld := float64(lds) / n
	wldd := float64(wldds) / n
	wd := float64(wds) / n
	ww := float64(wws) / n

	mu = ww + 0.75*wd + 0.5*wldd + 0.25*ld
	sigma := math.Sqrt(ww*sq(1-mu)+wd*sq(0.75-mu)+wldd*sq(0.5-mu)+ld*sq(0.25-mu)+ll*sq(0-mu)) / math.Sqrt(n)

	muMax = mu + phiInv(0.975)*sigma
	muMin = mu + phiInv(0.025)*sigma
	return clampElo(muMin), clampElo(mu), clampElo(muMax)
}

func sq(x float64) float64 { return x * x }

func clampElo(x float64) float64 {
	if x <= 0 || x >= 1 {
		return 0
	}
	return -400 * math.Log10(1/x-1)
}

// eloToWDL converts a bayesian elo (plus draw-elo offset) to its WDL
// probabilities.
func eloToWDL(elo, dlo float64) (w, d, l float64) {
	w = 1 / (1 + math.Pow(10, (-elo+dlo)/400))
	l = 1 / (1 + math.Pow(10, (+elo+dlo)/400))
	d = 1 - w - l
	return w, d, l
}

// wdlToElo is eloToWDL's inverse.
func wdlToElo(w, d, l float64) (elo, dlo float64) {
	elo = 200 * math.Log10((w/l)*((1-l)/(1-w)))
	dlo = 200 * math.Log10(((1-l)/l)*((1-w)/w))
	return elo, dlo
}

func phiInv(p float64) float64 {
	return math.Sqrt2 * math.Erfinv(2*p-1)
}

func neloToScore(nelo, r float64) float64 {
	return nelo*math.Sqrt2*r/(800/math.Ln10) + 0.5
}
