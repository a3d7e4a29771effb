// Package isd estimates the asymptotic cost exponent of Information Set
// Decoding against the hardest random linear codes over Z_q, in the Hamming
// or the Lee metric.
//
// Three algorithms are modelled:
//
//   - Prange: plain information-set enumeration (paramL = 0, one level).
//   - Dumer/Stern: one birthday merge over a window of paramL parity symbols.
//   - Wagner: a generalised birthday tree whose depth is picked from paramL
//     and the size of the bottom lists.
//
// All quantities are exponents normalised by the code length n: a value c
// stands for q^(c·n) (or 2^(c·n) once multiplied by log2 q).
//
// The computation is layered:
//
//	HardestRate   golden-section over the code rate R, maximising cost
//	  EstimateAtRate
//	    HardestWeight   bisection for the weight where the expected
//	                    number of solutions crosses zero
//	    Instance.Optimize   nested golden-section over (paramL, paramP)
//	      Instance.RunTime  closed-form cost of one parameter choice
//
// Every entry point takes a Config and a space.Oracle explicitly; there is no
// package-level mutable state, so independent alphabet sizes can be evaluated
// concurrently (see Sweep).
package isd
