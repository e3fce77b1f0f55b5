package sparse

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// solveBiCGSTAB solves a square, possibly unsymmetric system
func solveBiCGSTAB(a *compressed, tol float64, maxIter int) ([]float64, error) {
	n := a.cols
	x := make([]float64, n)
	bnorm := floats.Norm(a.b, 2)
	if bnorm == 0 {
		return x, nil
	}

	r := append([]float64(nil), a.b...)
	rhat := append([]float64(nil), r...)
	p := make([]float64, n)
	v := make([]float64, n)
	s := make([]float64, n)
	t := make([]float64, n)

	rho, alpha, omega := 1.0, 1.0, 1.0
	for it := 0; it < maxIter; it++ {
		rhoNew := floats.Dot(rhat, r)
		if rhoNew == 0 {
			return nil, ErrSingular
		}

		beta := (rhoNew / rho) * (alpha / omega)
		for i := range p {
			p[i] = r[i] + beta*(p[i]-omega*v[i])
		}
		a.mulVec(v, p)

		den := floats.Dot(rhat, v)
		if den == 0 {
			return nil, ErrSingular
		}
		alpha = rhoNew / den

		copy(s, r)
		floats.AddScaled(s, -alpha, v)
		if floats.Norm(s, 2) <= tol*bnorm {
			floats.AddScaled(x, alpha, p)
			return x, nil
		}

		a.mulVec(t, s)
		tt := floats.Dot(t, t)
		if tt == 0 {
			return nil, ErrSingular
		}
		omega = floats.Dot(t, s) / tt

		floats.AddScaled(x, alpha, p)
		floats.AddScaled(x, omega, s)

		copy(r, s)
		floats.AddScaled(r, -omega, t)
		if floats.Norm(r, 2) <= tol*bnorm {
			return x, nil
		}
		if omega == 0 || math.IsNaN(omega) {
			return nil, ErrSingular
		}
		rho = rhoNew
	}
	return nil, ErrNotConverged
}

// solveCGLS minimizes |Ax - b| by conjugate gradients on the normal
// equations without forming AᵀA.
func solveCGLS(a *compressed, tol float64, maxIter int) ([]float64, error) {
	n := a.cols
	x := make([]float64, n)

	r := append([]float64(nil), a.b...)
	s := make([]float64, n)
	a.mulTransVec(s, r)

	snorm0 := floats.Norm(s, 2)
	if snorm0 == 0 {
		return x, nil
	}

	p := append([]float64(nil), s...)
	q := make([]float64, a.rows)
	gamma := floats.Dot(s, s)

	for it := 0; it < maxIter; it++ {
		a.mulVec(q, p)
		qq := floats.Dot(q, q)
		if qq == 0 {
			return nil, ErrSingular
		}
		alpha := gamma / qq

		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, q)
		a.mulTransVec(s, r)

		gammaNew := floats.Dot(s, s)
		if math.Sqrt(gammaNew) <= tol*snorm0 {
			return x, nil
		}

		beta := gammaNew / gamma
		for i := range p {
			p[i] = s[i] + beta*p[i]
		}
		gamma = gammaNew
	}
	return nil, ErrNotConverged
}
