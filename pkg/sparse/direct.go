package sparse

import (
	"gonum.org/v1/gonum/mat"
)

func solveDenseSquare(a *compressed) ([]float64, error) {
	var lu mat.LU
	lu.Factorize(a.dense())

	x := mat.NewVecDense(a.cols, nil)
	if err := lu.SolveVecTo(x, false, mat.NewVecDense(a.rows, a.b)); err != nil {
		return nil, ErrSingular
	}
	return x.RawVector().Data, nil
}

// solveDenseNormal solves the normal equations AᵀA x = Aᵀb with a
// Cholesky factorization.
func solveDenseNormal(a *compressed) ([]float64, error) {
	d := a.dense()

	var normal mat.SymDense
	normal.SymOuterK(1, d.T())

	var atb mat.VecDense
	atb.MulVec(d.T(), mat.NewVecDense(a.rows, a.b))

	var ch mat.Cholesky
	if ok := ch.Factorize(&normal); !ok {
		return nil, ErrSingular
	}

	x := mat.NewVecDense(a.cols, nil)
	if err := ch.SolveVecTo(x, &atb); err != nil {
		return nil, ErrSingular
	}
	return x.RawVector().Data, nil
}
