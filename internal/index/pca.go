package index

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA is a fitted linear reduction transform. It is fit once over the corpus
// embedding matrix at build time and applied unchanged to every later query
// vector; it is never refit within a process lifetime.
type PCA struct {
	mean       []float64 // per-feature column means of the training data
	components *mat.Dense // d x k projection matrix
}

// FitPCA learns a projection from data (n samples x d features) down to k
// components. Callers are responsible for checking the sample-count
// preconditions; FitPCA only validates shape.
func FitPCA(data *mat.Dense, k int) (*PCA, error) {
	n, d := data.Dims()
	if k <= 0 || k > d || k > n {
		return nil, fmt.Errorf("pca: cannot reduce %dx%d matrix to %d components", n, d, k)
	}

	var pc stat.PC
	if ok := pc.PrincipalComponents(data, nil); !ok {
		return nil, fmt.Errorf("pca: decomposition failed for %dx%d matrix", n, d)
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)

	mean := make([]float64, d)
	for j := 0; j < d; j++ {
		mean[j] = stat.Mean(mat.Col(nil, j, data), nil)
	}

	components := mat.NewDense(d, k, nil)
	components.Copy(vecs.Slice(0, d, 0, k))

	return &PCA{mean: mean, components: components}, nil
}

// Components returns the output dimension of the transform.
func (p *PCA) Components() int {
	_, k := p.components.Dims()
	return k
}

// Transform projects a single vector into the reduced space.
func (p *PCA) Transform(v []float64) ([]float64, error) {
	if len(v) != len(p.mean) {
		return nil, fmt.Errorf("pca: vector dimension %d does not match fitted dimension %d", len(v), len(p.mean))
	}
	centered := make([]float64, len(v))
	for i := range v {
		centered[i] = v[i] - p.mean[i]
	}
	_, k := p.components.Dims()
	out := mat.NewVecDense(k, nil)
	out.MulVec(p.components.T(), mat.NewVecDense(len(centered), centered))
	return out.RawVector().Data, nil
}

// TransformAll projects every row of data into the reduced space.
func (p *PCA) TransformAll(data *mat.Dense) (*mat.Dense, error) {
	n, d := data.Dims()
	if d != len(p.mean) {
		return nil, fmt.Errorf("pca: matrix dimension %d does not match fitted dimension %d", d, len(p.mean))
	}
	centered := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		row := data.RawRowView(i)
		for j := 0; j < d; j++ {
			centered.Set(i, j, row[j]-p.mean[j])
		}
	}
	_, k := p.components.Dims()
	out := mat.NewDense(n, k, nil)
	out.Mul(centered, p.components)
	return out, nil
}
