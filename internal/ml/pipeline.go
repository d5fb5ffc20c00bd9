package ml

// Pipeline chains a StandardScaler and a classifier. The scaler is fit on
// the data passed to Fit and nowhere else.
type Pipeline struct {
	Scaler *StandardScaler
	Model  Classifier
}

// NewPipeline wraps model behind a fresh scaler
func NewPipeline(model Classifier) *Pipeline {
	return &Pipeline{
		Scaler: NewStandardScaler(),
		Model:  model,
	}
}

// Fit fits the scaler, then the classifier on the scaled rows
func (p *Pipeline) Fit(X [][]float64, y []int) error {
	if _, err := checkTraining(X, y); err != nil {
		return err
	}
	if err := p.Scaler.Fit(X); err != nil {
		return err
	}

	scaled, err := p.Scaler.Transform(X)
	if err != nil {
		return err
	}
	return p.Model.Fit(scaled, y)
}

// Predict returns labels for X
func (p *Pipeline) Predict(X [][]float64) ([]int, error) {
	scaled, err := p.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Model.Predict(scaled)
}

// PredictProba returns positive-class probabilities for X
func (p *Pipeline) PredictProba(X [][]float64) ([]float64, error) {
	scaled, err := p.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Model.PredictProba(scaled)
}
